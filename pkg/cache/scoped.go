package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without colliding.
//
// Example usage:
//
//	// Server instance keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "roomgrid:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GridKey generates a prefixed grid key.
func (k *ScopedKeyer) GridKey(opts GridKeyOpts) string {
	return k.prefix + k.inner.GridKey(opts)
}

// GraphKey generates a prefixed graph key.
func (k *ScopedKeyer) GraphKey(gridHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(gridHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(gridHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(gridHash, opts)
}
