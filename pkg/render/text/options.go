package text

import "github.com/matzehuels/roomgrid/pkg/rng"

// DefaultPadding surrounds each room label in the detailed map.
const DefaultPadding = " "

type options struct {
	colors  bool
	padding string
	mapOnly bool
	rand    rng.Source
}

func newOptions(opts []Option) options {
	o := options{padding: DefaultPadding}
	for _, fn := range opts {
		fn(&o)
	}
	if o.rand == nil {
		o.rand = rng.NewRandom()
	}
	return o
}

// Option configures a render.
type Option func(*options)

// WithColors enables ANSI colouring of room labels.
func WithColors(on bool) Option {
	return func(o *options) { o.colors = on }
}

// WithPadding sets the string placed on both sides of each label.
func WithPadding(p string) Option {
	return func(o *options) { o.padding = p }
}

// WithMapOnly omits the room manifest.
func WithMapOnly(on bool) Option {
	return func(o *options) { o.mapOnly = on }
}

// WithRand sets the source used to shuffle the colour palette.
func WithRand(r rng.Source) Option {
	return func(o *options) { o.rand = r }
}
