package cellgen

// DefaultSafetyLimit bounds the number of round-robin passes Growth makes.
const DefaultSafetyLimit = 10000

type config struct {
	method      Method
	pick        PickMethod
	safetyLimit int
}

func newConfig(opts []Option) config {
	c := config{
		method:      DefaultMethod,
		pick:        DefaultPickMethod,
		safetyLimit: DefaultSafetyLimit,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Option configures a generator call.
type Option func(*config)

// WithMethod selects the generator used by [Generate].
func WithMethod(m Method) Option {
	return func(c *config) { c.method = m }
}

// WithPickMethod selects the candidate policy used by [Growth].
func WithPickMethod(m PickMethod) Option {
	return func(c *config) { c.pick = m }
}

// WithSafetyLimit overrides the maximum number of growth passes. Values
// below 1 keep the default.
func WithSafetyLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.safetyLimit = n
		}
	}
}
