package irls

type config struct {
	refSteps int
	refTol   float64
}

func defaultConfig() config {
	return config{
		refSteps: 100,
		refTol:   1e-7,
	}
}

type Option func(*config)

// WithRefSteps caps the number of reweighting iterations. Zero is
// allowed and returns the starting coefficients untouched.
func WithRefSteps(steps int) Option {
	return func(c *config) {
		if steps >= 0 {
			c.refSteps = steps
		}
	}
}

// WithRefTol sets the convergence tolerance on the largest coordinate
// change between successive iterates. Default 1e-7.
func WithRefTol(tol float64) Option {
	return func(c *config) {
		if tol > 0 {
			c.refTol = tol
		}
	}
}
