package strategies

// Noop does nothing. A run with it leaves the balance untouched.
type Noop struct {
	Base
}

func (*Noop) Name() string { return "noop" }
