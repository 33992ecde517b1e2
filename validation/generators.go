package validation

// Run carries the mutable state of a single top-level validation pass: the
// counters behind sequential default generators. Callers create a fresh Run
// per document, so identifiers always restart from their configured start
// value and concurrent validations cannot observe each other's counters.
type Run struct {
	counters map[string]int
}

// NewRun returns an empty generator state for one validation pass.
func NewRun() *Run {
	return &Run{counters: map[string]int{}}
}

func (r *Run) next(name string, start int) int {
	n, ok := r.counters[name]
	if !ok {
		n = start
	}
	r.counters[name] = n + 1
	return n
}

// Default produces the effective value for an absent optional attribute.
type Default interface {
	value(run *Run) any
}

// Static is a fixed default value.
type Static struct {
	Value any
}

func (s Static) value(*Run) any { return s.Value }

// Sequence is a counting default generator. Counters are keyed by Name within
// a Run, so every record checked in the same pass that omits the attribute
// draws the next value from the same sequence.
type Sequence struct {
	Name   string
	Start  int
	Format func(n int) any // nil yields the bare integer
}

func (s Sequence) value(run *Run) any {
	n := run.next(s.Name, s.Start)
	if s.Format != nil {
		return s.Format(n)
	}
	return n
}
