package git

import "strings"

// Outcome is the captured result of one git invocation.
// It is never modified after the runner returns it.
type Outcome struct {
	Command   string
	Dir       string
	Succeeded bool
	ExitCode  int
	Stdout    string
	Stderr    string
}

// Shape selects which view of an Outcome a caller wants.
type Shape int

const (
	ShapeRaw Shape = iota
	ShapeSuccess
	ShapeFailed
	ShapeOutput
	ShapeCombined
)

var shapeNames = map[Shape]string{
	ShapeRaw:      "raw",
	ShapeSuccess:  "success",
	ShapeFailed:   "failed",
	ShapeOutput:   "output",
	ShapeCombined: "combined",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseShape returns the Shape named by s ("raw", "success", "failed", "output", "combined").
func ParseShape(s string) (Shape, bool) {
	for shape, name := range shapeNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return shape, true
		}
	}
	return ShapeRaw, false
}

// Success reports whether the process exited zero.
func (o *Outcome) Success() bool {
	return o.Succeeded
}

// Failed reports whether the process exited non-zero.
func (o *Outcome) Failed() bool {
	return !o.Succeeded
}

// Output returns stdout with surrounding whitespace and newlines removed.
func (o *Outcome) Output() string {
	return strings.TrimSpace(o.Stdout)
}

// Combined returns stdout followed by stderr, exactly as captured.
func (o *Outcome) Combined() string {
	return o.Stdout + o.Stderr
}

// Err returns a *ProcessFailedError when the process did not succeed, nil otherwise.
func (o *Outcome) Err() error {
	if o.Succeeded {
		return nil
	}
	return &ProcessFailedError{
		Command:  o.Command,
		Dir:      o.Dir,
		ExitCode: o.ExitCode,
		Stderr:   o.Stderr,
	}
}

// Project returns the view of o selected by shape: a bool for ShapeSuccess and
// ShapeFailed, a string for ShapeOutput and ShapeCombined, and o itself otherwise.
// o must not be nil.
func Project(o *Outcome, shape Shape) any {
	switch shape {
	case ShapeSuccess:
		return o.Success()
	case ShapeFailed:
		return o.Failed()
	case ShapeOutput:
		return o.Output()
	case ShapeCombined:
		return o.Combined()
	default:
		return o
	}
}
