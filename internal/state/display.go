package state

import "github.com/five82/cadre/internal/program"

// Display is what the Programs view renders.
type Display int

const (
	DisplayLoading Display = iota
	DisplayEmpty
	DisplayPopulated
)

func (d Display) String() string {
	switch d {
	case DisplayLoading:
		return "loading"
	case DisplayEmpty:
		return "empty"
	default:
		return "populated"
	}
}

// Classify picks the view for a program list. While loading nothing else is
// shown.
func Classify(programs []program.Program, loading bool) Display {
	switch {
	case loading:
		return DisplayLoading
	case len(programs) == 0:
		return DisplayEmpty
	default:
		return DisplayPopulated
	}
}
