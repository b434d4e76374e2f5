package state

import (
	"slices"
	"time"

	"github.com/five82/cadre/internal/program"
)

// GenericCreateError is shown when a create fails for a reason other than
// validation.
const GenericCreateError = "Could not save program. Try again."

// Phase is the creation dialog phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Page is the complete state of the Programs view.
type Page struct {
	Programs []program.Program
	Loading  bool
	// Loaded is set once the initial load has completed, successfully or not.
	Loaded  bool
	LoadErr error

	Phase  Phase
	Draft  program.Draft
	Errors map[string]string
}

// DialogOpen reports whether the creation dialog is visible.
func (p Page) DialogOpen() bool {
	return p.Phase != PhaseIdle
}

// Submitting reports whether a create call is in flight.
func (p Page) Submitting() bool {
	return p.Phase == PhaseSubmitting
}

// Display returns the view classification for the page.
func (p Page) Display() Display {
	return Classify(p.Programs, p.Loading)
}

// Event is an input to Apply.
type Event interface{ isEvent() }

// LoadStarted begins the initial load. It is ignored once a load has
// completed or while one is running.
type LoadStarted struct{}

// LoadSucceeded replaces the program list.
type LoadSucceeded struct{ Programs []program.Program }

// LoadFailed ends the load with an empty list.
type LoadFailed struct{ Err error }

// DialogOpened opens the creation dialog. Fresh seeds the draft when no
// draft is retained from an earlier attempt.
type DialogOpened struct{ Fresh program.Draft }

// FieldEdited changes one draft field. Value is in form representation.
type FieldEdited struct {
	Field string
	Value string
}

// DialogClosed hides the dialog; the draft is kept.
type DialogClosed struct{}

// Submitted requests persistence of the current draft. At becomes the
// draft's creation time unless one is already set.
type Submitted struct{ At time.Time }

// CreateSucceeded reports the id the gateway assigned.
type CreateSucceeded struct{ ID string }

// CreateFailed reports a failed create.
type CreateFailed struct{ Err error }

func (LoadStarted) isEvent()     {}
func (LoadSucceeded) isEvent()   {}
func (LoadFailed) isEvent()      {}
func (DialogOpened) isEvent()    {}
func (FieldEdited) isEvent()     {}
func (DialogClosed) isEvent()    {}
func (Submitted) isEvent()       {}
func (CreateSucceeded) isEvent() {}
func (CreateFailed) isEvent()    {}

// Effect is work the caller performs after a transition. A nil Effect means
// nothing to do.
type Effect interface{ isEffect() }

// EffectLoad asks the caller to fetch all programs.
type EffectLoad struct{}

// EffectCreate asks the caller to persist Draft.
type EffectCreate struct{ Draft program.Draft }

// EffectLog asks the caller to log an error that has no user-facing surface.
type EffectLog struct {
	Msg string
	Err error
}

func (EffectLoad) isEffect()   {}
func (EffectCreate) isEffect() {}
func (EffectLog) isEffect()    {}

// Apply returns the page that results from ev and the effect to run.
// p is not modified.
func Apply(p Page, ev Event) (Page, Effect) {
	switch ev := ev.(type) {
	case LoadStarted:
		if p.Loading || p.Loaded {
			return p, nil
		}
		p.Loading = true
		return p, EffectLoad{}

	case LoadSucceeded:
		if !p.Loading {
			return p, nil
		}
		p.Programs = slices.Clone(ev.Programs)
		p.Loading = false
		p.Loaded = true
		p.LoadErr = nil
		return p, nil

	case LoadFailed:
		if !p.Loading {
			return p, nil
		}
		p.Programs = nil
		p.Loading = false
		p.Loaded = true
		p.LoadErr = ev.Err
		return p, EffectLog{Msg: "load programs", Err: ev.Err}

	case DialogOpened:
		if p.Phase != PhaseIdle {
			return p, nil
		}
		if p.Draft.IsZero() {
			p.Draft = ev.Fresh
		}
		p.Phase = PhaseEditing
		return p, nil

	case FieldEdited:
		if p.Phase != PhaseEditing {
			return p, nil
		}
		draft := p.Draft
		if err := draft.Set(ev.Field, ev.Value); err != nil {
			// unparseable input leaves the field unchanged
			return p, nil
		}
		p.Draft = draft
		return p, nil

	case DialogClosed:
		if p.Phase != PhaseEditing {
			return p, nil
		}
		p.Phase = PhaseIdle
		return p, nil

	case Submitted:
		if p.Phase != PhaseEditing {
			return p, nil
		}
		if p.Draft.CreatedAt.IsZero() {
			p.Draft.CreatedAt = ev.At
		}
		p.Phase = PhaseSubmitting
		return p, EffectCreate{Draft: p.Draft}

	case CreateSucceeded:
		if p.Phase != PhaseSubmitting {
			return p, nil
		}
		p.Programs = append(slices.Clone(p.Programs), p.Draft.WithID(ev.ID))
		p.Draft = program.Draft{}
		p.Errors = nil
		p.Phase = PhaseIdle
		return p, nil

	case CreateFailed:
		if p.Phase != PhaseSubmitting {
			return p, nil
		}
		p.Phase = PhaseEditing
		if field, msg, ok := program.DisplayError(ev.Err); ok {
			p.Errors = map[string]string{field: msg}
			return p, nil
		}
		p.Errors = map[string]string{program.FormErrorKey: GenericCreateError}
		return p, EffectLog{Msg: "create program", Err: ev.Err}
	}
	return p, nil
}
