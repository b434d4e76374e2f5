package program

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field names as they appear in stored documents and validation paths.
const (
	FieldTitle           = "title"
	FieldCreatedAt       = "createdAt"
	FieldPrerequisite    = "prerequisiteProgramId"
	FieldTraineeCount    = "traineeCount"
	FieldDurationInWeeks = "durationInWeeks"
)

// DefaultDurationInWeeks is applied to every new draft.
const DefaultDurationInWeeks = 2

// Program is a stored training program.
type Program struct {
	ID                    string    `json:"id,omitempty"`
	DraftKey              string    `json:"-"`
	Title                 string    `json:"title"`
	CreatedAt             time.Time `json:"createdAt"`
	PrerequisiteProgramID string    `json:"prerequisiteProgramId,omitempty"`
	TraineeCount          int       `json:"traineeCount"`
	DurationInWeeks       int       `json:"durationInWeeks"`
}

// Persisted reports whether the gateway has assigned an id.
func (p Program) Persisted() bool {
	return p.ID != ""
}

// Key returns a stable identity for list rendering: the stored id when
// present, otherwise the client-side draft key.
func (p Program) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.DraftKey
}

// Draft is a program that has not been persisted yet.
type Draft struct {
	DraftKey              string    `json:"-"`
	Title                 string    `json:"title" validate:"required,max=100"`
	CreatedAt             time.Time `json:"createdAt"`
	PrerequisiteProgramID string    `json:"prerequisiteProgramId,omitempty" validate:"omitempty,max=64"`
	TraineeCount          int       `json:"traineeCount" validate:"gte=0"`
	DurationInWeeks       int       `json:"durationInWeeks" validate:"gt=0"`
}

// NewDraft returns a draft carrying the creation defaults.
func NewDraft(key string) Draft {
	return Draft{
		DraftKey:        key,
		DurationInWeeks: DefaultDurationInWeeks,
	}
}

// IsZero reports whether d is the zero draft (no key, no values).
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// WithID converts the draft into the stored program identified by id.
func (d Draft) WithID(id string) Program {
	return Program{
		ID:                    id,
		DraftKey:              d.DraftKey,
		Title:                 d.Title,
		CreatedAt:             d.CreatedAt,
		PrerequisiteProgramID: d.PrerequisiteProgramID,
		TraineeCount:          d.TraineeCount,
		DurationInWeeks:       d.DurationInWeeks,
	}
}

// Set updates one named field from its form representation. Integer fields
// accept an empty value as zero; no other validation happens here.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldPrerequisite:
		d.PrerequisiteProgramID = value
	case FieldTraineeCount:
		n, err := parseCount(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		d.TraineeCount = n
	case FieldDurationInWeeks:
		n, err := parseCount(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		d.DurationInWeeks = n
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// Value returns the form representation of a named field.
func (d Draft) Value(field string) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldPrerequisite:
		return d.PrerequisiteProgramID
	case FieldTraineeCount:
		return strconv.Itoa(d.TraineeCount)
	case FieldDurationInWeeks:
		return strconv.Itoa(d.DurationInWeeks)
	default:
		return ""
	}
}

// EditableFields lists the draft fields an operator can change, in form order.
func EditableFields() []string {
	return []string{FieldTitle, FieldDurationInWeeks, FieldTraineeCount, FieldPrerequisite}
}

func parseCount(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.Atoi(trimmed)
}
