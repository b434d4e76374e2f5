package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/cadre/internal/program"
)

var submitTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func apply(t *testing.T, p Page, events ...Event) (Page, Effect) {
	t.Helper()
	var eff Effect
	for _, ev := range events {
		p, eff = Apply(p, ev)
	}
	return p, eff
}

func loadedPage(t *testing.T, programs ...program.Program) Page {
	t.Helper()
	p, _ := apply(t, Page{}, LoadStarted{}, LoadSucceeded{Programs: programs})
	return p
}

func TestClassifyIsPure(t *testing.T) {
	one := []program.Program{{ID: "a", Title: "A"}}
	cases := []struct {
		programs []program.Program
		loading  bool
		want     Display
	}{
		{nil, true, DisplayLoading},
		{one, true, DisplayLoading},
		{nil, false, DisplayEmpty},
		{[]program.Program{}, false, DisplayEmpty},
		{one, false, DisplayPopulated},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d/%v", len(tc.programs), tc.loading), func(t *testing.T) {
			for range 3 {
				assert.Equal(t, tc.want, Classify(tc.programs, tc.loading))
			}
		})
	}
}

func TestLoadLifecycle(t *testing.T) {
	p, eff := Apply(Page{}, LoadStarted{})
	assert.Equal(t, EffectLoad{}, eff)
	assert.Equal(t, DisplayLoading, p.Display())

	// a second start while loading does nothing
	_, eff = Apply(p, LoadStarted{})
	assert.Nil(t, eff)

	p, eff = Apply(p, LoadSucceeded{Programs: []program.Program{{ID: "a"}, {ID: "b"}}})
	assert.Nil(t, eff)
	assert.False(t, p.Loading)
	assert.True(t, p.Loaded)
	assert.Len(t, p.Programs, 2)
	assert.Equal(t, DisplayPopulated, p.Display())

	// loads happen at most once
	_, eff = Apply(p, LoadStarted{})
	assert.Nil(t, eff)
}

func TestEmptyLoadShowsEmptyState(t *testing.T) {
	p := loadedPage(t)
	assert.Equal(t, DisplayEmpty, p.Display())
}

func TestLoadFailureLeavesEmptyList(t *testing.T) {
	boom := errors.New("unreachable")
	p, eff := apply(t, Page{}, LoadStarted{}, LoadFailed{Err: boom})
	require.IsType(t, EffectLog{}, eff)
	assert.ErrorIs(t, eff.(EffectLog).Err, boom)
	assert.False(t, p.Loading)
	assert.Empty(t, p.Programs)
	assert.Equal(t, DisplayEmpty, p.Display())
	assert.Nil(t, p.Errors, "load errors have no user-facing surface")
}

func TestSuccessfulCreation(t *testing.T) {
	p := loadedPage(t, program.Program{ID: "old", Title: "Old"})
	before := len(p.Programs)

	p, _ = apply(t, p,
		DialogOpened{Fresh: program.NewDraft("draft-1")},
		FieldEdited{Field: program.FieldTitle, Value: "Cohort 5"},
		FieldEdited{Field: program.FieldDurationInWeeks, Value: "6"},
		FieldEdited{Field: program.FieldTraineeCount, Value: "0"},
	)
	p, eff := Apply(p, Submitted{At: submitTime})
	require.IsType(t, EffectCreate{}, eff)
	draft := eff.(EffectCreate).Draft
	assert.True(t, p.Submitting())

	p, eff = Apply(p, CreateSucceeded{ID: "abc123"})
	assert.Nil(t, eff)
	assert.False(t, p.DialogOpen())
	assert.False(t, p.Submitting())
	assert.Empty(t, p.Errors)
	require.Len(t, p.Programs, before+1)

	got := p.Programs[len(p.Programs)-1]
	assert.Equal(t, draft.WithID("abc123"), got)
	assert.Equal(t, "Cohort 5", got.Title)
	assert.Equal(t, 6, got.DurationInWeeks)
	assert.Equal(t, 0, got.TraineeCount)
	assert.Equal(t, submitTime, got.CreatedAt)

	// next open starts from a fresh draft
	p, _ = Apply(p, DialogOpened{Fresh: program.NewDraft("draft-2")})
	assert.Equal(t, program.NewDraft("draft-2"), p.Draft)
}

func TestValidationFailureRetainsDraft(t *testing.T) {
	p, _ := apply(t, loadedPage(t),
		DialogOpened{Fresh: program.NewDraft("k")},
		FieldEdited{Field: program.FieldTraineeCount, Value: "4"},
		FieldEdited{Field: program.FieldPrerequisite, Value: "p-9"},
	)
	p, eff := Apply(p, Submitted{At: submitTime})
	submitted := eff.(EffectCreate).Draft

	err := program.Validate(submitted)
	require.Error(t, err)

	p, eff = Apply(p, CreateFailed{Err: fmt.Errorf("create: %w", err)})
	assert.Nil(t, eff)
	assert.Equal(t, PhaseEditing, p.Phase)
	assert.Equal(t, submitted, p.Draft)
	assert.Equal(t, map[string]string{program.FieldTitle: "Field is required"}, p.Errors)

	// closing and reopening keeps the draft
	p, _ = apply(t, p, DialogClosed{}, DialogOpened{Fresh: program.NewDraft("other")})
	assert.Equal(t, submitted, p.Draft)
}

func TestOnlyFirstIssueSurfaces(t *testing.T) {
	p, _ := apply(t, loadedPage(t), DialogOpened{Fresh: program.NewDraft("k")}, Submitted{At: submitTime})
	verr := &program.ValidationError{Issues: []program.Issue{
		{Path: []string{"durationInWeeks"}, Message: `"durationInWeeks" must be greater than 0`},
		{Path: []string{"title"}, Message: `"title" is required`},
		{Path: []string{"traineeCount"}, Message: `"traineeCount" must be greater than or equal to 0`},
	}}
	p, _ = Apply(p, CreateFailed{Err: verr})
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "Field must be greater than 0", p.Errors["durationInWeeks"])
}

func TestValidationErrorsReplacePreviousOnes(t *testing.T) {
	p, _ := apply(t, loadedPage(t), DialogOpened{Fresh: program.NewDraft("k")}, Submitted{At: submitTime})
	p, _ = Apply(p, CreateFailed{Err: &program.ValidationError{Issues: []program.Issue{
		{Path: []string{"title"}, Message: `"title" is required`},
	}}})
	p, _ = apply(t, p, Submitted{At: submitTime}, CreateFailed{Err: &program.ValidationError{Issues: []program.Issue{
		{Path: []string{"traineeCount"}, Message: `"traineeCount" must be greater than or equal to 0`},
	}}})
	assert.Equal(t, map[string]string{"traineeCount": "Field must be greater than or equal to 0"}, p.Errors)
}

func TestTransportFailureResetsSubmitting(t *testing.T) {
	p, _ := apply(t, loadedPage(t), DialogOpened{Fresh: program.NewDraft("k")},
		FieldEdited{Field: program.FieldTitle, Value: "Evening"}, Submitted{At: submitTime})
	draft := p.Draft

	p, eff := Apply(p, CreateFailed{Err: errors.New("connection reset")})
	require.IsType(t, EffectLog{}, eff)
	assert.False(t, p.Submitting())
	assert.True(t, p.DialogOpen())
	assert.Equal(t, draft, p.Draft)
	assert.Equal(t, map[string]string{program.FormErrorKey: GenericCreateError}, p.Errors)

	// the operator can retry
	_, eff = Apply(p, Submitted{At: submitTime.Add(time.Minute)})
	require.IsType(t, EffectCreate{}, eff)
	assert.Equal(t, submitTime, eff.(EffectCreate).Draft.CreatedAt, "creation time is fixed on first submit")
}

func TestDuplicateSubmitIgnored(t *testing.T) {
	p, eff := apply(t, loadedPage(t), DialogOpened{Fresh: program.NewDraft("k")}, Submitted{At: submitTime})
	require.IsType(t, EffectCreate{}, eff)

	next, eff := Apply(p, Submitted{At: submitTime})
	assert.Nil(t, eff)
	assert.Equal(t, p, next)

	// closing and editing are also blocked while the create is in flight
	next, _ = apply(t, p, DialogClosed{}, FieldEdited{Field: program.FieldTitle, Value: "x"})
	assert.Equal(t, p, next)
}

func TestSubmitWithDialogClosedIgnored(t *testing.T) {
	p := loadedPage(t)
	next, eff := Apply(p, Submitted{At: submitTime})
	assert.Nil(t, eff)
	assert.Equal(t, PhaseIdle, next.Phase)
}

func TestStaleCreateResultsIgnored(t *testing.T) {
	p := loadedPage(t)
	next, eff := Apply(p, CreateSucceeded{ID: "late"})
	assert.Nil(t, eff)
	assert.Empty(t, next.Programs)
}

func TestFieldEditRejectsNonNumeric(t *testing.T) {
	p, _ := apply(t, loadedPage(t), DialogOpened{Fresh: program.NewDraft("k")},
		FieldEdited{Field: program.FieldDurationInWeeks, Value: "abc"})
	assert.Equal(t, program.DefaultDurationInWeeks, p.Draft.DurationInWeeks)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	p := loadedPage(t, program.Program{ID: "a"})
	p, _ = apply(t, p, DialogOpened{Fresh: program.NewDraft("k")},
		FieldEdited{Field: program.FieldTitle, Value: "B"}, Submitted{At: submitTime})
	before := p.Programs

	_, _ = Apply(p, CreateSucceeded{ID: "b"})
	assert.Len(t, before, 1)
	assert.Len(t, p.Programs, 1)
	assert.True(t, p.Submitting())
}

func TestPhaseAndDisplayStrings(t *testing.T) {
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "empty", DisplayEmpty.String())
}
