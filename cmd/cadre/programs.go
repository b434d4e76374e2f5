package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/cadre/internal/app"
	"github.com/five82/cadre/internal/prefs"
	"github.com/five82/cadre/internal/program"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newProgramsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List or create programs without the TUI",
	}
	cmd.AddCommand(newProgramsListCmd(flags), newProgramsCreateCmd(flags))
	return cmd
}

func newProgramsListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(cmd.Context(), flags.options())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			snaps, err := env.Gateway.GetAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list programs: %w", err)
			}
			programs, decodeErr := program.FromSnapshots(snaps)
			if decodeErr != nil {
				env.Logger.Warn("skipped undecodable programs", zap.Error(decodeErr))
			}

			out := cmd.OutOrStdout()
			if len(programs) == 0 {
				_, err := fmt.Fprintln(out, "No programs yet")
				return err
			}
			userPrefs, _ := prefs.Load(flags.prefsPath)
			_, err = fmt.Fprintln(out, programTable(programs, userPrefs.Locale))
			return err
		},
	}
}

func programTable(programs []program.Program, locale string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "TRAINEES", "WEEKS", "CREATED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range programs {
		t.Row(
			p.ID,
			p.Title,
			strconv.Itoa(p.TraineeCount),
			strconv.Itoa(p.DurationInWeeks),
			program.FormatLongDate(p.CreatedAt, locale),
		)
	}
	return t.Render()
}

type createFlags struct {
	title        string
	weeks        string
	trainees     string
	prerequisite string
}

func newProgramsCreateCmd(flags *globalFlags) *cobra.Command {
	cf := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := cf.draft(uuid.NewString(), time.Now())
			if err != nil {
				return err
			}

			env, err := app.Setup(cmd.Context(), flags.options())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			id, err := env.Gateway.Create(cmd.Context(), draft)
			if err != nil {
				if field, msg, ok := program.DisplayError(err); ok {
					return fmt.Errorf("%s: %s", field, msg)
				}
				env.Logger.Error("create program failed", zap.Error(err))
				return fmt.Errorf("create program: %w", err)
			}
			env.Logger.Info("program created", zap.String("id", id), zap.String("title", draft.Title))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cf.title, "title", "", "program title")
	f.StringVar(&cf.weeks, "weeks", strconv.Itoa(program.DefaultDurationInWeeks), "duration in weeks")
	f.StringVar(&cf.trainees, "trainees", "0", "trainee count")
	f.StringVar(&cf.prerequisite, "prerequisite", "", "id of a prerequisite program")
	return cmd
}

// draft builds the draft the same way the create dialog does, one field
// edit at a time.
func (cf *createFlags) draft(key string, now time.Time) (program.Draft, error) {
	d := program.NewDraft(key)
	values := []struct{ field, value string }{
		{program.FieldTitle, cf.title},
		{program.FieldDurationInWeeks, cf.weeks},
		{program.FieldTraineeCount, cf.trainees},
		{program.FieldPrerequisite, cf.prerequisite},
	}
	var errs []error
	for _, v := range values {
		if err := d.Set(v.field, v.value); err != nil {
			errs = append(errs, fmt.Errorf("--%s: %w", flagName(v.field), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return program.Draft{}, err
	}
	d.CreatedAt = now
	return d, nil
}

func flagName(field string) string {
	switch field {
	case program.FieldDurationInWeeks:
		return "weeks"
	case program.FieldTraineeCount:
		return "trainees"
	case program.FieldPrerequisite:
		return "prerequisite"
	default:
		return field
	}
}
