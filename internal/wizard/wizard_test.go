package wizard

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-booking/internal/metrics"
	"gym-booking/internal/models"
)

func newTestWizard(t *testing.T) (*Wizard, *models.Draft) {
	t.Helper()
	draft := &models.Draft{}
	m := metrics.NewWizardMetrics(prometheus.NewRegistry())
	return New(models.DefaultCatalog(), draft, WithMetrics(m)), draft
}

// toStudentStep fills steps 1 and 2 and leaves the wizard on step 3.
func toStudentStep(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.SelectSlot("mon-0700"))
	require.NoError(t, w.SelectMembership("standard"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectTrainer("alex"))
	require.NoError(t, w.Next())
	require.Equal(t, models.StepStudent, w.Step())
}

func TestNewStartsOnSchedule(t *testing.T) {
	w, _ := newTestWizard(t)
	assert.Equal(t, models.StepSchedule, w.Step())
	assert.Equal(t, Selections{}, w.Selections())

	w = New(models.DefaultCatalog(), nil)
	assert.Equal(t, models.Draft{}, w.Draft())
}

func TestSelectionLastClickWins(t *testing.T) {
	w, draft := newTestWizard(t)

	require.NoError(t, w.SelectSlot("mon-0700"))
	require.NoError(t, w.SelectSlot("sat-1000"))
	assert.Equal(t, "sat-1000", w.Selections().Slot)
	assert.True(t, w.slots.IsSelected("sat-1000"))
	assert.False(t, w.slots.IsSelected("mon-0700"))
	assert.Equal(t, "Saturday", draft.Day)
	assert.Equal(t, "10:00 AM", draft.Time)

	require.NoError(t, w.SelectMembership("basic"))
	require.NoError(t, w.SelectMembership("premium"))
	assert.Equal(t, "premium", draft.Membership)
	assert.False(t, w.memberships.IsSelected("basic"))

	require.NoError(t, w.Next())
	require.NoError(t, w.SelectTrainer("jordan"))
	require.NoError(t, w.SelectTrainer("sam"))
	assert.Equal(t, "sam", draft.Trainer)
	assert.Equal(t, "sam", w.Selections().Trainer)
	assert.False(t, w.trainers.IsSelected("jordan"))
}

func TestSelectUnknownOptionLeavesState(t *testing.T) {
	w, draft := newTestWizard(t)
	require.NoError(t, w.SelectSlot("wed-0700"))

	assert.ErrorIs(t, w.SelectSlot("sun-2300"), ErrUnknownOption)
	assert.ErrorIs(t, w.SelectMembership("gold"), ErrUnknownOption)
	assert.Equal(t, "wed-0700", w.Selections().Slot)
	assert.Equal(t, "Wednesday", draft.Day)
	assert.Empty(t, draft.Membership)
}

func TestSelectOnInactiveStep(t *testing.T) {
	w, _ := newTestWizard(t)
	assert.ErrorIs(t, w.SelectTrainer("alex"), ErrStepInactive)

	toStudentStep(t, w)
	assert.ErrorIs(t, w.SelectSlot("mon-1800"), ErrStepInactive)
	assert.ErrorIs(t, w.SelectMembership("basic"), ErrStepInactive)
	assert.ErrorIs(t, w.SelectTrainer("sam"), ErrStepInactive)
}

func TestScheduleGate(t *testing.T) {
	tests := []struct {
		name       string
		slot       string
		membership string
		missing    []string
	}{
		{"nothing selected", "", "", []string{"day", "time", "membership"}},
		{"slot only", "fri-0700", "", []string{"membership"}},
		{"membership only", "", "basic", []string{"day", "time"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, draft := newTestWizard(t)
			if tt.slot != "" {
				require.NoError(t, w.SelectSlot(tt.slot))
			}
			if tt.membership != "" {
				require.NoError(t, w.SelectMembership(tt.membership))
			}
			before := *draft

			err := w.Next()
			var incomplete *IncompleteStepError
			require.True(t, errors.As(err, &incomplete))
			assert.Equal(t, models.StepSchedule, incomplete.Step)
			assert.Equal(t, MsgScheduleIncomplete, incomplete.Error())
			assert.Equal(t, tt.missing, incomplete.Missing)
			assert.Equal(t, models.StepSchedule, w.Step())
			assert.Equal(t, before, *draft)
		})
	}

	t.Run("all selected", func(t *testing.T) {
		w, _ := newTestWizard(t)
		require.NoError(t, w.SelectSlot("fri-0700"))
		require.NoError(t, w.SelectMembership("basic"))
		require.NoError(t, w.Next())
		assert.Equal(t, models.StepTrainer, w.Step())
	})
}

func TestTrainerGate(t *testing.T) {
	w, _ := newTestWizard(t)
	require.NoError(t, w.SelectSlot("fri-0700"))
	require.NoError(t, w.SelectMembership("basic"))
	require.NoError(t, w.Next())

	err := w.Next()
	var incomplete *IncompleteStepError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, MsgTrainerIncomplete, incomplete.Message)
	assert.Equal(t, models.StepTrainer, w.Step())

	require.NoError(t, w.SelectTrainer("jordan"))
	require.NoError(t, w.Next())
	assert.Equal(t, models.StepStudent, w.Step())
}

func TestNextFromStudentOrSummary(t *testing.T) {
	w, _ := newTestWizard(t)
	toStudentStep(t, w)
	assert.ErrorIs(t, w.Next(), ErrNoForwardStep)

	require.NoError(t, w.SubmitStudentInfo(StudentForm{FirstName: "A", LastName: "B", BirthMonth: "1", BirthDay: "2", BirthYear: "2000"}))
	assert.ErrorIs(t, w.Next(), ErrNoForwardStep)
	assert.Equal(t, models.StepSummary, w.Step())
}

func TestSubmitStudentInfo(t *testing.T) {
	w, draft := newTestWizard(t)
	toStudentStep(t, w)

	err := w.SubmitStudentInfo(StudentForm{
		FirstName:  " Ann ",
		MiddleName: "",
		LastName:   " Lee ",
		BirthMonth: "3",
		BirthDay:   "7",
		BirthYear:  "1990",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StepSummary, w.Step())
	assert.Equal(t, "Ann", draft.FirstName)
	assert.Equal(t, "", draft.MiddleName)
	assert.Equal(t, "Lee", draft.LastName)
	assert.Equal(t, "03/07/1990", draft.BirthDate)
	assert.Equal(t, "Ann Lee", w.Summary().Name)
}

func TestSubmitStudentInfoMissingFields(t *testing.T) {
	w, draft := newTestWizard(t)
	toStudentStep(t, w)
	before := *draft

	err := w.SubmitStudentInfo(StudentForm{
		FirstName:  "   ",
		MiddleName: "Q",
		LastName:   "Lee",
		BirthMonth: "12",
		BirthDay:   "",
		BirthYear:  "1985",
	})
	var incomplete *IncompleteStepError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, MsgStudentIncomplete, incomplete.Message)
	assert.ElementsMatch(t, []string{"firstName", "birthDay"}, incomplete.Missing)
	assert.Equal(t, models.StepStudent, w.Step())
	assert.Equal(t, before, *draft)
}

func TestSubmitStudentInfoWrongStep(t *testing.T) {
	w, _ := newTestWizard(t)
	err := w.SubmitStudentInfo(StudentForm{FirstName: "A", LastName: "B", BirthMonth: "1", BirthDay: "1", BirthYear: "1"})
	assert.ErrorIs(t, err, ErrStepInactive)
}

func TestBirthDateFormatting(t *testing.T) {
	tests := []struct {
		month, day, year string
		want             string
	}{
		{"3", "7", "1990", "03/07/1990"},
		{"12", "25", "2001", "12/25/2001"},
		{"123", "x", "85", "123/0x/85"},
	}
	for _, tt := range tests {
		f := StudentForm{BirthMonth: tt.month, BirthDay: tt.day, BirthYear: tt.year}
		assert.Equal(t, tt.want, f.BirthDate())
	}
}

func TestBackIsUngated(t *testing.T) {
	w, draft := newTestWizard(t)
	toStudentStep(t, w)

	require.NoError(t, w.Back(models.StepSchedule))
	assert.Equal(t, models.StepSchedule, w.Step())
	assert.Equal(t, "alex", draft.Trainer, "going back keeps collected fields")

	assert.ErrorIs(t, w.Back(models.StepSchedule), ErrNotBackward)
	assert.ErrorIs(t, w.Back(models.StepSummary), ErrNotBackward)
	assert.ErrorIs(t, w.Back(models.Step(0)), ErrUnknownStep)
}

func TestShowStepRejectsUnknown(t *testing.T) {
	w, _ := newTestWizard(t)
	require.NoError(t, w.ShowStep(models.StepStudent))

	assert.ErrorIs(t, w.ShowStep(models.Step(9)), ErrUnknownStep)
	assert.Equal(t, models.StepStudent, w.Step())
}

func TestReset(t *testing.T) {
	w, draft := newTestWizard(t)
	toStudentStep(t, w)

	w.Reset()
	assert.Equal(t, models.StepSchedule, w.Step())
	assert.Equal(t, models.Draft{}, *draft)
	assert.Equal(t, Selections{}, w.Selections())
}

func TestSummarizePlaceholders(t *testing.T) {
	s := Summarize(models.Draft{Day: "Monday", FirstName: "Ann", LastName: "Lee"})
	assert.Equal(t, Summary{
		Day:        "Monday",
		Time:       Placeholder,
		Membership: Placeholder,
		Trainer:    Placeholder,
		Name:       "Ann Lee",
		BirthDate:  Placeholder,
	}, s)

	assert.Equal(t, Placeholder, Summarize(models.Draft{}).Name)
}
