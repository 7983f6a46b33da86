package wizard

import (
	"errors"

	"gym-booking/internal/models"
)

var (
	ErrUnknownStep   = errors.New("wizard: unknown step")
	ErrUnknownOption = errors.New("wizard: unknown option")
	ErrStepInactive  = errors.New("wizard: control is not on the active step")
	ErrNoForwardStep = errors.New("wizard: no gated forward step from here")
	ErrNotBackward   = errors.New("wizard: back target must precede the active step")
)

// Messages shown when a gate blocks an advance.
const (
	MsgScheduleIncomplete = "Please select a day, time, and membership type before continuing."
	MsgTrainerIncomplete  = "Please select a trainer."
	MsgStudentIncomplete  = "Please complete all required fields."
)

// IncompleteStepError reports that a step's required fields are missing.
// The wizard state is left untouched when it is returned.
type IncompleteStepError struct {
	Step    models.Step
	Message string
	Missing []string
}

func (e *IncompleteStepError) Error() string {
	return e.Message
}
