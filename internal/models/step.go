package models

import "fmt"

// Step identifies one of the wizard views.
type Step int

const (
	StepSchedule Step = iota + 1
	StepTrainer
	StepStudent
	StepSummary
)

// Steps lists every step in wizard order.
var Steps = []Step{StepSchedule, StepTrainer, StepStudent, StepSummary}

// Valid reports whether s is one of the known steps.
func (s Step) Valid() bool {
	return s >= StepSchedule && s <= StepSummary
}

func (s Step) String() string {
	switch s {
	case StepSchedule:
		return "schedule"
	case StepTrainer:
		return "trainer"
	case StepStudent:
		return "student"
	case StepSummary:
		return "summary"
	}
	return fmt.Sprintf("step(%d)", int(s))
}
