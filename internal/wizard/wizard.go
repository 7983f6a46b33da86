// Package wizard implements the four-step booking flow: schedule and
// membership, trainer, student details, and summary.
package wizard

import (
	"gym-booking/internal/metrics"
	"gym-booking/internal/models"
)

// Wizard owns one Draft and the view state around it. It is not safe for
// concurrent use; callers that share a Wizard must serialize access.
type Wizard struct {
	catalog     models.Catalog
	draft       *models.Draft
	step        models.Step
	slots       *Group
	memberships *Group
	trainers    *Group
	metrics     *metrics.WizardMetrics
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithMetrics records navigation counters on m.
func WithMetrics(m *metrics.WizardMetrics) Option {
	return func(w *Wizard) { w.metrics = m }
}

// Selections holds the option ID highlighted in each group.
type Selections struct {
	Slot       string `json:"slot"`
	Membership string `json:"membership"`
	Trainer    string `json:"trainer"`
}

// New returns a wizard on the schedule step writing into draft.
// A nil draft is replaced by an empty one.
func New(catalog models.Catalog, draft *models.Draft, opts ...Option) *Wizard {
	if draft == nil {
		draft = &models.Draft{}
	}
	w := &Wizard{
		catalog:     catalog,
		draft:       draft,
		slots:       newGroup(slotIDs(catalog)),
		memberships: newGroup(membershipIDs(catalog)),
		trainers:    newGroup(trainerIDs(catalog)),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.show(models.StepSchedule)
	return w
}

// Catalog returns the options the wizard offers.
func (w *Wizard) Catalog() models.Catalog {
	return w.catalog
}

// Step returns the active step.
func (w *Wizard) Step() models.Step {
	return w.step
}

// Draft returns a copy of the booking collected so far.
func (w *Wizard) Draft() models.Draft {
	return *w.draft
}

// Selections returns the highlighted option of each group.
func (w *Wizard) Selections() Selections {
	return Selections{
		Slot:       w.slots.Selected(),
		Membership: w.memberships.Selected(),
		Trainer:    w.trainers.Selected(),
	}
}

// Summary projects the current draft for display.
func (w *Wizard) Summary() Summary {
	return Summarize(*w.draft)
}

// ShowStep makes step the only active view.
func (w *Wizard) ShowStep(step models.Step) error {
	if !step.Valid() {
		return ErrUnknownStep
	}
	w.show(step)
	return nil
}

func (w *Wizard) show(step models.Step) {
	w.step = step
	w.metrics.ObserveStep(step.String())
}

// SelectSlot highlights the slot and writes its day and time into the draft.
func (w *Wizard) SelectSlot(id string) error {
	if w.step != models.StepSchedule {
		return ErrStepInactive
	}
	slot, ok := w.catalog.Slot(id)
	if !ok || !w.slots.Select(id) {
		return ErrUnknownOption
	}
	w.draft.Day = slot.Day
	w.draft.Time = slot.Time
	return nil
}

// SelectMembership highlights the tier and writes its ID into the draft.
func (w *Wizard) SelectMembership(id string) error {
	if w.step != models.StepSchedule {
		return ErrStepInactive
	}
	if !w.memberships.Select(id) {
		return ErrUnknownOption
	}
	w.draft.Membership = id
	return nil
}

// SelectTrainer highlights the trainer and writes its ID into the draft.
func (w *Wizard) SelectTrainer(id string) error {
	if w.step != models.StepTrainer {
		return ErrStepInactive
	}
	if !w.trainers.Select(id) {
		return ErrUnknownOption
	}
	w.draft.Trainer = id
	return nil
}

// Next advances from the schedule or trainer step once its gate passes.
// The student step advances through SubmitStudentInfo instead.
func (w *Wizard) Next() error {
	switch w.step {
	case models.StepSchedule:
		if err := w.checkSchedule(); err != nil {
			return err
		}
		w.show(models.StepTrainer)
	case models.StepTrainer:
		if err := w.checkTrainer(); err != nil {
			return err
		}
		w.show(models.StepStudent)
	default:
		return ErrNoForwardStep
	}
	return nil
}

// Back jumps to any step before the active one without re-checking gates.
func (w *Wizard) Back(step models.Step) error {
	if !step.Valid() {
		return ErrUnknownStep
	}
	if step >= w.step {
		return ErrNotBackward
	}
	w.show(step)
	return nil
}

// SubmitStudentInfo trims the form, checks the required inputs and, when
// they are all present, stores the names and birth date and shows the summary.
func (w *Wizard) SubmitStudentInfo(form StudentForm) error {
	if w.step != models.StepStudent {
		return ErrStepInactive
	}
	form = form.Trimmed()
	missing, err := form.missingFields()
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return w.incomplete(models.StepStudent, MsgStudentIncomplete, missing)
	}

	w.draft.FirstName = form.FirstName
	w.draft.MiddleName = form.MiddleName
	w.draft.LastName = form.LastName
	w.draft.BirthDate = form.BirthDate()
	w.show(models.StepSummary)
	return nil
}

// Reset discards the draft and every selection and returns to step 1.
func (w *Wizard) Reset() {
	*w.draft = models.Draft{}
	w.slots.clear()
	w.memberships.clear()
	w.trainers.clear()
	w.show(models.StepSchedule)
}

func (w *Wizard) checkSchedule() error {
	var missing []string
	if w.draft.Day == "" {
		missing = append(missing, "day")
	}
	if w.draft.Time == "" {
		missing = append(missing, "time")
	}
	if w.draft.Membership == "" {
		missing = append(missing, "membership")
	}
	if len(missing) > 0 {
		return w.incomplete(models.StepSchedule, MsgScheduleIncomplete, missing)
	}
	return nil
}

func (w *Wizard) checkTrainer() error {
	if w.draft.Trainer == "" {
		return w.incomplete(models.StepTrainer, MsgTrainerIncomplete, []string{"trainer"})
	}
	return nil
}

func (w *Wizard) incomplete(step models.Step, msg string, missing []string) error {
	w.metrics.ObserveGateFailure(step.String())
	return &IncompleteStepError{Step: step, Message: msg, Missing: missing}
}

func slotIDs(c models.Catalog) []string {
	ids := make([]string, len(c.Slots))
	for i, s := range c.Slots {
		ids[i] = s.ID
	}
	return ids
}

func membershipIDs(c models.Catalog) []string {
	ids := make([]string, len(c.Memberships))
	for i, m := range c.Memberships {
		ids[i] = m.ID
	}
	return ids
}

func trainerIDs(c models.Catalog) []string {
	ids := make([]string, len(c.Trainers))
	for i, t := range c.Trainers {
		ids[i] = t.ID
	}
	return ids
}
