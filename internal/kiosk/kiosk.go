// Package kiosk drives a booking wizard from a line-oriented terminal.
package kiosk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gym-booking/internal/bookings"
	"gym-booking/internal/models"
	"gym-booking/internal/wizard"
)

// Kiosk reads commands from in and renders the active step to out.
type Kiosk struct {
	wizard *wizard.Wizard
	store  *bookings.Store
	in     io.Reader
	out    io.Writer

	lines   chan string
	readErr error // set before lines is closed
}

// New returns a kiosk over w and store.
func New(w *wizard.Wizard, store *bookings.Store, in io.Reader, out io.Writer) *Kiosk {
	return &Kiosk{
		wizard: w,
		store:  store,
		in:     in,
		out:    out,
	}
}

var errQuit = errors.New("quit")

// Run shows the last saved booking and the first step, then processes
// commands until quit, end of input or ctx is done. Cancelling ctx stops
// Run even while it waits for a line.
func (k *Kiosk) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.lines = make(chan string)
	go k.readLines(ctx)

	k.showLast(ctx)
	k.render()

	for {
		line, err := k.prompt(ctx, "> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := k.handle(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

// readLines feeds k.lines until input ends or ctx is done. A read blocked
// in the underlying reader outlives Run; it exits once the reader returns.
func (k *Kiosk) readLines(ctx context.Context) {
	sc := bufio.NewScanner(k.in)
	for sc.Scan() {
		select {
		case k.lines <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
	k.readErr = sc.Err()
	close(k.lines)
}

func (k *Kiosk) handle(ctx context.Context, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		k.render()
	case "slot":
		k.pick(args, func(n int) error {
			return k.wizard.SelectSlot(optionID(k.wizard.Catalog().Slots, n, func(o models.SlotOption) string { return o.ID }))
		})
	case "membership":
		k.pick(args, func(n int) error {
			return k.wizard.SelectMembership(optionID(k.wizard.Catalog().Memberships, n, func(o models.MembershipOption) string { return o.ID }))
		})
	case "trainer":
		k.pick(args, func(n int) error {
			return k.wizard.SelectTrainer(optionID(k.wizard.Catalog().Trainers, n, func(o models.TrainerOption) string { return o.ID }))
		})
	case "next":
		if k.wizard.Step() == models.StepStudent {
			return k.fillForm(ctx)
		}
		k.apply(k.wizard.Next())
	case "form":
		return k.fillForm(ctx)
	case "back":
		n, err := singleNumber(args)
		if err != nil {
			k.notice("Usage: back N")
			return nil
		}
		k.apply(k.wizard.Back(models.Step(n)))
	case "save":
		k.save(ctx)
	case "last":
		k.showLast(ctx)
	case "reset":
		k.wizard.Reset()
		k.render()
	default:
		k.notice(fmt.Sprintf("Unknown command %q. Type help for the current options.", cmd))
	}
	return nil
}

// pick parses an option number and applies it.
func (k *Kiosk) pick(args []string, selectFn func(int) error) {
	n, err := singleNumber(args)
	if err != nil {
		k.notice("Give the option number, e.g. slot 2")
		return
	}
	k.apply(selectFn(n))
}

func (k *Kiosk) apply(err error) {
	if err != nil {
		k.notice(describe(err))
		return
	}
	k.render()
}

var formPrompts = []struct {
	label string
	set   func(*wizard.StudentForm, string)
}{
	{"First name", func(f *wizard.StudentForm, v string) { f.FirstName = v }},
	{"Middle name (optional)", func(f *wizard.StudentForm, v string) { f.MiddleName = v }},
	{"Last name", func(f *wizard.StudentForm, v string) { f.LastName = v }},
	{"Birth month (MM)", func(f *wizard.StudentForm, v string) { f.BirthMonth = v }},
	{"Birth day (DD)", func(f *wizard.StudentForm, v string) { f.BirthDay = v }},
	{"Birth year (YYYY)", func(f *wizard.StudentForm, v string) { f.BirthYear = v }},
}

func (k *Kiosk) fillForm(ctx context.Context) error {
	if k.wizard.Step() != models.StepStudent {
		k.notice(describe(wizard.ErrStepInactive))
		return nil
	}
	var form wizard.StudentForm
	for _, p := range formPrompts {
		v, err := k.prompt(ctx, p.label+": ")
		if errors.Is(err, io.EOF) {
			return errQuit
		}
		if err != nil {
			return err
		}
		p.set(&form, v)
	}
	k.apply(k.wizard.SubmitStudentInfo(form))
	return nil
}

func (k *Kiosk) save(ctx context.Context) {
	if k.wizard.Step() != models.StepSummary {
		k.notice("Complete the booking steps before saving.")
		return
	}
	res, err := k.store.Save(ctx, k.wizard.Draft())
	if err != nil {
		k.notice("Saving failed: " + err.Error())
		return
	}
	k.notice(bookings.MsgSaved)
	k.printCard(res)
}

func (k *Kiosk) showLast(ctx context.Context) {
	res, err := k.store.Load(ctx)
	if err != nil {
		k.notice("Could not reach storage: " + err.Error())
		return
	}
	k.printCard(res)
}

// prompt waits for the next line. It returns io.EOF once input ends,
// the read error if input failed, or ctx.Err() if ctx is done first.
func (k *Kiosk) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(k.out, label)
	select {
	case line, ok := <-k.lines:
		if ok {
			return line, nil
		}
		fmt.Fprintln(k.out)
		if k.readErr != nil {
			return "", k.readErr
		}
		return "", io.EOF
	case <-ctx.Done():
		fmt.Fprintln(k.out)
		return "", ctx.Err()
	}
}

// notice prints a message the user has to read before continuing.
func (k *Kiosk) notice(msg string) {
	fmt.Fprintf(k.out, "\n!! %s\n\n", msg)
}

func describe(err error) string {
	var incomplete *wizard.IncompleteStepError
	switch {
	case errors.As(err, &incomplete):
		return incomplete.Message
	case errors.Is(err, wizard.ErrUnknownOption):
		return "That option does not exist."
	case errors.Is(err, wizard.ErrStepInactive):
		return "That choice is not on this step."
	case errors.Is(err, wizard.ErrNotBackward), errors.Is(err, wizard.ErrUnknownStep):
		return "You can only go back to an earlier step."
	case errors.Is(err, wizard.ErrNoForwardStep):
		return "This is the last step. Type save to store your booking."
	}
	return err.Error()
}

func singleNumber(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("want one argument")
	}
	return strconv.Atoi(args[0])
}

// optionID maps a 1-based option number to its ID, or "" when out of range.
func optionID[T any](opts []T, n int, id func(T) string) string {
	if n < 1 || n > len(opts) {
		return ""
	}
	return id(opts[n-1])
}
