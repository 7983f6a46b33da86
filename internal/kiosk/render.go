package kiosk

import (
	"fmt"

	"gym-booking/internal/bookings"
	"gym-booking/internal/models"
	"gym-booking/internal/wizard"
)

func (k *Kiosk) render() {
	c := k.wizard.Catalog()
	sel := k.wizard.Selections()

	switch k.wizard.Step() {
	case models.StepSchedule:
		fmt.Fprintln(k.out, "== Step 1 of 4: Choose a time slot and membership ==")
		fmt.Fprintln(k.out, "Time slots:")
		for i, s := range c.Slots {
			fmt.Fprintf(k.out, "  [%d] %s %s%s\n", i+1, s.Day, s.Time, mark(sel.Slot == s.ID))
		}
		fmt.Fprintln(k.out, "Memberships:")
		for i, m := range c.Memberships {
			fmt.Fprintf(k.out, "  [%d] %s - %s%s\n", i+1, m.Name, m.Price, mark(sel.Membership == m.ID))
		}
		fmt.Fprintln(k.out, "Commands: slot N, membership N, next, last, quit")
	case models.StepTrainer:
		fmt.Fprintln(k.out, "== Step 2 of 4: Pick a trainer ==")
		for i, t := range c.Trainers {
			fmt.Fprintf(k.out, "  [%d] %s (%s)%s\n", i+1, t.Name, t.Specialty, mark(sel.Trainer == t.ID))
		}
		fmt.Fprintln(k.out, "Commands: trainer N, next, back 1, quit")
	case models.StepStudent:
		fmt.Fprintln(k.out, "== Step 3 of 4: Student information ==")
		fmt.Fprintln(k.out, "Commands: form (enter your details), back N, quit")
	case models.StepSummary:
		s := k.wizard.Summary()
		fmt.Fprintln(k.out, "== Step 4 of 4: Summary ==")
		fmt.Fprintf(k.out, "  Day:        %s\n", s.Day)
		fmt.Fprintf(k.out, "  Time:       %s\n", s.Time)
		fmt.Fprintf(k.out, "  Membership: %s\n", s.Membership)
		fmt.Fprintf(k.out, "  Trainer:    %s\n", s.Trainer)
		fmt.Fprintf(k.out, "  Name:       %s\n", s.Name)
		fmt.Fprintf(k.out, "  Birth date: %s\n", s.BirthDate)
		fmt.Fprintln(k.out, "Commands: save, last, back N, reset, quit")
	}
}

func (k *Kiosk) printCard(res bookings.LoadResult) {
	fmt.Fprintln(k.out, "-- Last saved booking --")
	if res.Status != bookings.StatusFound {
		fmt.Fprintln(k.out, res.Message)
		return
	}
	for _, line := range res.Card {
		fmt.Fprintf(k.out, "%s: %s\n", line.Label, orDash(line.Value))
	}
}

func mark(selected bool) string {
	if selected {
		return "  <selected>"
	}
	return ""
}

func orDash(v string) string {
	if v == "" {
		return wizard.Placeholder
	}
	return v
}
