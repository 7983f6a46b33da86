package wizard

import "gym-booking/internal/models"

// Placeholder is displayed for any field that has no value yet.
const Placeholder = "-"

// Summary is the display projection of a Draft.
type Summary struct {
	Day        string `json:"day"`
	Time       string `json:"time"`
	Membership string `json:"membership"`
	Trainer    string `json:"trainer"`
	Name       string `json:"name"`
	BirthDate  string `json:"birthDate"`
}

// Summarize projects d into display text.
func Summarize(d models.Draft) Summary {
	return Summary{
		Day:        orPlaceholder(d.Day),
		Time:       orPlaceholder(d.Time),
		Membership: orPlaceholder(d.Membership),
		Trainer:    orPlaceholder(d.Trainer),
		Name:       orPlaceholder(d.FullName()),
		BirthDate:  orPlaceholder(d.BirthDate),
	}
}

func orPlaceholder(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}
