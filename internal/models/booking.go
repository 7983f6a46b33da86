package models

import "strings"

// Draft is the booking being assembled across the wizard steps.
// Empty strings mean the field has not been set yet.
type Draft struct {
	Day        string `json:"day"`
	Time       string `json:"time"`
	Membership string `json:"membership"`
	Trainer    string `json:"trainer"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	BirthDate  string `json:"birthDate"` // MM/DD/YYYY
}

// FullName joins the non-empty name parts with single spaces.
func (d Draft) FullName() string {
	return JoinName(d.FirstName, d.MiddleName, d.LastName)
}

// Record is a saved snapshot of a Draft.
type Record struct {
	Draft
	SavedAt string `json:"savedAt"`
}

// JoinName joins name parts, skipping the empty ones.
func JoinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
