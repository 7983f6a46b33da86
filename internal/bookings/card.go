package bookings

import (
	"time"

	"gym-booking/internal/models"
)

// Status classifies what Load found under the storage key.
type Status string

const (
	StatusEmpty     Status = "empty"
	StatusMalformed Status = "malformed"
	StatusFound     Status = "found"
)

// displayLayout renders savedAt for people.
const displayLayout = "Jan 2, 2006, 3:04:05 PM"

// LoadResult is the content of the last-saved-booking card.
type LoadResult struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Count   int            `json:"count"`
	Last    *models.Record `json:"last,omitempty"`
	Card    []CardLine     `json:"card,omitempty"`
}

// CardLine is one labelled row of the card.
type CardLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func emptyResult() LoadResult {
	return LoadResult{Status: StatusEmpty, Message: MsgNoSavedBooking}
}

func malformedResult() LoadResult {
	return LoadResult{Status: StatusMalformed, Message: MsgUnreadable}
}

// RenderCard lays out a record for display with savedAt in loc.
func RenderCard(rec models.Record, loc *time.Location) []CardLine {
	return []CardLine{
		{Label: "Day", Value: rec.Day},
		{Label: "Time", Value: rec.Time},
		{Label: "Membership", Value: rec.Membership},
		{Label: "Trainer", Value: rec.Trainer},
		{Label: "Name", Value: rec.FullName()},
		{Label: "Birth Date", Value: rec.BirthDate},
		{Label: "Saved At", Value: FormatSavedAt(rec.SavedAt, loc)},
	}
}

// FormatSavedAt renders an ISO-8601 timestamp in loc. Values that do not
// parse are returned unchanged.
func FormatSavedAt(savedAt string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return savedAt
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(displayLayout)
}
