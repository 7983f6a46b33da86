package models

// SlotOption is a bookable (day, time) pair.
type SlotOption struct {
	ID   string `json:"id"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

// MembershipOption is a membership tier.
type MembershipOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// TrainerOption is a trainer a student can book with.
type TrainerOption struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// Catalog holds the fixed option sets offered by the wizard.
type Catalog struct {
	Slots       []SlotOption       `json:"slots"`
	Memberships []MembershipOption `json:"memberships"`
	Trainers    []TrainerOption    `json:"trainers"`
}

// Slot looks up a slot option by ID.
func (c Catalog) Slot(id string) (SlotOption, bool) {
	for _, s := range c.Slots {
		if s.ID == id {
			return s, true
		}
	}
	return SlotOption{}, false
}

// Membership looks up a membership option by ID.
func (c Catalog) Membership(id string) (MembershipOption, bool) {
	for _, m := range c.Memberships {
		if m.ID == id {
			return m, true
		}
	}
	return MembershipOption{}, false
}

// Trainer looks up a trainer option by ID.
func (c Catalog) Trainer(id string) (TrainerOption, bool) {
	for _, t := range c.Trainers {
		if t.ID == id {
			return t, true
		}
	}
	return TrainerOption{}, false
}

// DefaultCatalog returns the gym's weekly schedule, tiers and trainers.
func DefaultCatalog() Catalog {
	return Catalog{
		Slots: []SlotOption{
			{ID: "mon-0700", Day: "Monday", Time: "7:00 AM"},
			{ID: "mon-1800", Day: "Monday", Time: "6:00 PM"},
			{ID: "wed-0700", Day: "Wednesday", Time: "7:00 AM"},
			{ID: "wed-1800", Day: "Wednesday", Time: "6:00 PM"},
			{ID: "fri-0700", Day: "Friday", Time: "7:00 AM"},
			{ID: "sat-1000", Day: "Saturday", Time: "10:00 AM"},
		},
		Memberships: []MembershipOption{
			{ID: "basic", Name: "Basic", Price: "$29/month"},
			{ID: "standard", Name: "Standard", Price: "$49/month"},
			{ID: "premium", Name: "Premium", Price: "$79/month"},
		},
		Trainers: []TrainerOption{
			{ID: "alex", Name: "Alex Rivera", Specialty: "Strength"},
			{ID: "jordan", Name: "Jordan Lee", Specialty: "Cardio & HIIT"},
			{ID: "sam", Name: "Sam Patel", Specialty: "Mobility"},
		},
	}
}
