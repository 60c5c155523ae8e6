package models

// Category is an age bracket a player can enter. MinBirthYear is the
// eligibility threshold: a player (or partner) qualifies when their birth
// year is >= MinBirthYear. OPEN carries no threshold (MinBirthYear = 0).
type Category struct {
	Code         string `json:"code" gorm:"primaryKey"`
	Label        string `json:"label" gorm:"not null"`
	MinBirthYear int    `json:"min_birth_year" gorm:"default:0"`
	SortOrder    int    `json:"sort_order" gorm:"column:sort_order;default:0"`
}

type EventType string

const (
	EventSingles      EventType = "singles"
	EventDoubles      EventType = "doubles"
	EventMixedDoubles EventType = "mixed_doubles"
)

// Per-event fees in currency units.
const (
	FeeSingles      = 900
	FeeDoubles      = 1300
	FeeMixedDoubles = 1300
)

func (t EventType) Valid() bool {
	switch t {
	case EventSingles, EventDoubles, EventMixedDoubles:
		return true
	}
	return false
}

// Fee returns the registration fee for one event of this type.
func (t EventType) Fee() int {
	switch t {
	case EventSingles:
		return FeeSingles
	case EventMixedDoubles:
		return FeeMixedDoubles
	default:
		return FeeDoubles
	}
}

// IsPair reports whether the event type needs a partner.
func (t EventType) IsPair() bool {
	return t == EventDoubles || t == EventMixedDoubles
}

// SeedCategories is the fixed bracket table loaded at startup.
// 2026 season thresholds.
var SeedCategories = []Category{
	{Code: "U11", Label: "Under 11", MinBirthYear: 2015, SortOrder: 1},
	{Code: "U13", Label: "Under 13", MinBirthYear: 2013, SortOrder: 2},
	{Code: "U15", Label: "Under 15", MinBirthYear: 2011, SortOrder: 3},
	{Code: "U17", Label: "Under 17", MinBirthYear: 2009, SortOrder: 4},
	{Code: "U19", Label: "Under 19", MinBirthYear: 2007, SortOrder: 5},
	{Code: "OPEN", Label: "Open", MinBirthYear: 0, SortOrder: 6},
}
