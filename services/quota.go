package services

import (
	"fmt"
	"time"

	"tournament-entry-system/models"
)

// Event-selection limits for one entry.
const (
	MaxEventsPerEntry = 4
	MaxSinglesDoubles = 3
	MaxMixedDoubles   = 1
)

// Selection is one candidate category+type pair, with the partner snapshot
// for pair events.
type Selection struct {
	Category string
	Type     models.EventType

	PartnerName     string
	PartnerDOB      *time.Time
	PartnerAcademy  string
	PartnerPlace    string
	PartnerDistrict string
}

// QuotaError is a rejected selection with the specific rule that failed.
type QuotaError struct {
	Rule string
	Msg  string
}

func (e *QuotaError) Error() string { return e.Msg }

// ValidateQuota accepts a candidate selection set only when every limit
// holds. The total cap is the overriding constraint and is checked first;
// the per-type caps are verified independently afterwards, so no combination
// of passes lets a fifth event through.
func ValidateQuota(selections []Selection) error {
	if len(selections) > MaxEventsPerEntry {
		return &QuotaError{
			Rule: "total",
			Msg:  fmt.Sprintf("you can select at most %d events (selected %d)", MaxEventsPerEntry, len(selections)),
		}
	}

	seen := map[string]bool{}
	singlesDoubles, mixed := 0, 0
	for _, sel := range selections {
		key := sel.Category + "|" + string(sel.Type)
		if seen[key] {
			return &QuotaError{
				Rule: "duplicate",
				Msg:  fmt.Sprintf("event %s %s is selected twice", sel.Category, sel.Type),
			}
		}
		seen[key] = true

		switch sel.Type {
		case models.EventSingles, models.EventDoubles:
			singlesDoubles++
		case models.EventMixedDoubles:
			mixed++
		}
	}

	if singlesDoubles > MaxSinglesDoubles {
		return &QuotaError{
			Rule: "singles_doubles",
			Msg:  fmt.Sprintf("you can select at most %d singles/doubles events (selected %d)", MaxSinglesDoubles, singlesDoubles),
		}
	}
	if mixed > MaxMixedDoubles {
		return &QuotaError{
			Rule: "mixed_doubles",
			Msg:  fmt.Sprintf("you can select at most %d mixed doubles event (selected %d)", MaxMixedDoubles, mixed),
		}
	}
	return nil
}

// EligibilityError is a birth-year check failure, separate from quota.
type EligibilityError struct {
	Category string
	Who      string // "player" or "partner"
	Msg      string
}

func (e *EligibilityError) Error() string { return e.Msg }

// ValidateEligibility checks the player's (and, for pair events, the
// partner's) birth year against each selected category's threshold. A
// candidate category is valid only when the birth year is >= the configured
// minimum; the same rule applies to partners.
func ValidateEligibility(playerDOB time.Time, selections []Selection, categories map[string]models.Category) error {
	for _, sel := range selections {
		cat, ok := categories[sel.Category]
		if !ok {
			return &EligibilityError{
				Category: sel.Category,
				Who:      "player",
				Msg:      fmt.Sprintf("unknown category %q", sel.Category),
			}
		}
		if cat.MinBirthYear > 0 && playerDOB.Year() < cat.MinBirthYear {
			return &EligibilityError{
				Category: sel.Category,
				Who:      "player",
				Msg:      fmt.Sprintf("player born %d is too old for %s (born %d or later required)", playerDOB.Year(), cat.Label, cat.MinBirthYear),
			}
		}
		if sel.Type.IsPair() {
			if sel.PartnerName == "" || sel.PartnerDOB == nil {
				return &EligibilityError{
					Category: sel.Category,
					Who:      "partner",
					Msg:      fmt.Sprintf("%s %s requires partner details", cat.Label, sel.Type),
				}
			}
			if cat.MinBirthYear > 0 && sel.PartnerDOB.Year() < cat.MinBirthYear {
				return &EligibilityError{
					Category: sel.Category,
					Who:      "partner",
					Msg:      fmt.Sprintf("partner born %d is too old for %s (born %d or later required)", sel.PartnerDOB.Year(), cat.Label, cat.MinBirthYear),
				}
			}
		}
	}
	return nil
}

// ImmutabilityError marks an attempt to drop or alter a paid event. Distinct
// from QuotaError so the caller can tell "limit hit" from "event is frozen".
type ImmutabilityError struct {
	Category string
	Type     models.EventType
}

func (e *ImmutabilityError) Error() string {
	return fmt.Sprintf("event %s %s is already paid and cannot be removed", e.Category, e.Type)
}

// ValidateRetainsPaid ensures every already-paid event in the stored entry
// survives in the candidate selection. Paid events are immutable; they can
// neither be deselected nor have their partner details rewritten.
func ValidateRetainsPaid(existing []models.Event, selections []Selection) error {
	want := map[string]bool{}
	for _, sel := range selections {
		want[sel.Category+"|"+string(sel.Type)] = true
	}
	for _, ev := range existing {
		if ev.Paid() && !want[ev.Category+"|"+string(ev.Type)] {
			return &ImmutabilityError{Category: ev.Category, Type: ev.Type}
		}
	}
	return nil
}
