package services

import (
	"fmt"

	"tournament-entry-system/models"
)

// LinkTolerance is the currency-unit slack between the declared amount and
// the fee sum of the matched events.
const LinkTolerance = 1

// PairRef identifies an event inside an entry the way the payer sees it:
// by category and type, not by internal id.
type PairRef struct {
	Category string           `json:"category"`
	Type     models.EventType `json:"type"`
}

// LinkNotFoundError: a claimed pair (or, in the legacy variant, an event id)
// does not exist among the caller's events.
type LinkNotFoundError struct {
	Pair    PairRef
	EventID string
}

func (e *LinkNotFoundError) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("event %s not found", e.EventID)
	}
	return fmt.Sprintf("no %s %s event found in this entry", e.Pair.Category, e.Pair.Type)
}

// LinkConflictError: a matched event already carries a payment reference.
// Reported before any amount check so a double payment never looks like a
// pricing problem.
type LinkConflictError struct {
	Pair PairRef
}

func (e *LinkConflictError) Error() string {
	return fmt.Sprintf("event %s %s is already paid", e.Pair.Category, e.Pair.Type)
}

// LinkAmountError: declared total is outside tolerance of the fee sum.
type LinkAmountError struct {
	Declared int
	Expected int
}

func (e *LinkAmountError) Error() string {
	return fmt.Sprintf("declared amount %d does not match the expected total %d", e.Declared, e.Expected)
}

// MatchPairs resolves claimed (category, type) pairs against an entry's
// stored events and validates the declared amount. Returns the matched
// events and the expected fee total. The caller persists the link; this
// function only decides whether the link is legal.
func MatchPairs(events []models.Event, pairs []PairRef, declared int) ([]models.Event, int, error) {
	if len(pairs) == 0 {
		return nil, 0, fmt.Errorf("no events specified for payment")
	}

	byKey := map[string]models.Event{}
	for _, ev := range events {
		byKey[ev.Category+"|"+string(ev.Type)] = ev
	}

	matched := make([]models.Event, 0, len(pairs))
	expected := 0
	seen := map[string]bool{}
	for _, p := range pairs {
		key := p.Category + "|" + string(p.Type)
		if seen[key] {
			return nil, 0, fmt.Errorf("event %s %s listed twice", p.Category, p.Type)
		}
		seen[key] = true
		ev, ok := byKey[key]
		if !ok {
			return nil, 0, &LinkNotFoundError{Pair: p}
		}
		if ev.Paid() {
			return nil, 0, &LinkConflictError{Pair: p}
		}
		matched = append(matched, ev)
		expected += ev.Type.Fee()
	}

	if diff := declared - expected; diff > LinkTolerance || diff < -LinkTolerance {
		return nil, 0, &LinkAmountError{Declared: declared, Expected: expected}
	}
	return matched, expected, nil
}

// MatchEventIDs is the legacy variant: the payer names event ids directly
// and one payment may span events across multiple parent entries. Events
// must already be loaded (any id absent from events is NotFound). Returns
// the matched events grouped by entry id plus the expected total.
func MatchEventIDs(events []models.Event, ids []string, declared int) (map[string][]models.Event, int, error) {
	if len(ids) == 0 {
		return nil, 0, fmt.Errorf("no events specified for payment")
	}

	byID := map[string]models.Event{}
	for _, ev := range events {
		byID[ev.ID] = ev
	}

	byEntry := map[string][]models.Event{}
	expected := 0
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			return nil, 0, fmt.Errorf("event %s listed twice", id)
		}
		seen[id] = true
		ev, ok := byID[id]
		if !ok {
			return nil, 0, &LinkNotFoundError{EventID: id}
		}
		if ev.Paid() {
			return nil, 0, &LinkConflictError{Pair: PairRef{Category: ev.Category, Type: ev.Type}}
		}
		byEntry[ev.EntryID] = append(byEntry[ev.EntryID], ev)
		expected += ev.Type.Fee()
	}

	if diff := declared - expected; diff > LinkTolerance || diff < -LinkTolerance {
		return nil, 0, &LinkAmountError{Declared: declared, Expected: expected}
	}
	return byEntry, expected, nil
}
