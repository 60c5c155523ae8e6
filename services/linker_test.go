package services_test

import (
	"errors"
	"testing"

	"tournament-entry-system/models"
	"tournament-entry-system/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryEvents() []models.Event {
	return []models.Event{
		{ID: "ev-s", EntryID: "entry-1", Category: "U15", Type: models.EventSingles},
		{ID: "ev-d", EntryID: "entry-1", Category: "U17", Type: models.EventDoubles},
		{ID: "ev-m", EntryID: "entry-1", Category: "OPEN", Type: models.EventMixedDoubles},
	}
}

func pair(category string, typ models.EventType) services.PairRef {
	return services.PairRef{Category: category, Type: typ}
}

func TestMatchPairsSuccess(t *testing.T) {
	matched, expected, err := services.MatchPairs(entryEvents(), []services.PairRef{
		pair("U15", models.EventSingles),
		pair("U17", models.EventDoubles),
	}, 2200)
	require.NoError(t, err)
	assert.Equal(t, 2200, expected)
	require.Len(t, matched, 2)
	assert.Equal(t, "ev-s", matched[0].ID)
	assert.Equal(t, "ev-d", matched[1].ID)
}

func TestMatchPairsScopedToPairs(t *testing.T) {
	// Paying for the singles alone leaves the other events out of the match.
	matched, expected, err := services.MatchPairs(entryEvents(), []services.PairRef{
		pair("U15", models.EventSingles),
	}, 900)
	require.NoError(t, err)
	assert.Equal(t, 900, expected)
	require.Len(t, matched, 1)
	assert.Equal(t, "ev-s", matched[0].ID)
}

func TestMatchPairsAmountTolerance(t *testing.T) {
	// 899 against an expected 900 is inside the one-unit tolerance.
	_, _, err := services.MatchPairs(entryEvents(), []services.PairRef{pair("U15", models.EventSingles)}, 899)
	assert.NoError(t, err)

	_, _, err = services.MatchPairs(entryEvents(), []services.PairRef{pair("U15", models.EventSingles)}, 898)
	var aerr *services.LinkAmountError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 898, aerr.Declared)
	assert.Equal(t, 900, aerr.Expected)
}

func TestMatchPairsNotFound(t *testing.T) {
	_, _, err := services.MatchPairs(entryEvents(), []services.PairRef{pair("U11", models.EventSingles)}, 900)
	var nerr *services.LinkNotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "U11", nerr.Pair.Category)
}

func TestMatchPairsConflictBeatsAmount(t *testing.T) {
	events := entryEvents()
	paymentID := "pay-old"
	events[0].PaymentID = &paymentID

	// Even with a perfectly correct amount, paying again for a paid event is
	// a conflict.
	_, _, err := services.MatchPairs(events, []services.PairRef{pair("U15", models.EventSingles)}, 900)
	var cerr *services.LinkConflictError
	require.ErrorAs(t, err, &cerr)

	// And with a wrong amount it is still reported as a conflict, not an
	// amount mismatch.
	_, _, err = services.MatchPairs(events, []services.PairRef{pair("U15", models.EventSingles)}, 50)
	require.ErrorAs(t, err, &cerr)
}

func TestMatchPairsDuplicate(t *testing.T) {
	// Naming the same pair twice must fail validation outright. Matching the
	// event twice would double-count its fee and only surface later as a
	// bogus concurrent-payment conflict.
	_, _, err := services.MatchPairs(entryEvents(), []services.PairRef{
		pair("U15", models.EventSingles),
		pair("U15", models.EventSingles),
	}, 1800)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")

	var cerr *services.LinkConflictError
	assert.False(t, errors.As(err, &cerr))
	var aerr *services.LinkAmountError
	assert.False(t, errors.As(err, &aerr))
}

func TestMatchPairsEmpty(t *testing.T) {
	_, _, err := services.MatchPairs(entryEvents(), nil, 0)
	assert.Error(t, err)
}

func TestMatchEventIDsAcrossEntries(t *testing.T) {
	events := []models.Event{
		{ID: "a", EntryID: "entry-1", Category: "U15", Type: models.EventSingles},
		{ID: "b", EntryID: "entry-2", Category: "U15", Type: models.EventSingles},
		{ID: "c", EntryID: "entry-2", Category: "U17", Type: models.EventDoubles},
	}

	byEntry, expected, err := services.MatchEventIDs(events, []string{"a", "b", "c"}, 3100)
	require.NoError(t, err)
	assert.Equal(t, 3100, expected)
	require.Len(t, byEntry, 2)
	assert.Len(t, byEntry["entry-1"], 1)
	assert.Len(t, byEntry["entry-2"], 2)
}

func TestMatchEventIDsUnknownID(t *testing.T) {
	events := []models.Event{{ID: "a", EntryID: "entry-1", Type: models.EventSingles}}
	_, _, err := services.MatchEventIDs(events, []string{"a", "ghost"}, 1800)
	var nerr *services.LinkNotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Contains(t, err.Error(), "ghost")
}

func TestMatchEventIDsAlreadyPaid(t *testing.T) {
	paymentID := "pay-old"
	events := []models.Event{
		{ID: "a", EntryID: "entry-1", Type: models.EventSingles, PaymentID: &paymentID},
	}
	_, _, err := services.MatchEventIDs(events, []string{"a"}, 900)
	var cerr *services.LinkConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestMatchEventIDsDuplicate(t *testing.T) {
	events := []models.Event{{ID: "a", EntryID: "entry-1", Type: models.EventSingles}}
	_, _, err := services.MatchEventIDs(events, []string{"a", "a"}, 1800)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")
}
