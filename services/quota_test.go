package services_test

import (
	"errors"
	"testing"
	"time"

	"tournament-entry-system/models"
	"tournament-entry-system/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sel(category string, typ models.EventType) services.Selection {
	return services.Selection{Category: category, Type: typ}
}

func pairSel(category string, typ models.EventType, partnerBirthYear int) services.Selection {
	dob := time.Date(partnerBirthYear, 6, 1, 0, 0, 0, 0, time.UTC)
	return services.Selection{
		Category:    category,
		Type:        typ,
		PartnerName: "Partner",
		PartnerDOB:  &dob,
	}
}

func TestValidateQuotaAccepts(t *testing.T) {
	cases := map[string][]services.Selection{
		"single event": {sel("U15", models.EventSingles)},
		"one mixed":    {sel("OPEN", models.EventMixedDoubles)},
		"three singles/doubles plus mixed": {
			sel("U15", models.EventSingles),
			sel("U17", models.EventSingles),
			sel("U15", models.EventDoubles),
			sel("OPEN", models.EventMixedDoubles),
		},
		"three singles": {
			sel("U15", models.EventSingles),
			sel("U17", models.EventSingles),
			sel("U19", models.EventSingles),
		},
	}
	for name, sels := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, services.ValidateQuota(sels))
		})
	}
}

func TestValidateQuotaTotalCapOverrides(t *testing.T) {
	// 3 singles + 2 mixed is five events: the total cap fires before any
	// per-type cap gets a look.
	sels := []services.Selection{
		sel("U15", models.EventSingles),
		sel("U17", models.EventSingles),
		sel("U19", models.EventSingles),
		sel("U19", models.EventMixedDoubles),
		sel("OPEN", models.EventMixedDoubles),
	}
	err := services.ValidateQuota(sels)
	require.Error(t, err)
	var qerr *services.QuotaError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "total", qerr.Rule)
}

func TestValidateQuotaSinglesDoublesCap(t *testing.T) {
	// 2 singles + 2 doubles passes the total cap (4) but breaks the
	// singles/doubles cap (3); both caps must be verified independently.
	sels := []services.Selection{
		sel("U15", models.EventSingles),
		sel("U17", models.EventSingles),
		sel("U15", models.EventDoubles),
		sel("U17", models.EventDoubles),
	}
	err := services.ValidateQuota(sels)
	require.Error(t, err)
	var qerr *services.QuotaError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "singles_doubles", qerr.Rule)
	assert.Contains(t, qerr.Msg, "3")
}

func TestValidateQuotaMixedCap(t *testing.T) {
	sels := []services.Selection{
		sel("U19", models.EventMixedDoubles),
		sel("OPEN", models.EventMixedDoubles),
	}
	err := services.ValidateQuota(sels)
	require.Error(t, err)
	var qerr *services.QuotaError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "mixed_doubles", qerr.Rule)
}

func TestValidateQuotaDuplicatePair(t *testing.T) {
	sels := []services.Selection{
		sel("U15", models.EventSingles),
		sel("U15", models.EventSingles),
	}
	err := services.ValidateQuota(sels)
	require.Error(t, err)
	var qerr *services.QuotaError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "duplicate", qerr.Rule)
}

func catTable() map[string]models.Category {
	table := map[string]models.Category{}
	for _, c := range models.SeedCategories {
		table[c.Code] = c
	}
	return table
}

func TestValidateEligibilityPlayer(t *testing.T) {
	// U15 threshold is born 2011 or later.
	young := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)
	old := time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, services.ValidateEligibility(young, []services.Selection{sel("U15", models.EventSingles)}, catTable()))

	err := services.ValidateEligibility(old, []services.Selection{sel("U15", models.EventSingles)}, catTable())
	require.Error(t, err)
	var eerr *services.EligibilityError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "player", eerr.Who)
}

func TestValidateEligibilityPartnerSameRule(t *testing.T) {
	player := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)

	// Partner born 2010 fails U15 exactly like a player would.
	err := services.ValidateEligibility(player, []services.Selection{pairSel("U15", models.EventDoubles, 2010)}, catTable())
	require.Error(t, err)
	var eerr *services.EligibilityError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "partner", eerr.Who)

	assert.NoError(t, services.ValidateEligibility(player, []services.Selection{pairSel("U15", models.EventDoubles, 2011)}, catTable()))
}

func TestValidateEligibilityPartnerRequired(t *testing.T) {
	player := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)
	err := services.ValidateEligibility(player, []services.Selection{sel("U15", models.EventDoubles)}, catTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partner")
}

func TestValidateEligibilityOpenHasNoThreshold(t *testing.T) {
	veteran := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, services.ValidateEligibility(veteran, []services.Selection{sel("OPEN", models.EventSingles)}, catTable()))
}

func TestValidateEligibilityUnknownCategory(t *testing.T) {
	player := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)
	err := services.ValidateEligibility(player, []services.Selection{sel("U99", models.EventSingles)}, catTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "U99")
}

func TestValidateRetainsPaid(t *testing.T) {
	paymentID := "pay-1"
	existing := []models.Event{
		{Category: "U15", Type: models.EventSingles, PaymentID: &paymentID},
		{Category: "U17", Type: models.EventDoubles},
	}

	// Dropping the unpaid doubles is fine; dropping the paid singles is an
	// immutability violation, not a quota problem.
	assert.NoError(t, services.ValidateRetainsPaid(existing, []services.Selection{sel("U15", models.EventSingles)}))

	err := services.ValidateRetainsPaid(existing, []services.Selection{sel("U17", models.EventDoubles)})
	require.Error(t, err)
	var ierr *services.ImmutabilityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "U15", ierr.Category)
	var qerr *services.QuotaError
	assert.False(t, errors.As(err, &qerr), "immutability must be distinct from quota")
}
