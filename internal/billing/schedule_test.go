package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermore-events/weddingops/internal/money"
)

func TestFixedScheduleEvenSplit(t *testing.T) {
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	entries := FixedSchedule(uuid.New(), money.FromDollars(3000), eventDate, DefaultScheduleConfig())

	require.Len(t, entries, 2)
	assert.Equal(t, DepositDescription, entries[0].Description)
	assert.Equal(t, money.FromDollars(1500), entries[0].Amount)
	assert.Nil(t, entries[0].DueDate) // due upon booking
	assert.Equal(t, BalanceDescription, entries[1].Description)
	assert.Equal(t, money.FromDollars(1500), entries[1].Amount)
	require.NotNil(t, entries[1].DueDate)
	assert.Equal(t, eventDate.AddDate(0, 0, -60), *entries[1].DueDate)
}

func TestFixedScheduleDepositRoundsToNearestHundred(t *testing.T) {
	entries := FixedSchedule(uuid.New(), money.FromDollars(3150), time.Now(), DefaultScheduleConfig())
	require.Len(t, entries, 2)
	// 50% = 1575, rounds up to 1600; balance absorbs the difference
	assert.Equal(t, money.FromDollars(1600), entries[0].Amount)
	assert.Equal(t, money.FromDollars(1550), entries[1].Amount)
	assert.Equal(t, money.FromDollars(3150), entries[0].Amount+entries[1].Amount)
}

func TestFixedScheduleDepositNeverExceedsTotal(t *testing.T) {
	entries := FixedSchedule(uuid.New(), money.FromDollars(40), time.Now(), DefaultScheduleConfig())
	require.Len(t, entries, 2)
	assert.Equal(t, money.FromDollars(40), entries[0].Amount+entries[1].Amount)
	assert.True(t, entries[0].Amount <= money.FromDollars(40))
	assert.True(t, entries[1].Amount >= 0)
}

func TestFixedScheduleZeroTotal(t *testing.T) {
	assert.Empty(t, FixedSchedule(uuid.New(), 0, time.Now(), DefaultScheduleConfig()))
}

func TestFixedScheduleAlternateVariant(t *testing.T) {
	// The 40%/unrounded variant stays reachable through configuration.
	cfg := ScheduleConfig{DepositPercent: 40, DepositRoundTo: 0, BalanceLeadDays: 60}
	entries := FixedSchedule(uuid.New(), money.FromDollars(3150), time.Now(), cfg)
	require.Len(t, entries, 2)
	assert.Equal(t, money.FromDollars(1260), entries[0].Amount)
	assert.Equal(t, money.FromDollars(1890), entries[1].Amount)
}
