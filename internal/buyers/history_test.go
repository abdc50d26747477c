package buyers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buyer-lead-portal/internal/models"
)

func sampleBuyer() *models.Buyer {
	min, max := 5000000, 7500000
	return &models.Buyer{
		ID:           "b-1",
		OwnerID:      "u-1",
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "9876543210",
		City:         models.CityChandigarh,
		PropertyType: models.PropertyTypeApartment,
		BHK:          models.BHKTwo,
		Purpose:      models.PurposeBuy,
		BudgetMin:    &min,
		BudgetMax:    &max,
		Timeline:     models.TimelineZeroToThree,
		Source:       models.SourceWebsite,
		Status:       models.StatusNew,
		Tags:         models.StringList{"hot"},
	}
}

func TestBuildHistoryEntryCreation(t *testing.T) {
	b := sampleBuyer()
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	entry := BuildHistoryEntry(b.ID, "u-1", nil, b, at)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "b-1", entry.BuyerID)
	assert.Equal(t, "u-1", entry.ChangedByID)
	assert.Equal(t, at, entry.ChangedAt)

	// creation records every tracked field with no prior value
	require.Len(t, entry.Diff, len(snapshotFields))
	for _, field := range snapshotFields {
		change, ok := entry.Diff[field]
		require.True(t, ok, "missing field %q", field)
		assert.Nil(t, change.From)
	}
	assert.Equal(t, "Jane Doe", entry.Diff["fullName"].To)
	assert.Equal(t, "TWO", entry.Diff["bhk"].To)
}

func TestBuildHistoryEntryUpdateDiffsChangedFieldsOnly(t *testing.T) {
	old := sampleBuyer()
	updated := *old
	updated.Status = models.StatusQualified
	newMax := 8000000
	updated.BudgetMax = &newMax

	entry := BuildHistoryEntry(old.ID, "u-1", old, &updated, time.Now())

	require.Len(t, entry.Diff, 2)
	assert.Equal(t, "NEW", entry.Diff["status"].From)
	assert.Equal(t, "Qualified", entry.Diff["status"].To)
	assert.Equal(t, 7500000, derefDiffInt(t, entry.Diff["budgetMax"].From))
	assert.Equal(t, 8000000, derefDiffInt(t, entry.Diff["budgetMax"].To))
}

func derefDiffInt(t *testing.T, v interface{}) int {
	t.Helper()
	p, ok := v.(*int)
	require.True(t, ok, "expected *int, got %T", v)
	require.NotNil(t, p)
	return *p
}

func TestBuildHistoryEntryIdenticalRecordsEmptyDiff(t *testing.T) {
	old := sampleBuyer()
	same := *old

	entry := BuildHistoryEntry(old.ID, "u-1", old, &same, time.Now())
	assert.Empty(t, entry.Diff)
}

func TestBuildHistoryEntryTagChanges(t *testing.T) {
	old := sampleBuyer()
	updated := *old
	updated.Tags = models.StringList{"hot", "priority"}

	entry := BuildHistoryEntry(old.ID, "u-1", old, &updated, time.Now())
	require.Len(t, entry.Diff, 1)
	assert.Equal(t, models.StringList{"hot"}, entry.Diff["tags"].From)
	assert.Equal(t, models.StringList{"hot", "priority"}, entry.Diff["tags"].To)
}

func TestBuildHistoryEntryNilTagsComparedAsEmpty(t *testing.T) {
	old := sampleBuyer()
	old.Tags = nil
	updated := *old
	updated.Tags = models.StringList{}

	entry := BuildHistoryEntry(old.ID, "u-1", old, &updated, time.Now())
	assert.Empty(t, entry.Diff)
}

func TestBuildHistoryEntryExcludesTimestamps(t *testing.T) {
	old := sampleBuyer()
	updated := *old
	updated.UpdatedAt = old.UpdatedAt.Add(time.Hour)
	updated.CreatedAt = old.CreatedAt.Add(time.Hour)

	entry := BuildHistoryEntry(old.ID, "u-1", old, &updated, time.Now())
	assert.Empty(t, entry.Diff)
}
