package csvio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buyer-lead-portal/internal/models"
)

func TestParseBuffer(t *testing.T) {
	raw := []byte("fullName,phone,city\nJane Doe,9876543210,Chandigarh\nJohn Roe,9876543211,Mohali\n")

	rows, err := ParseBuffer(raw)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jane Doe", rows[0]["fullName"])
	assert.Equal(t, "Mohali", rows[1]["city"])
}

func TestParseBufferRaggedRows(t *testing.T) {
	raw := []byte("fullName,phone,city\nJane Doe,9876543210\n")

	rows, err := ParseBuffer(raw)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "9876543210", rows[0]["phone"])
	_, ok := rows[0]["city"]
	assert.False(t, ok)
}

func TestParseBufferEmpty(t *testing.T) {
	rows, err := ParseBuffer(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseBufferMalformed(t *testing.T) {
	_, err := ParseBuffer([]byte("a,b\n\"unterminated"))
	assert.Error(t, err)
}

func TestRowToInputTrimsAndSplitsTags(t *testing.T) {
	input, errs := RowToInput(map[string]string{
		"fullName": "  Jane Doe ",
		"phone":    " 9876543210 ",
		"tags":     " hot , priority ,",
	})
	require.Empty(t, errs)
	assert.Equal(t, "Jane Doe", input.FullName)
	assert.Equal(t, "9876543210", input.Phone)
	assert.Equal(t, []string{"hot", "priority"}, input.Tags)
}

func TestRowToInputAcceptsEitherEnumSpelling(t *testing.T) {
	human, errs := RowToInput(map[string]string{
		"bhk": "2", "timeline": "0-3m", "source": "Walk-in", "status": "New",
	})
	require.Empty(t, errs)

	canonical, errs := RowToInput(map[string]string{
		"bhk": "TWO", "timeline": "ZERO_TO_THREE_MONTHS", "source": "Walk_in", "status": "NEW",
	})
	require.Empty(t, errs)

	// both spellings collapse to the same human view
	assert.Equal(t, human.BHK, canonical.BHK)
	assert.Equal(t, human.Timeline, canonical.Timeline)
	assert.Equal(t, human.Source, canonical.Source)
	assert.Equal(t, human.Status, canonical.Status)
	assert.Equal(t, "2", human.BHK)
	assert.Equal(t, "0-3m", human.Timeline)
}

func TestRowToInputBudgetParsing(t *testing.T) {
	input, errs := RowToInput(map[string]string{"budgetMin": "5000000", "budgetMax": " 7500000 "})
	require.Empty(t, errs)
	require.NotNil(t, input.BudgetMin)
	assert.Equal(t, 5000000, *input.BudgetMin)
	assert.Equal(t, 7500000, *input.BudgetMax)

	_, errs = RowToInput(map[string]string{"budgetMin": "lots"})
	require.Len(t, errs, 1)
	assert.Equal(t, "budgetMin", errs[0].Field)
	assert.Equal(t, "Must be a number", errs[0].Message)

	input, errs = RowToInput(map[string]string{"budgetMin": ""})
	require.Empty(t, errs)
	assert.Nil(t, input.BudgetMin)
}

func TestGenerateHeaderAndSpelling(t *testing.T) {
	min := 5000000
	b := models.Buyer{
		FullName:     "Jane Doe",
		Phone:        "9876543210",
		City:         models.CityChandigarh,
		PropertyType: models.PropertyTypeApartment,
		BHK:          models.BHKTwo,
		Purpose:      models.PurposeBuy,
		BudgetMin:    &min,
		Timeline:     models.TimelineZeroToThree,
		Source:       models.SourceWalkIn,
		Status:       models.StatusNew,
		Tags:         models.StringList{"hot"},
		UpdatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	out, err := Generate([]models.Buyer{b})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(ExportColumns, ","), lines[0])

	cells := strings.Split(lines[1], ",")
	require.Len(t, cells, len(ExportColumns))
	assert.Equal(t, "Jane Doe", cells[0])
	assert.Equal(t, "2", cells[5])
	assert.Equal(t, "5000000", cells[7])
	assert.Equal(t, "", cells[8])
	assert.Equal(t, "0-3m", cells[9])
	assert.Equal(t, "Walk-in", cells[10])
	assert.Equal(t, "New", cells[11])
	assert.Equal(t, "hot", cells[13])
	assert.Equal(t, "2026-03-01T12:00:00Z", cells[14])
}

func TestGenerateEmpty(t *testing.T) {
	out, err := Generate(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(ExportColumns, ","), strings.TrimSpace(string(out)))
}

func TestGenerateXLSX(t *testing.T) {
	out, err := GenerateXLSX([]models.Buyer{{
		FullName: "Jane Doe",
		Phone:    "9876543210",
		City:     models.CityMohali,
	}})
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.Equal(t, "PK", string(out[:2]))
}
