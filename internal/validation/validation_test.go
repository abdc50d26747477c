package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buyer-lead-portal/internal/apierr"
)

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func validInput() BuyerInput {
	return BuyerInput{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "9876543210",
		City:         "Chandigarh",
		PropertyType: "Apartment",
		BHK:          "2",
		Purpose:      "Buy",
		BudgetMin:    intPtr(5000000),
		BudgetMax:    intPtr(7500000),
		Timeline:     "0-3m",
		Source:       "Website",
	}
}

func fieldsOf(errs []apierr.FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateBuyerAppliesDefaults(t *testing.T) {
	input := validInput()
	input.Status = ""
	input.Tags = nil
	input.FullName = "  Jane Doe  "

	validated, errs := ValidateBuyer(input)
	require.Nil(t, errs)
	assert.Equal(t, "Jane Doe", validated.FullName)
	assert.Equal(t, "New", validated.Status)
	assert.Equal(t, []string{}, validated.Tags)
}

func TestValidateBuyerRequiredFields(t *testing.T) {
	_, errs := ValidateBuyer(BuyerInput{})
	require.NotEmpty(t, errs)

	fields := fieldsOf(errs)
	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "city")
	assert.Contains(t, fields, "propertyType")
	assert.Contains(t, fields, "purpose")
	assert.Contains(t, fields, "timeline")
	assert.Contains(t, fields, "source")
	// email is optional
	assert.NotContains(t, fields, "email")
}

func TestValidateBuyerShortName(t *testing.T) {
	input := validInput()
	input.FullName = "J"

	_, errs := ValidateBuyer(input)
	require.Len(t, errs, 1)
	assert.Equal(t, "fullName", errs[0].Field)
	assert.Equal(t, "Must contain at least 2 characters", errs[0].Message)
}

func TestValidateBuyerPhoneDigits(t *testing.T) {
	for _, phone := range []string{"12345", "abcdefghij", "123-456-7890", "1234567890123456"} {
		input := validInput()
		input.Phone = phone

		_, errs := ValidateBuyer(input)
		require.Len(t, errs, 1, "phone %q should be rejected", phone)
		assert.Equal(t, "phone", errs[0].Field)
		assert.Equal(t, "Phone must be 10-15 digits", errs[0].Message)
	}

	input := validInput()
	input.Phone = "123456789012345"
	_, errs := ValidateBuyer(input)
	assert.Nil(t, errs)
}

func TestValidateBuyerInvalidEmail(t *testing.T) {
	input := validInput()
	input.Email = "not-an-email"

	_, errs := ValidateBuyer(input)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "Invalid email", errs[0].Message)
}

func TestValidateBuyerBHKSpellings(t *testing.T) {
	// both redundant spellings are accepted
	for _, bhk := range []string{"Studio", "1", "2", "3", "4", "ONE", "TWO", "THREE", "FOUR"} {
		input := validInput()
		input.BHK = bhk
		_, errs := ValidateBuyer(input)
		assert.Nil(t, errs, "bhk %q should be accepted", bhk)
	}

	input := validInput()
	input.BHK = "5"
	_, errs := ValidateBuyer(input)
	require.Len(t, errs, 1)
	assert.Equal(t, "bhk", errs[0].Field)
}

func TestValidateBuyerBHKRequiredForResidential(t *testing.T) {
	for _, pt := range []string{"Apartment", "Villa"} {
		input := validInput()
		input.PropertyType = pt
		input.BHK = ""

		_, errs := ValidateBuyer(input)
		require.Len(t, errs, 1)
		assert.Equal(t, RecordField, errs[0].Field)
		assert.Equal(t, "BHK is required for Apartment and Villa property types", errs[0].Message)
	}

	// non-residential types don't need a bhk
	input := validInput()
	input.PropertyType = "Plot"
	input.BHK = ""
	_, errs := ValidateBuyer(input)
	assert.Nil(t, errs)
}

func TestValidateBuyerBudgetOrdering(t *testing.T) {
	input := validInput()
	input.BudgetMin = intPtr(100)
	input.BudgetMax = intPtr(50)

	_, errs := ValidateBuyer(input)
	require.Len(t, errs, 1)
	assert.Equal(t, RecordField, errs[0].Field)
	assert.Equal(t, "Budget max must be greater than or equal to budget min", errs[0].Message)

	// equal bounds are fine, as is either bound alone
	input.BudgetMax = intPtr(100)
	_, errs = ValidateBuyer(input)
	assert.Nil(t, errs)

	input.BudgetMin = nil
	input.BudgetMax = intPtr(50)
	_, errs = ValidateBuyer(input)
	assert.Nil(t, errs)
}

func TestValidateBuyerNegativeBudget(t *testing.T) {
	input := validInput()
	input.BudgetMin = intPtr(-1)

	_, errs := ValidateBuyer(input)
	require.Len(t, errs, 1)
	assert.Equal(t, "budgetMin", errs[0].Field)
	assert.Equal(t, "Must be non-negative", errs[0].Message)
}

func TestValidateBuyerUpdateEmptyPayload(t *testing.T) {
	_, errs := ValidateBuyerUpdate(BuyerUpdateInput{})
	assert.Nil(t, errs)
}

func TestValidateBuyerUpdatePerFieldRules(t *testing.T) {
	_, errs := ValidateBuyerUpdate(BuyerUpdateInput{
		FullName: strPtr("X"),
		Phone:    strPtr("123"),
	})
	require.Len(t, errs, 2)
	assert.ElementsMatch(t, []string{"fullName", "phone"}, fieldsOf(errs))
}

func TestValidateBuyerUpdateBudgetOrdering(t *testing.T) {
	_, errs := ValidateBuyerUpdate(BuyerUpdateInput{
		BudgetMin: intPtr(200),
		BudgetMax: intPtr(100),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, RecordField, errs[0].Field)
}

func TestValidateBuyerUpdateConcurrencyToken(t *testing.T) {
	_, errs := ValidateBuyerUpdate(BuyerUpdateInput{UpdatedAt: strPtr("2026-01-02T15:04:05Z")})
	assert.Nil(t, errs)

	_, errs = ValidateBuyerUpdate(BuyerUpdateInput{UpdatedAt: strPtr("yesterday")})
	require.Len(t, errs, 1)
	assert.Equal(t, "updatedAt", errs[0].Field)
	assert.Equal(t, "Invalid datetime", errs[0].Message)
}

func TestValidateBuyerUpdateTrimsName(t *testing.T) {
	validated, errs := ValidateBuyerUpdate(BuyerUpdateInput{FullName: strPtr("  Jane Doe ")})
	require.Nil(t, errs)
	assert.Equal(t, "Jane Doe", *validated.FullName)
}
