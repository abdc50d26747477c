// Package validation is the single source of truth for acceptable buyer
// field values. Enumerated fields are validated in their human-facing
// spelling; callers map to canonical spellings afterwards.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"buyer-lead-portal/internal/apierr"
)

// Human-facing enumeration values.
var (
	Cities        = []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"}
	PropertyTypes = []string{"Apartment", "Villa", "Plot", "Office", "Retail"}
	BHKOptions    = []string{"Studio", "1", "2", "3", "4", "ONE", "TWO", "THREE", "FOUR"}
	Purposes      = []string{"Buy", "Rent"}
	Timelines     = []string{"0-3m", "3-6m", ">6m", "Exploring"}
	Sources       = []string{"Website", "Referral", "Walk-in", "Call", "Other"}
	Statuses      = []string{"New", "Qualified", "Contacted", "Visited", "Negotiation", "Converted", "Dropped"}
)

const (
	msgBHKRequired = "BHK is required for Apartment and Villa property types"
	msgBudgetOrder = "Budget max must be greater than or equal to budget min"

	// Field reported for record-level rules; the CSV pipeline rewrites it.
	RecordField = "unknown"
)

var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

// BuyerInput is a candidate buyer record in human spelling.
type BuyerInput struct {
	FullName     string   `json:"fullName" validate:"required,min=2,max=80"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone" validate:"required,phone_digits"`
	City         string   `json:"city" validate:"required,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=Apartment Villa Plot Office Retail"`
	BHK          string   `json:"bhk" validate:"omitempty,oneof=Studio 1 2 3 4 ONE TWO THREE FOUR"`
	Purpose      string   `json:"purpose" validate:"required,oneof=Buy Rent"`
	BudgetMin    *int     `json:"budgetMin" validate:"omitempty,gte=0"`
	BudgetMax    *int     `json:"budgetMax" validate:"omitempty,gte=0"`
	Timeline     string   `json:"timeline" validate:"required,oneof=0-3m 3-6m >6m Exploring"`
	Source       string   `json:"source" validate:"required,oneof=Website Referral Walk-in Call Other"`
	Status       string   `json:"status" validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
	Notes        string   `json:"notes" validate:"omitempty,max=1000"`
	Tags         []string `json:"tags"`
}

// BuyerUpdateInput is a partial update: every field is optional, but any
// field present must satisfy the same per-field rules. UpdatedAt is the
// client's concurrency token; it is checked by the service and never
// persisted as a buyer attribute.
type BuyerUpdateInput struct {
	FullName     *string  `json:"fullName" validate:"omitempty,min=2,max=80"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	Phone        *string  `json:"phone" validate:"omitempty,phone_digits"`
	City         *string  `json:"city" validate:"omitempty,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType *string  `json:"propertyType" validate:"omitempty,oneof=Apartment Villa Plot Office Retail"`
	BHK          *string  `json:"bhk" validate:"omitempty,oneof=Studio 1 2 3 4 ONE TWO THREE FOUR"`
	Purpose      *string  `json:"purpose" validate:"omitempty,oneof=Buy Rent"`
	BudgetMin    *int     `json:"budgetMin" validate:"omitempty,gte=0"`
	BudgetMax    *int     `json:"budgetMax" validate:"omitempty,gte=0"`
	Timeline     *string  `json:"timeline" validate:"omitempty,oneof=0-3m 3-6m >6m Exploring"`
	Source       *string  `json:"source" validate:"omitempty,oneof=Website Referral Walk-in Call Other"`
	Status       *string  `json:"status" validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
	Notes        *string  `json:"notes" validate:"omitempty,max=1000"`
	Tags         []string `json:"tags"`
	UpdatedAt    *string  `json:"updatedAt"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report field names from json tags so errors match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidateBuyer validates a full candidate record, applying defaults
// (status "New", empty tags). The returned input keeps human spellings.
func ValidateBuyer(input BuyerInput) (BuyerInput, []apierr.FieldError) {
	input.FullName = strings.TrimSpace(input.FullName)
	if input.Status == "" {
		input.Status = "New"
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}

	errs := collectFieldErrors(validate.Struct(input))

	if (input.PropertyType == "Apartment" || input.PropertyType == "Villa") && input.BHK == "" {
		errs = append(errs, apierr.FieldError{Field: RecordField, Message: msgBHKRequired})
	}
	if input.BudgetMin != nil && input.BudgetMax != nil && *input.BudgetMax < *input.BudgetMin {
		errs = append(errs, apierr.FieldError{Field: RecordField, Message: msgBudgetOrder})
	}

	if len(errs) > 0 {
		return input, errs
	}
	return input, nil
}

// ValidateBuyerUpdate validates a partial update payload.
func ValidateBuyerUpdate(input BuyerUpdateInput) (BuyerUpdateInput, []apierr.FieldError) {
	if input.FullName != nil {
		trimmed := strings.TrimSpace(*input.FullName)
		input.FullName = &trimmed
	}

	errs := collectFieldErrors(validate.Struct(input))

	if input.BudgetMin != nil && input.BudgetMax != nil && *input.BudgetMax < *input.BudgetMin {
		errs = append(errs, apierr.FieldError{Field: RecordField, Message: msgBudgetOrder})
	}
	if input.UpdatedAt != nil {
		if _, err := time.Parse(time.RFC3339, *input.UpdatedAt); err != nil {
			errs = append(errs, apierr.FieldError{Field: "updatedAt", Message: "Invalid datetime"})
		}
	}

	if len(errs) > 0 {
		return input, errs
	}
	return input, nil
}

func collectFieldErrors(err error) []apierr.FieldError {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apierr.FieldError{{Field: RecordField, Message: err.Error()}}
	}

	fieldErrs := make([]apierr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, apierr.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return fieldErrs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		return fmt.Sprintf("Must contain at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must contain at most %s characters", fe.Param())
	case "email":
		return "Invalid email"
	case "oneof":
		return "Invalid value"
	case "gte":
		return "Must be non-negative"
	case "phone_digits":
		return "Phone must be 10-15 digits"
	default:
		return fmt.Sprintf("Failed validation for '%s'", fe.Tag())
	}
}
