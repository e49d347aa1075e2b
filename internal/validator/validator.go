package validator

import (
	"fmt"
	"strings"

	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_id", validateSeatID)
	validator.RegisterValidation("seat_list", validateSeatList)

	return validator
}

func validateSeatID(fl validator.FieldLevel) bool {
	return domain.ValidSeatID(fl.Field().String())
}

// seat_list accepts a non-empty comma-joined list of RowLetter+Number ids
// with no duplicates, matching the bookings endpoint's seatNumbers field.
func validateSeatList(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return false
	}

	seen := make(map[string]bool)

	for _, id := range strings.Split(raw, ",") {
		if !domain.ValidSeatID(id) || seen[id] {
			return false
		}
		seen[id] = true
	}

	return true
}

// ValidationMessage converts validator errors into readable messages.
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "seat_id":
		return "must be a row letter followed by a seat number"
	case "seat_list":
		return "must be a comma-joined list of unique seat ids"
	default:
		return fmt.Sprintf("failed on %s validation", err.Tag())
	}
}
