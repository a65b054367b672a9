package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, getFieldName(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":       "Username",
		"Email":          "Email",
		"Password":       "Password",
		"Password2":      "Password confirmation",
		"Role":           "Role",
		"FirstName":      "First name",
		"LastName":       "Last name",
		"DesignerID":     "Designer",
		"BookingDate":    "Booking date",
		"BookingTime":    "Booking time",
		"DurationHours":  "Duration",
		"EventType":      "Event type",
		"ReactionType":   "Reaction type",
		"Rating":         "Rating",
		"Comment":        "Comment",
		"EstimatedPrice": "Estimated price",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
