package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// Validate checks the fields the remote API requires before spending a round
// trip. The backend re-validates; this is the client-side fast fail.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&p.Username, validation.Required, validation.Length(3, 100)),
		validation.Field(&p.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&p.Phone, validation.By(ValidatePhoneNumber)),
	)
}

// ValidatePhoneNumber accepts an empty value and otherwise requires a
// parseable, valid phone number. Numbers without a country code are parsed
// against the default region.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	parsed, err := phonenumbers.Parse(s, DefaultPhoneRegion)
	if err != nil {
		return errors.New("must be a valid phone number")
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return errors.New("must be a valid phone number")
	}

	return nil
}

// DefaultPhoneRegion is the region used to parse phone numbers that omit a
// country code.
var DefaultPhoneRegion = "IN"

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field -> message map the forms can render inline.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
