package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"pms/config"
	"pms/shared/failure"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
)

var (
	validate    *val.Validate
	phoneRegion string
)

func registerPhoneValidation(field val.FieldLevel) bool {
	phone, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := ParsePhone(phone)

	return err == nil
}

// decimalValue lets numeric tags such as gte=0 apply to money fields.
func decimalValue(field reflect.Value) any {
	if value, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := value.Float64()

		return f
	}

	return nil
}

func init() {
	phoneRegion = config.Get().Booking.PhoneRegion

	validate = val.New(val.WithRequiredStructEnabled())

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		empty := fl.Field().IsZero()

		return empty
	})
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("phone", registerPhoneValidation)
	if err != nil {
		panic(err)
	}

	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
}

// ParsePhone checks a free-form phone number and returns it in E.164 form. Numbers without an
// international prefix are read in the configured default region.
func ParsePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)

	number, err := phonenumbers.Parse(phone, phoneRegion)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsPossibleNumber(number) {
		return "", fmt.Errorf("phone number %q is not possible", phone)
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
