package auth

import (
	"dm-lab/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegistrationInput struct {
	Username        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// ValidateRegistration checks registration input and returns every failing
// field at once, so the caller can surface all problems in a single response.
// A nil result means the input is valid.
func ValidateRegistration(in RegistrationInput) errors.FieldErrors {
	return collectFieldErrors(validate.Struct(in))
}

// ValidateLogin checks that both login fields are present.
func ValidateLogin(in LoginInput) errors.FieldErrors {
	return collectFieldErrors(validate.Struct(in))
}

func collectFieldErrors(err error) errors.FieldErrors {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// A non-struct value reached the validator. Programming error.
		panic(err)
	}

	fields := errors.FieldErrors{}
	for _, fe := range verrs {
		fields[fieldName(fe)] = fieldMessage(fe)
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Username":
		return "username"
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "ConfirmPassword":
		return "confirmPassword"
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Username":
		return "Username must not be empty"
	case "Email":
		if fe.Tag() == "email" {
			return "Email must be a valid email address"
		}
		return "Email must not be empty"
	case "Password":
		if fe.Tag() == "min" {
			return "Password must be at least 6 characters"
		}
		return "Password must not be empty"
	case "ConfirmPassword":
		return "Passwords must match"
	}
	return fe.Error()
}
