// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	apperrors "edupass/cli/internal/errors"
)

// loginInput is checked before any request is sent.
type loginInput struct {
	Username string
	Password string
}

func (r loginInput) Validate() error {
	return invalidInput(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required),
	))
}

type registerInput struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

func (r registerInput) Validate() error {
	return invalidInput(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128)),
		validation.Field(&r.Confirm,
			validation.Required,
			validation.By(stringEquals(r.Password)),
		),
	))
}

func stringEquals(want string) validation.RuleFunc {
	return func(value interface{}) error {
		if s, _ := value.(string); s != want {
			return errors.New("passwords do not match")
		}
		return nil
	}
}

func invalidInput(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.InputInvalid, "invalid input", err)
}
