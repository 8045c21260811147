package repository

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-insurance-cache/insurance"
)

// Request-model field validation proper belongs to the excluded controller
// layer; the rules here are only the ones the core depends on to keep cache
// keys and mutations well formed.

func validateClientFilter(f insurance.ClientFilter) error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Length(0, 200)),
		validation.Field(&f.Email, validation.Length(0, 200)),
		validation.Field(&f.IdentificationNumber, is.Digit, validation.Length(0, 10)),
	)
	return asValidationError(err)
}

func validateNewClient(nc insurance.NewClient) error {
	err := validation.ValidateStruct(&nc,
		validation.Field(&nc.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&nc.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&nc.Email, validation.Required, is.Email),
		validation.Field(&nc.Phone, validation.Required, validation.Length(7, 15)),
		validation.Field(&nc.Password, validation.Required, validation.Length(8, 72)),
	)
	return asValidationError(err)
}

func validateClientUpdate(uc insurance.ClientUpdate) error {
	err := validation.ValidateStruct(&uc,
		validation.Field(&uc.ClientID, validation.Required, validation.Min(1)),
		validation.Field(&uc.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&uc.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&uc.Phone, validation.Required, validation.Length(7, 15)),
		validation.Field(&uc.Password, validation.Length(8, 72)),
	)
	return asValidationError(err)
}

func validateProfileUpdate(up insurance.ProfileUpdate) error {
	err := validation.ValidateStruct(&up,
		validation.Field(&up.Phone, validation.Required, validation.Length(7, 15)),
	)
	return asValidationError(err)
}

func validateNewPolicy(np insurance.NewPolicy) error {
	err := validation.ValidateStruct(&np,
		validation.Field(&np.ClientID, validation.Required, validation.Min(1)),
		validation.Field(&np.PolicyTypeID, validation.Required, validation.Min(1)),
		validation.Field(&np.InsuredAmount, validation.Required, validation.Min(0.01)),
		validation.Field(&np.StartDate, validation.Required),
		validation.Field(&np.EndDate, validation.Required, validation.By(func(any) error {
			if !np.EndDate.After(np.StartDate) {
				return errors.New("must be after the start date")
			}
			return nil
		})),
	)
	return asValidationError(err)
}

func validateNewUser(nu insurance.NewUser) error {
	err := validation.ValidateStruct(&nu,
		validation.Field(&nu.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&nu.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&nu.Email, validation.Required, is.Email),
		validation.Field(&nu.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&nu.RoleID, validation.Required, validation.Min(1)),
	)
	return asValidationError(err)
}

func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	return insurance.Validation(err.Error())
}
