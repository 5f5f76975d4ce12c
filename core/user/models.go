package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/session"
)

// User is an account as the administration screen sees it: the address plus
// everything the ledger holds about it.
type User struct {
	Account string          `json:"account"`
	Role    session.Role    `json:"role"`
	Profile session.Profile `json:"profile"`
}

// Registration contains the profile a caller submits to register themselves.
// Uniqueness is enforced by the ledger; a duplicate registration reverts.
type Registration struct {
	Name          string `json:"name" validate:"required"`
	StudentID     string `json:"student_id" validate:"omitempty"`
	Email         string `json:"email" validate:"required,email"`
	ContactNumber string `json:"contact_number" validate:"required"`
}

func (r *Registration) Validate(validate *validator.Validate) error {
	r.Name = core.CleanString(r.Name)
	r.StudentID = core.CleanString(r.StudentID)
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.ContactNumber = core.CleanString(r.ContactNumber)
	return validate.Struct(r)
}

// AssignRole is the admin request to grant an account a role.
type AssignRole struct {
	Account string `json:"account" validate:"required,eth_addr_str"`
	Role    string `json:"role" validate:"required"`
}

func (ar *AssignRole) Validate(validate *validator.Validate) error {
	ar.Account = core.CleanString(ar.Account, true /* lower */)
	ar.Role = core.CleanString(ar.Role, true /* lower */)
	if err := validate.Struct(ar); err != nil {
		return err
	}
	if !session.ParseRoleName(ar.Role).Known() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}
	return nil
}
