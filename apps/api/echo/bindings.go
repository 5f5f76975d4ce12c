package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/navigation"
	"github.com/talunzi/gradechain/core/session"
)

type (
	SwitchRequest struct {
		Account string `json:"account" validate:"required,eth_addr_str"`
	}

	DecisionRequest struct {
		Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	}

	ActiveRequest struct {
		Active *bool `json:"active" validate:"required"`
	}

	SessionResponse struct {
		Token    string           `json:"token,omitempty"`
		Snapshot session.Snapshot `json:"snapshot"`
	}

	NavigationResponse struct {
		Landing navigation.Screen   `json:"landing"`
		Allowed []navigation.Screen `json:"allowed"`
	}

	RouteResponse struct {
		Screen navigation.Screen `json:"screen"`
	}

	BatchImportResponse struct {
		Report grade.BatchReport `json:"report"`
	}
)

func (sr *SwitchRequest) Validate(validate *validator.Validate) error {
	sr.Account = core.CleanString(sr.Account, true /* lower */)
	return validate.Struct(sr)
}

func (dr *DecisionRequest) Validate(validate *validator.Validate) error {
	dr.Decision = core.CleanString(dr.Decision, true /* lower */)
	return validate.Struct(dr)
}

func (ar *ActiveRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(ar)
}
