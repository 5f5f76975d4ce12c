package grade

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/talunzi/gradechain/core"
)

// LowScoreThreshold marks the score below which a grade requires mandatory
// review in the approval workflow.
const LowScoreThreshold = 60

// Status is a grade's position in the review lifecycle.
// pending → approved | rejected; the transition is arbitrated by the ledger.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidDecision reports whether s may be the target of a decide call.
func ValidDecision(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

// Grade is a grade record as stored on the ledger. Course and Score are
// immutable after creation; there is no edit path. Active is an independent
// enable/disable toggle on decided records and never changes the
// approved/rejected classification.
type Grade struct {
	ID             string    `json:"grade_id"`
	StudentID      string    `json:"student_id"`
	StudentAccount string    `json:"student_account,omitempty"`
	Course         string    `json:"course"`
	Score          int       `json:"score"`
	Status         Status    `json:"status"`
	Active         bool      `json:"active"`
	Remark         string    `json:"remark,omitempty"`
	Teacher        string    `json:"teacher"`
	Timestamp      time.Time `json:"timestamp"`
}

func (g Grade) Decided() bool {
	return g.Status == StatusApproved || g.Status == StatusRejected
}

func (g Grade) LowScore() bool {
	return g.Score < LowScoreThreshold
}

// NewGrade contains information needed to upload a grade. Validation here is
// advisory only; the ledger re-validates and remains the authority.
type NewGrade struct {
	ID             string `json:"grade_id" validate:"omitempty"`
	StudentID      string `json:"student_id" validate:"required"`
	StudentAccount string `json:"student_account" validate:"omitempty,eth_addr_str"`
	Course         string `json:"course" validate:"required"`
	Score          int    `json:"score" validate:"score"`
	Remark         string `json:"remark"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.ID = core.CleanString(ng.ID)
	ng.StudentID = core.CleanString(ng.StudentID)
	ng.StudentAccount = core.CleanString(ng.StudentAccount, true /* lower */)
	ng.Course = core.CleanString(ng.Course)
	ng.Remark = core.CleanString(ng.Remark)
	return validate.Struct(ng)
}
