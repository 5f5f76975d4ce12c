package grade

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/session"
)

type (
	// Ledger is the grade surface of the contract gateway. Writes submit a
	// state change and only return once the ledger confirmed it; they are never
	// retried or replayed here since a replay could duplicate a side effect.
	Ledger interface {
		UploadGrade(ctx context.Context, g Grade) (Grade, error)
		DecideGrade(ctx context.Context, id string, decision Status) error
		SetGradeActive(ctx context.Context, id string, active bool) error

		GetGrade(ctx context.Context, id string) (Grade, error)
		GradesByStudentID(ctx context.Context, studentID string) ([]Grade, error)
		GradesByUsername(ctx context.Context, username string) ([]Grade, error)
		GradesByAddress(ctx context.Context, account string) ([]Grade, error)
		AllGrades(ctx context.Context) ([]Grade, error)
		LowScoreGrades(ctx context.Context) ([]Grade, error)
		PendingGradesByTeacher(ctx context.Context, teacher string) ([]Grade, error)
	}

	// Directory looks up the profile attached to an account, for decision
	// notifications.
	Directory interface {
		GetUserInfo(ctx context.Context, account string) (session.Profile, error)
	}

	Service struct {
		ledger Ledger
		dir    Directory
		mail   core.EmailService
	}
)

func NewService(ledger Ledger, dir Directory, mailSvc core.EmailService) *Service {
	return &Service{ledger: ledger, dir: dir, mail: mailSvc}
}

// Upload submits a new grade; the ledger creates it in StatusPending.
// A missing grade id is filled in; the teacher is the signing account.
func (svc *Service) Upload(ctx context.Context, ng NewGrade) (Grade, error) {
	if ng.ID == "" {
		ng.ID = uuid.NewString()
	}
	g := Grade{
		ID:             ng.ID,
		StudentID:      ng.StudentID,
		StudentAccount: ng.StudentAccount,
		Course:         ng.Course,
		Score:          ng.Score,
		Remark:         ng.Remark,
	}
	created, err := svc.ledger.UploadGrade(ctx, g)
	if err != nil {
		return Grade{}, errors.Wrap(err, "uploading grade")
	}
	return created, nil
}

// Decide transitions a pending grade to approved or rejected. A decision on a
// record not in StatusPending surfaces the ledger's revert untouched.
func (svc *Service) Decide(ctx context.Context, id string, decision Status) (Grade, error) {
	if !ValidDecision(decision) {
		return Grade{}, core.NewValidationError(
			errors.Errorf("invalid decision %q", decision),
			core.FieldError{Field: "decision", Error: "must be approved or rejected"},
		)
	}
	if err := svc.ledger.DecideGrade(ctx, id, decision); err != nil {
		return Grade{}, errors.Wrap(err, "deciding grade")
	}
	g, err := svc.ledger.GetGrade(ctx, id)
	if err != nil {
		return Grade{}, errors.Wrap(err, "reloading decided grade")
	}
	svc.notifyDecision(ctx, g)
	return g, nil
}

// SetActive toggles a decided record's enable/disable flag.
func (svc *Service) SetActive(ctx context.Context, id string, active bool) (Grade, error) {
	if err := svc.ledger.SetGradeActive(ctx, id, active); err != nil {
		return Grade{}, errors.Wrap(err, "toggling grade")
	}
	g, err := svc.ledger.GetGrade(ctx, id)
	return g, errors.Wrap(err, "reloading toggled grade")
}

func (svc *Service) Get(ctx context.Context, id string) (Grade, error) {
	return svc.ledger.GetGrade(ctx, id)
}

func (svc *Service) ByStudentID(ctx context.Context, studentID string) ([]Grade, error) {
	return svc.ledger.GradesByStudentID(ctx, core.CleanString(studentID))
}

func (svc *Service) ByUsername(ctx context.Context, username string) ([]Grade, error) {
	return svc.ledger.GradesByUsername(ctx, core.CleanString(username))
}

func (svc *Service) ByAddress(ctx context.Context, account string) ([]Grade, error) {
	return svc.ledger.GradesByAddress(ctx, core.CleanString(account, true /* lower */))
}

func (svc *Service) All(ctx context.Context) ([]Grade, error) {
	return svc.ledger.AllGrades(ctx)
}

// LowScore returns the ledger's dedicated low-score subset. It must agree with
// FilterLowScore over the full grade set; both are equivalent read paths.
func (svc *Service) LowScore(ctx context.Context) ([]Grade, error) {
	return svc.ledger.LowScoreGrades(ctx)
}

func (svc *Service) PendingByTeacher(ctx context.Context, teacher string) ([]Grade, error) {
	return svc.ledger.PendingGradesByTeacher(ctx, core.CleanString(teacher, true /* lower */))
}

// FilterLowScore is the client-side counterpart of the dedicated low-score
// query: a pure filter over a grade set.
func FilterLowScore(grades []Grade) []Grade {
	low := make([]Grade, 0, len(grades))
	for _, g := range grades {
		if g.LowScore() {
			low = append(low, g)
		}
	}
	return low
}

// notifyDecision emails the student when the record carries an account with a
// registered profile. Best effort; a missing profile is not an error.
func (svc *Service) notifyDecision(ctx context.Context, g Grade) {
	if svc.mail == nil || g.StudentAccount == "" {
		return
	}
	profile, err := svc.dir.GetUserInfo(ctx, g.StudentAccount)
	if err != nil || profile.Email == "" {
		return
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: profile.Name, Address: profile.Email}},
		Subject: fmt.Sprintf("Grade %s: %s", g.Status, g.Course),
		BodyStr: fmt.Sprintf(
			"Hello %s,\n\nYour grade for %s (score %d) has been %s.\n",
			profile.Name, g.Course, g.Score, g.Status,
		),
	})
}
