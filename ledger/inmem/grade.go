package inmemledger

import (
	"context"
	"strings"
	"time"

	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/ledger"
)

// grade.Ledger

func (l *Ledger) UploadGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	teacher, err := l.requireRole(ctx, session.RoleTeacher)
	if err != nil {
		return grade.Grade{}, err
	}
	if g.Score < 0 || g.Score > 100 {
		return grade.Grade{}, ledger.NewRevertError("score out of range")
	}
	if g.ID == "" {
		return grade.Grade{}, ledger.NewRevertError("missing grade id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.grades[g.ID]; exists {
		return grade.Grade{}, ledger.NewRevertError("grade already exists")
	}

	g.StudentAccount = strings.ToLower(g.StudentAccount)
	g.Status = grade.StatusPending
	g.Active = true
	g.Teacher = teacher
	g.Timestamp = time.Now().UTC()

	l.grades[g.ID] = g
	l.gradeIDs = append(l.gradeIDs, g.ID)
	return g, nil
}

func (l *Ledger) DecideGrade(ctx context.Context, id string, decision grade.Status) error {
	if _, err := l.requireRole(ctx, session.RoleGradeManager, session.RoleAdmin); err != nil {
		return err
	}
	if !grade.ValidDecision(decision) {
		return ledger.NewRevertError("invalid decision")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.grades[id]
	if !ok {
		return ledger.NewRevertError("unknown grade")
	}
	if g.Status != grade.StatusPending {
		return ledger.NewRevertError("grade is not pending")
	}
	g.Status = decision
	l.grades[id] = g
	return nil
}

func (l *Ledger) SetGradeActive(ctx context.Context, id string, active bool) error {
	if _, err := l.requireRole(ctx, session.RoleGradeManager, session.RoleAdmin); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.grades[id]
	if !ok {
		return ledger.NewRevertError("unknown grade")
	}
	if !g.Decided() {
		return ledger.NewRevertError("grade is not decided")
	}
	g.Active = active
	l.grades[id] = g
	return nil
}

func (l *Ledger) GetGrade(_ context.Context, id string) (grade.Grade, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.grades[id]
	if !ok {
		return grade.Grade{}, ledger.ErrNotFound
	}
	return g, nil
}

func (l *Ledger) GradesByStudentID(_ context.Context, studentID string) ([]grade.Grade, error) {
	return l.filter(func(g grade.Grade) bool { return g.StudentID == studentID }), nil
}

func (l *Ledger) GradesByUsername(_ context.Context, username string) ([]grade.Grade, error) {
	l.mu.RLock()
	accounts := make(map[string]bool)
	studentIDs := make(map[string]bool)
	for account, profile := range l.profiles {
		if profile.IsRegistered && profile.Name == username {
			accounts[account] = true
			if profile.StudentID != "" {
				studentIDs[profile.StudentID] = true
			}
		}
	}
	l.mu.RUnlock()

	return l.filter(func(g grade.Grade) bool {
		return accounts[g.StudentAccount] || studentIDs[g.StudentID]
	}), nil
}

func (l *Ledger) GradesByAddress(_ context.Context, account string) ([]grade.Grade, error) {
	account = strings.ToLower(account)
	return l.filter(func(g grade.Grade) bool { return g.StudentAccount == account }), nil
}

func (l *Ledger) AllGrades(_ context.Context) ([]grade.Grade, error) {
	return l.filter(func(grade.Grade) bool { return true }), nil
}

func (l *Ledger) LowScoreGrades(_ context.Context) ([]grade.Grade, error) {
	return l.filter(grade.Grade.LowScore), nil
}

func (l *Ledger) PendingGradesByTeacher(_ context.Context, teacher string) ([]grade.Grade, error) {
	teacher = strings.ToLower(teacher)
	return l.filter(func(g grade.Grade) bool {
		return g.Teacher == teacher && g.Status == grade.StatusPending
	}), nil
}

func (l *Ledger) filter(keep func(grade.Grade) bool) []grade.Grade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]grade.Grade, 0, len(l.gradeIDs))
	for _, id := range l.gradeIDs {
		if g := l.grades[id]; keep(g) {
			out = append(out, g)
		}
	}
	return out
}
