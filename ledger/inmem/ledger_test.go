package inmemledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
	"github.com/talunzi/gradechain/ledger"
)

const (
	admin   = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	teacher = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	student = "0x90f79bf6eb2c4f870365e785982e1f101e93b906"
)

func callerCtx(account string) context.Context {
	return ledger.WithCaller(context.Background(), account)
}

func seed(t *testing.T) *Ledger {
	t.Helper()
	led := New(admin)
	assert.NoError(t, led.AssignRole(callerCtx(admin), teacher, session.RoleTeacher))
	assert.NoError(t, led.AssignRole(callerCtx(admin), student, session.RoleStudent))
	return led
}

func TestLedger_roles(t *testing.T) {
	led := seed(t)
	ctx := context.Background()

	role, err := led.GetUserRole(ctx, admin)
	assert.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, role)

	// account addresses are case-insensitive
	role, err = led.GetUserRole(ctx, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	assert.NoError(t, err)
	assert.Equal(t, session.RoleTeacher, role)

	// an account with no role resolves, it does not fail
	role, err = led.GetUserRole(ctx, "0x0000000000000000000000000000000000000001")
	assert.NoError(t, err)
	assert.Equal(t, session.RoleUnknown, role)
}

func TestLedger_uploadGrade(t *testing.T) {
	led := seed(t)

	tests := []struct {
		name    string
		ctx     context.Context
		g       grade.Grade
		wantErr error
	}{
		{name: "ok", ctx: callerCtx(teacher), g: grade.Grade{ID: "g-1", StudentID: "S001", Course: "Algebra", Score: 70}},
		{name: "no signer", ctx: context.Background(), g: grade.Grade{ID: "g-2", StudentID: "S001", Course: "Algebra", Score: 70}, wantErr: ledger.ErrRejected},
		{name: "wrong role", ctx: callerCtx(student), g: grade.Grade{ID: "g-3", StudentID: "S001", Course: "Algebra", Score: 70}, wantErr: ledger.ErrUnauthorized},
		{name: "score out of range", ctx: callerCtx(teacher), g: grade.Grade{ID: "g-4", StudentID: "S001", Course: "Algebra", Score: 101}, wantErr: ledger.ErrReverted},
		{name: "missing id", ctx: callerCtx(teacher), g: grade.Grade{StudentID: "S001", Course: "Algebra", Score: 70}, wantErr: ledger.ErrReverted},
		{name: "duplicate id", ctx: callerCtx(teacher), g: grade.Grade{ID: "g-1", StudentID: "S001", Course: "Algebra", Score: 70}, wantErr: ledger.ErrReverted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := led.UploadGrade(tt.ctx, tt.g)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, grade.StatusPending, created.Status)
			assert.True(t, created.Active)
			assert.Equal(t, teacher, created.Teacher)
		})
	}
}

func TestLedger_decideGrade(t *testing.T) {
	led := seed(t)

	created, err := led.UploadGrade(callerCtx(teacher), grade.Grade{ID: "g-1", StudentID: "S001", Course: "Algebra", Score: 70})
	assert.NoError(t, err)

	// teachers cannot decide
	err = led.DecideGrade(callerCtx(teacher), created.ID, grade.StatusApproved)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)

	// an admin can
	assert.NoError(t, led.DecideGrade(callerCtx(admin), created.ID, grade.StatusApproved))

	// decisions are final
	err = led.DecideGrade(callerCtx(admin), created.ID, grade.StatusRejected)
	assert.ErrorIs(t, err, ledger.ErrReverted)

	err = led.DecideGrade(callerCtx(admin), "missing", grade.StatusApproved)
	assert.ErrorIs(t, err, ledger.ErrReverted)
}

func TestLedger_setGradeActive(t *testing.T) {
	led := seed(t)

	created, err := led.UploadGrade(callerCtx(teacher), grade.Grade{ID: "g-1", StudentID: "S001", Course: "Algebra", Score: 70})
	assert.NoError(t, err)

	// pending records cannot be toggled
	err = led.SetGradeActive(callerCtx(admin), created.ID, false)
	assert.ErrorIs(t, err, ledger.ErrReverted)

	assert.NoError(t, led.DecideGrade(callerCtx(admin), created.ID, grade.StatusRejected))
	assert.NoError(t, led.SetGradeActive(callerCtx(admin), created.ID, false))

	got, err := led.GetGrade(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, grade.StatusRejected, got.Status)
}

func TestLedger_registerUser(t *testing.T) {
	led := seed(t)

	reg := user.Registration{Name: "Bob", StudentID: "S001", Email: "bob@test.cd", ContactNumber: "+243000000000"}

	// admin cannot register
	err := led.RegisterUser(callerCtx(admin), reg)
	assert.ErrorIs(t, err, ledger.ErrReverted)

	assert.NoError(t, led.RegisterUser(callerCtx(student), reg))

	profile, err := led.GetUserInfo(context.Background(), student)
	assert.NoError(t, err)
	assert.True(t, profile.IsRegistered)

	// same student id from another account
	other := "0x15d34aaf54267db7d7c367839aaf71a00a2c6a65"
	err = led.RegisterUser(callerCtx(other), user.Registration{Name: "Eve", StudentID: "S001", Email: "eve@test.cd", ContactNumber: "+243000000001"})
	assert.ErrorIs(t, err, ledger.ErrReverted)
}

func TestLedger_gradesByUsername(t *testing.T) {
	led := seed(t)

	reg := user.Registration{Name: "Bob", StudentID: "S001", Email: "bob@test.cd", ContactNumber: "+243000000000"}
	assert.NoError(t, led.RegisterUser(callerCtx(student), reg))

	// one grade carries the account, the other only the student id
	_, err := led.UploadGrade(callerCtx(teacher), grade.Grade{ID: "g-1", StudentID: "S001", Course: "Algebra", Score: 70})
	assert.NoError(t, err)
	_, err = led.UploadGrade(callerCtx(teacher), grade.Grade{ID: "g-2", StudentAccount: student, StudentID: "other", Course: "Physics", Score: 60})
	assert.NoError(t, err)

	grades, err := led.GradesByUsername(context.Background(), "Bob")
	assert.NoError(t, err)
	assert.Len(t, grades, 2)

	grades, err = led.GradesByUsername(context.Background(), "Nobody")
	assert.NoError(t, err)
	assert.Empty(t, grades)
}

func TestLedger_removeUser(t *testing.T) {
	led := seed(t)

	assert.NoError(t, led.RemoveUser(callerCtx(admin), teacher))

	role, err := led.GetUserRole(context.Background(), teacher)
	assert.NoError(t, err)
	assert.Equal(t, session.RoleUnknown, role)

	accounts, err := led.AllUsers(context.Background())
	assert.NoError(t, err)
	assert.NotContains(t, accounts, teacher)

	err = led.RemoveUser(callerCtx(admin), "0x0000000000000000000000000000000000000009")
	assert.ErrorIs(t, err, ledger.ErrReverted)
}
