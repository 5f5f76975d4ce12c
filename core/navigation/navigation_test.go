package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talunzi/gradechain/core/session"
)

func snapFor(role session.Role, registered bool) session.Snapshot {
	return session.Snapshot{
		State:   session.StateReady,
		Account: "0xaa",
		Session: &session.Session{
			Account: "0xaa",
			Role:    role,
			Profile: session.Profile{IsRegistered: registered},
		},
	}
}

func TestParseScreen(t *testing.T) {
	s, ok := ParseScreen("approval")
	assert.True(t, ok)
	assert.Equal(t, ScreenApproval, s)

	_, ok = ParseScreen("dashboard")
	assert.False(t, ok)

	_, ok = ParseScreen("")
	assert.False(t, ok)
}

func TestLanding(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want Screen
	}{
		{name: "disconnected", snap: session.Snapshot{State: session.StateDisconnected}, want: ScreenConnect},
		{name: "resolving", snap: session.Snapshot{State: session.StateResolving, Account: "0xaa"}, want: ScreenLoading},
		{name: "unknown role", snap: snapFor(session.RoleUnknown, false), want: ScreenHome},
		{name: "unregistered teacher", snap: snapFor(session.RoleTeacher, false), want: ScreenRegister},
		{name: "unregistered student", snap: snapFor(session.RoleStudent, false), want: ScreenRegister},
		{name: "admin", snap: snapFor(session.RoleAdmin, false), want: ScreenAdmin},
		{name: "teacher", snap: snapFor(session.RoleTeacher, true), want: ScreenUpload},
		{name: "grade manager", snap: snapFor(session.RoleGradeManager, true), want: ScreenApproval},
		{name: "student", snap: snapFor(session.RoleStudent, true), want: ScreenGrades},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Landing(tt.snap))
		})
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want []Screen
	}{
		{name: "disconnected", snap: session.Snapshot{State: session.StateDisconnected}, want: []Screen{ScreenConnect}},
		{name: "resolving", snap: session.Snapshot{State: session.StateResolving}, want: []Screen{ScreenLoading}},
		{name: "unknown role", snap: snapFor(session.RoleUnknown, false), want: []Screen{ScreenHome}},
		{name: "unregistered", snap: snapFor(session.RoleGradeManager, false), want: []Screen{ScreenRegister}},
		{name: "admin", snap: snapFor(session.RoleAdmin, true), want: []Screen{ScreenAdmin, ScreenApproval, ScreenGrades, ScreenHome}},
		{name: "teacher", snap: snapFor(session.RoleTeacher, true), want: []Screen{ScreenGrades, ScreenHome, ScreenUpload}},
		{name: "grade manager", snap: snapFor(session.RoleGradeManager, true), want: []Screen{ScreenApproval, ScreenGrades, ScreenHome}},
		{name: "student", snap: snapFor(session.RoleStudent, true), want: []Screen{ScreenGrades, ScreenHome}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.snap))
		})
	}
}

// the landing screen must always be reachable
func TestLanding_isAllowed(t *testing.T) {
	snaps := []session.Snapshot{
		{State: session.StateDisconnected},
		{State: session.StateResolving},
		snapFor(session.RoleUnknown, false),
		snapFor(session.RoleAdmin, false),
		snapFor(session.RoleTeacher, false),
		snapFor(session.RoleTeacher, true),
		snapFor(session.RoleStudent, true),
		snapFor(session.RoleGradeManager, true),
	}
	for _, snap := range snaps {
		assert.Contains(t, Allowed(snap), Landing(snap))
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name      string
		snap      session.Snapshot
		requested Screen
		want      Screen
	}{
		{name: "allowed passes through", snap: snapFor(session.RoleTeacher, true), requested: ScreenUpload, want: ScreenUpload},
		{name: "home allowed for all ready roles", snap: snapFor(session.RoleStudent, true), requested: ScreenHome, want: ScreenHome},
		{name: "student denied approval", snap: snapFor(session.RoleStudent, true), requested: ScreenApproval, want: ScreenGrades},
		{name: "teacher denied admin", snap: snapFor(session.RoleTeacher, true), requested: ScreenAdmin, want: ScreenUpload},
		{name: "unregistered forced to register", snap: snapFor(session.RoleStudent, false), requested: ScreenGrades, want: ScreenRegister},
		{name: "admin reaches approval", snap: snapFor(session.RoleAdmin, true), requested: ScreenApproval, want: ScreenApproval},
		{name: "disconnected goes to connect", snap: session.Snapshot{State: session.StateDisconnected}, requested: ScreenGrades, want: ScreenConnect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.snap, tt.requested))
		})
	}
}
