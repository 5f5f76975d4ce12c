// Package navigation is the single authority on which screens a session may
// reach. Views consume the computed screen set; they never re-derive
// authorization from raw role values themselves.
package navigation

import (
	"sort"

	"github.com/talunzi/gradechain/core/session"
)

// Screen identifies one of the dashboard's screens.
type Screen string

const (
	ScreenConnect  Screen = "connect"
	ScreenLoading  Screen = "loading"
	ScreenHome     Screen = "home"
	ScreenRegister Screen = "register"
	ScreenUpload   Screen = "upload"
	ScreenGrades   Screen = "grades"
	ScreenApproval Screen = "approval"
	ScreenAdmin    Screen = "admin"
)

// ParseScreen returns the Screen for a route name; ok is false when unknown.
func ParseScreen(name string) (Screen, bool) {
	switch s := Screen(name); s {
	case ScreenConnect, ScreenLoading, ScreenHome, ScreenRegister,
		ScreenUpload, ScreenGrades, ScreenApproval, ScreenAdmin:
		return s, true
	}
	return "", false
}

// Landing returns the screen a session is sent to by default.
// The policy is evaluated in priority order; first match wins.
func Landing(snap session.Snapshot) Screen {
	switch snap.State {
	case session.StateDisconnected:
		return ScreenConnect
	case session.StateResolving:
		return ScreenLoading
	}

	sess := *snap.Session
	switch {
	case sess.Role == session.RoleUnknown:
		return ScreenHome
	case !sess.Registered():
		return ScreenRegister
	case sess.Role == session.RoleAdmin:
		return ScreenAdmin
	case sess.Role == session.RoleTeacher:
		return ScreenUpload
	case sess.Role == session.RoleGradeManager:
		return ScreenApproval
	default: // student
		return ScreenGrades
	}
}

// Allowed returns the full set of screens a session may reach, sorted for a
// stable wire representation.
func Allowed(snap session.Snapshot) []Screen {
	var screens []Screen
	switch snap.State {
	case session.StateDisconnected:
		screens = []Screen{ScreenConnect}
	case session.StateResolving:
		screens = []Screen{ScreenLoading}
	default:
		sess := *snap.Session
		switch {
		case sess.Role == session.RoleUnknown:
			screens = []Screen{ScreenHome}
		case !sess.Registered():
			// forced: nothing else until the registration write lands
			screens = []Screen{ScreenRegister}
		case sess.Role == session.RoleAdmin:
			screens = []Screen{ScreenHome, ScreenGrades, ScreenApproval, ScreenAdmin}
		case sess.Role == session.RoleTeacher:
			screens = []Screen{ScreenHome, ScreenUpload, ScreenGrades}
		case sess.Role == session.RoleGradeManager:
			screens = []Screen{ScreenHome, ScreenApproval, ScreenGrades}
		default: // student
			screens = []Screen{ScreenHome, ScreenGrades}
		}
	}
	sort.Slice(screens, func(i, j int) bool { return screens[i] < screens[j] })
	return screens
}

// Route resolves a navigation attempt: the requested screen when allowed,
// otherwise the landing screen. Disallowed navigation redirects; it never
// renders an error.
func Route(snap session.Snapshot, requested Screen) Screen {
	for _, s := range Allowed(snap) {
		if s == requested {
			return requested
		}
	}
	return Landing(snap)
}
