package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
)

func registrationBody(t *testing.T) []byte {
	return marshallObj(t, user.Registration{
		Name:          "Bob",
		StudentID:     "S001",
		Email:         "bob@test.cd",
		ContactNumber: "+243000000000",
	})
}

func Test_userApi_register(t *testing.T) {
	app := setup(t)
	token := app.connectAs(t, studentAccount)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", token, registrationBody(t))
	app.srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp SessionResponse
	decodeBody(t, rec, &resp)
	// the response reflects the refreshed session
	if assert.NotNil(t, resp.Snapshot.Session) {
		assert.True(t, resp.Snapshot.Session.Registered())
		assert.Equal(t, "Bob", resp.Snapshot.Session.Profile.Name)
	}

	// doing it again conflicts
	req, rec = newAuthRequest(http.MethodPost, "/v1/users/register", token, registrationBody(t))
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func Test_userApi_registerValidation(t *testing.T) {
	app := setup(t)
	token := app.connectAs(t, studentAccount)

	body := marshallObj(t, user.Registration{Name: "Bob"}) // missing email & contact
	req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", token, body)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_userApi_registerAsAdmin(t *testing.T) {
	app := setup(t)
	token := app.connectAs(t, adminAccount)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", token, registrationBody(t))
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_userApi_requiresAuth(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "register", method: http.MethodPost, path: "/v1/users/register"},
		{name: "query", method: http.MethodGet, path: "/v1/users"},
		{name: "assign role", method: http.MethodPost, path: "/v1/users/roles"},
		{name: "destroy", method: http.MethodDelete, path: "/v1/users/" + studentAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.srv.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)
	app.registerStudent(t)

	// admin sees everyone
	token := app.connectAs(t, adminAccount)
	req, rec := newAuthRequest(http.MethodGet, "/v1/users", token)
	app.srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var users []user.User
	decodeBody(t, rec, &users)
	assert.Len(t, users, 4)

	// a student does not
	token = app.connectAs(t, studentAccount)
	req, rec = newAuthRequest(http.MethodGet, "/v1/users", token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_userApi_retrieve(t *testing.T) {
	app := setup(t)
	app.registerStudent(t)
	token := app.connectAs(t, studentAccount)

	// self
	req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+studentAccount, token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var usr user.User
	decodeBody(t, rec, &usr)
	assert.Equal(t, studentAccount, usr.Account)
	assert.Equal(t, session.RoleStudent, usr.Role)

	// not others
	req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+teacherAccount, token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin reads anyone; unknown accounts are 404
	token = app.connectAs(t, adminAccount)
	req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+teacherAccount, token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/users/0x0000000000000000000000000000000000000001", token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_userApi_assignRole(t *testing.T) {
	app := setup(t)
	token := app.connectAs(t, adminAccount)

	newAccount := "0x15d34aaf54267db7d7c367839aaf71a00a2c6a65"
	body := marshallObj(t, user.AssignRole{Account: newAccount, Role: "grade_manager"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/users/roles", token, body)
	app.srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var usr user.User
	decodeBody(t, rec, &usr)
	assert.Equal(t, session.RoleGradeManager, usr.Role)

	// bad role name
	body = marshallObj(t, user.AssignRole{Account: newAccount, Role: "lol"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/users/roles", token, body)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// non-admin
	token = app.connectAs(t, teacherAccount)
	body = marshallObj(t, user.AssignRole{Account: newAccount, Role: "teacher"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/users/roles", token, body)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_userApi_destroy(t *testing.T) {
	app := setup(t)
	token := app.connectAs(t, adminAccount)

	// the active admin cannot remove themselves
	req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+adminAccount, token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/users/"+teacherAccount, token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// gone from the ledger
	req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+teacherAccount, token)
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
