package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
	"github.com/talunzi/gradechain/ledger"
	inmemledger "github.com/talunzi/gradechain/ledger/inmem"
	"github.com/talunzi/gradechain/wallet"
)

const (
	adminAccount   = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	teacherAccount = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	managerAccount = "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
	studentAccount = "0x90f79bf6eb2c4f870365e785982e1f101e93b906"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type mockEmail struct{ sent []*core.EmailMessage }

func (m *mockEmail) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

type testApp struct {
	srv    *Server
	conf   *core.Config
	led    *inmemledger.Ledger
	wallet *wallet.MemoryWallet
	mgr    *session.Manager
	mail   *mockEmail
}

// setup builds a full server over the in-memory ledger, with the four
// well-known accounts held by the wallet and their roles pre-assigned.
func setup(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		Env:       "TEST",
		AppName:   "Gradechain",
		SecretKey: "secret",
		Server: core.ServerConfig{
			Address:            ":0",
			JWTExpirationDelta: 10 * time.Minute,
		},
	}

	led := inmemledger.New(adminAccount)
	adminCtx := ledger.WithCaller(context.Background(), adminAccount)
	assert.NoError(t, led.AssignRole(adminCtx, teacherAccount, session.RoleTeacher))
	assert.NoError(t, led.AssignRole(adminCtx, managerAccount, session.RoleGradeManager))
	assert.NoError(t, led.AssignRole(adminCtx, studentAccount, session.RoleStudent))

	w := wallet.NewMemoryWallet(adminAccount, teacherAccount, managerAccount, studentAccount)
	mgr := session.NewManager(session.NewResolver(led), nopLogger{})
	mail := &mockEmail{}

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     nopLogger{},
		Manager:    mgr,
		Wallet:     w,
		GradeSvc:   grade.NewService(led, led, mail),
		UserSvc:    user.NewService(led),
		Validate:   validate,
		Translator: translator,
	})

	return &testApp{srv: srv, conf: conf, led: led, wallet: w, mgr: mgr, mail: mail}
}

// connectAs makes account the active session and returns a token bound to it.
func (app *testApp) connectAs(t *testing.T, account string) string {
	t.Helper()
	if err := app.wallet.SwitchAccount(context.Background(), account); err != nil {
		t.Fatalf("connectAs() failed: %v", err)
	}
	snap, err := app.mgr.SetAccount(context.Background(), account)
	if err != nil {
		t.Fatalf("connectAs() failed: %v", err)
	}
	token, err := GenerateToken(app.conf, sessionClaims(app.conf, *snap.Session))
	if err != nil {
		t.Fatalf("connectAs() failed: %v", err)
	}
	return token
}

func (app *testApp) registerStudent(t *testing.T) {
	t.Helper()
	studentCtx := ledger.WithCaller(context.Background(), studentAccount)
	err := app.led.RegisterUser(studentCtx, user.Registration{
		Name:          "Bob",
		StudentID:     "S001",
		Email:         "bob@test.cd",
		ContactNumber: "+243000000000",
	})
	if err != nil {
		t.Fatalf("registerStudent() failed: %v", err)
	}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v; body: %s", err, rec.Body.String())
	}
}
