package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/blog"
	"github.com/frostwarlord/portal/core/chat"
	"github.com/frostwarlord/portal/core/event"
	"github.com/frostwarlord/portal/core/match"
	"github.com/frostwarlord/portal/core/upload"
	"github.com/frostwarlord/portal/core/user"
	emailsvc "github.com/frostwarlord/portal/services/email"
	dummydb "github.com/frostwarlord/portal/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app     Server
	conf    *core.Config
	usrRepo user.Repository
	usrSvc  user.Service
}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{
		AppName:               "portal",
		TestMode:              true,
		SecretKey:             []byte("secret"),
		FrontendBaseURL:       "http://localhost:3000",
		DefaultFromEmail:      mail.Address{Name: "portal", Address: "noreply@test.cd"},
		VerificationTokenTTL:  24 * time.Hour,
		PasswordResetTokenTTL: time.Hour,
		ChatHistoryLimit:      50,
		Server: core.ServerConfig{
			JWTExpirationDelta: 10 * time.Minute,
		},
	}
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := testConfig()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}

	usrRepo := dummydb.NewUserRepository(db)
	blogRepo := dummydb.NewBlogRepository(db)
	eventRepo := dummydb.NewEventRepository(db)
	matchRepo := dummydb.NewMatchRepository(db)
	uploadRepo := dummydb.NewUploadRepository(db)
	chatRepo := dummydb.NewChatRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testLogger{},
		UserSvc:    usrSvc,
		BlogSvc:    blog.NewService(blogRepo),
		EventSvc:   event.NewService(eventRepo),
		MatchSvc:   match.NewService(matchRepo),
		UploadSvc:  upload.NewService(uploadRepo),
		ChatSvc:    chat.NewService(chatRepo, conf),
		Validate:   validate,
		Translator: translator,
	})

	return &testEnv{app: app, conf: conf, usrRepo: usrRepo, usrSvc: usrSvc}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// createUser seeds a user directly at the repo, bypassing the email round-trip.
func (env *testEnv) createUser(t *testing.T, name, email, pwd string, verified, isAdmin bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:       name,
		Phone:      "+243123456789",
		Email:      email,
		Role:       "player",
		IsVerified: verified,
		IsAdmin:    isAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(env.conf, GetUserClaims(env.conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
