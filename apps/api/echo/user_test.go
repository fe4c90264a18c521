package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/frostwarlord/portal/core/user"
)

func Test_userApi_register(t *testing.T) {
	env := setup(t)
	env.createUser(t, "Existing", "taken@test.cd", "Str0ng!Pass", true, false)

	tests := []httpTest{
		{
			name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "weak password",
			body: []byte(`{"name":"Kai Storm","phone":"+243123456789","email":"kai@test.cd","password":"short","role":"player"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: []byte(`{"name":"Kai Storm","phone":"+243123456789","email":"TAKEN@test.cd","password":"Str0ng!Pass","role":"player"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email already registered"}),
		},
		{
			name: "ok",
			body: []byte(`{"name":"Kai Storm","phone":"+243123456789","email":"kai@test.cd","password":"Str0ng!Pass","role":"player"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/register", tt.body)
			env.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if tt.wantCode == http.StatusCreated {
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("unmarshaling response: %v", err)
				}
				if usr.IsVerified {
					t.Error("new account must start unverified")
				}
				// sensitive fields never leak
				if raw := rec.Body.String(); containsAny(raw, "password_hash", "verification_token", "reset_token") {
					t.Errorf("sensitive fields leaked: %s", raw)
				}
			}
		})
	}
}

func Test_userApi_verifyAndLogin(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	usr, err := env.usrSvc.Register(ctx, user.NewUser{
		Name: "Kai Storm", Phone: "+243123456789", Email: "kai@test.cd", Password: "Str0ng!Pass", Role: "player",
	})
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}

	login := func() *http.Response {
		req, rec := newRequest(http.MethodPost, "/v1/login", []byte(`{"email":"kai@test.cd","password":"Str0ng!Pass"}`))
		env.app.ServeHTTP(rec, req)
		return rec.Result()
	}

	// login before verification is rejected with a distinct message
	req, rec := newRequest(http.MethodPost, "/v1/login", []byte(`{"email":"kai@test.cd","password":"Str0ng!Pass"}`))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "please verify your email before logging in"}),
	}, rec)

	// bad token
	req, rec = newRequest(http.MethodPost, "/v1/verify", []byte(`{"token":"nope"}`))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "invalid or expired token"}),
	}, rec)

	// good token
	stored, err := env.usrRepo.GetUser(ctx, user.GetFilter{Email: "kai@test.cd"})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	req, rec = newRequest(http.MethodPost, "/v1/verify", marchallObj(t, VerifyRequest{Token: stored.VerificationToken}))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify code = %v; body %s", rec.Code, rec.Body.String())
	}

	// token is single-use
	req, rec = newRequest(http.MethodPost, "/v1/verify", marchallObj(t, VerifyRequest{Token: stored.VerificationToken}))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("verify replay code = %v, want 400", rec.Code)
	}

	// wrong creds
	req, rec = newRequest(http.MethodPost, "/v1/login", []byte(`{"email":"kai@test.cd","password":"lol"}`))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
	}, rec)

	// unknown account gets the same generic message as a wrong password
	req, rec = newRequest(http.MethodPost, "/v1/login", []byte(`{"email":"nobody@test.cd","password":"lol"}`))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
	}, rec)

	// ok
	res := login()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login code = %v", res.StatusCode)
	}
	var lr LoginResponse
	if err := json.NewDecoder(res.Body).Decode(&lr); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	if lr.Token == "" {
		t.Error("no token returned")
	}
	if lr.User.ID != usr.ID || lr.User.Email != usr.Email {
		t.Errorf("login user = %+v, want %+v", lr.User, usr)
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.createUser(t, "Kai", "kai@test.cd", "Str0ng!Pass", true, false)

	generic := marchallObj(t, SuccessResponse{
		Success: "If the email address supplied is associated with an account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})

	// known and unknown emails get the identical response
	for _, email := range []string{"kai@test.cd", "nobody@test.cd"} {
		req, rec := newRequest(http.MethodPost, "/v1/forgot-password", marchallObj(t, PasswordResetRequest{Email: email}))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: generic}, rec)
	}

	stored, err := env.usrRepo.GetUser(ctx, user.GetFilter{Email: "kai@test.cd"})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	if stored.ResetToken == "" {
		t.Fatal("no reset token issued")
	}

	req, rec := newRequest(http.MethodPost, "/v1/reset-password",
		marchallObj(t, user.ResetUserPassword{Token: stored.ResetToken, Password: "N3w!Password"}))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, SuccessResponse{Success: "Password has been reset with the new password."}),
	}, rec)

	// old password out, new password in
	if _, err := env.usrSvc.Authenticate(ctx, "kai@test.cd", "Str0ng!Pass"); err != user.ErrNotFound {
		t.Errorf("old password still works; error = %v", err)
	}
	if _, err := env.usrSvc.Authenticate(ctx, "kai@test.cd", "N3w!Password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func Test_userApi_profile(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "Kai", "kai@test.cd", "Str0ng!Pass", true, false)
	token := env.getToken(t, usr)

	// auth required
	req, rec := newRequest(http.MethodGet, "/v1/profile")
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/profile", token)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile code = %v; body %s", rec.Code, rec.Body.String())
	}
	var got user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshaling profile: %v", err)
	}
	if got.ID != usr.ID || got.Email != usr.Email {
		t.Errorf("profile = %+v, want %+v", got, usr)
	}

	req, rec = newAuthRequest(http.MethodPut, "/v1/profile", token,
		[]byte(`{"name":"Kai Prime","phone":"+243987654321","role":"coach","profile_picture":"https://cdn.test.cd/kai.png"}`))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %v; body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshaling updated profile: %v", err)
	}
	if got.Name != "Kai Prime" || got.Role != "coach" {
		t.Errorf("profile not updated: %+v", got)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
