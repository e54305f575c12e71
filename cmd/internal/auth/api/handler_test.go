package authapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"visaslot/cmd/identity"
	"visaslot/cmd/internal/auth/session"
	"visaslot/cmd/internal/auth/token"
)

type envelope struct {
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Code      string          `json:"code"`
	RawErrors []string        `json:"rawErrors"`
}

func testServer(t *testing.T) (*httptest.Server, *token.Codec) {
	t.Helper()

	cfg := token.DefaultConfig()
	cfg.AccessSecret = []byte("access-secret-for-tests-0123456789")
	cfg.RefreshSecret = []byte("refresh-secret-for-tests-0123456789")

	codec, err := token.NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewService(log, codec, identity.NewMemoryStore(), session.NewMemoryStore())

	mux := http.NewServeMux()
	NewHandler(log, 1<<20, codec, sessions).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, codec
}

func doJSON(t *testing.T, method, url, bearer, body string) (int, envelope, string) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal %q: %v", raw, err)
		}
	}
	return resp.StatusCode, env, string(raw)
}

type authPayload struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"tokens"`
}

func registerUser(t *testing.T, srv *httptest.Server, email string) authPayload {
	t.Helper()

	status, env, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		`{"email":"`+email+`","name":"Asha","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}

	var p authPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return p
}

func TestRegisterEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	status, env, raw := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		`{"email":"asha@example.com","name":"Asha","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %s", status, raw)
	}
	if env.Message != "User registered successfully" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	// The password hash must never appear in any response shape.
	if strings.Contains(strings.ToLower(raw), "passwordhash") || strings.Contains(raw, "$2a$") {
		t.Fatalf("response leaked credentials: %s", raw)
	}

	// Duplicate email.
	status, env, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		`{"email":"asha@example.com","password":"secret1"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d", status)
	}
	if len(env.RawErrors) == 0 {
		t.Fatalf("expected rawErrors detail")
	}

	// Weak password.
	status, _, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		`{"email":"x@example.com","password":"five5"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("weak password status = %d", status)
	}
}

func TestLoginEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	registerUser(t, srv, "asha@example.com")

	status, env, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		`{"email":"nobody@example.com","password":"secret1"}`)
	if status != http.StatusNotFound || env.Code != "USER_NOT_FOUND" {
		t.Fatalf("missing user: status=%d code=%q", status, env.Code)
	}

	status, _, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		`{"email":"asha@example.com","password":"wrong-pass"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", status)
	}

	status, env, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		`{"email":"asha@example.com","password":"secret1"}`)
	if status != http.StatusOK || env.Message != "Login successful" {
		t.Fatalf("login: status=%d message=%q", status, env.Message)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	p := registerUser(t, srv, "asha@example.com")

	status, env, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/refresh-token", "", `{}`)
	if status != http.StatusBadRequest || env.Code != "REFRESH_TOKEN_MISSING" {
		t.Fatalf("missing token: status=%d code=%q", status, env.Code)
	}

	status, env, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/refresh-token", "",
		`{"refreshToken":"garbage"}`)
	if status != http.StatusUnauthorized || env.Code != "REFRESH_TOKEN_INVALID" {
		t.Fatalf("garbage token: status=%d code=%q", status, env.Code)
	}

	// First rotation succeeds.
	status, env, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/refresh-token", "",
		`{"refreshToken":"`+p.Tokens.RefreshToken+`"}`)
	if status != http.StatusOK {
		t.Fatalf("refresh status = %d", status)
	}
	var rotated authPayload
	if err := json.Unmarshal(env.Data, &rotated); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}

	// The rotated-out token is revoked.
	status, env, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/refresh-token", "",
		`{"refreshToken":"`+p.Tokens.RefreshToken+`"}`)
	if status != http.StatusUnauthorized || env.Code != "REFRESH_TOKEN_REVOKED" {
		t.Fatalf("reused token: status=%d code=%q", status, env.Code)
	}

	// The replacement still works.
	status, _, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/refresh-token", "",
		`{"refreshToken":"`+rotated.Tokens.RefreshToken+`"}`)
	if status != http.StatusOK {
		t.Fatalf("rotated refresh status = %d", status)
	}
}

func TestRefreshExpiredCode(t *testing.T) {
	srv, codec := testServer(t)
	p := registerUser(t, srv, "asha@example.com")

	expired, _, err := codec.IssueRefresh(p.User.ID, time.Now().UTC().Add(-8*24*time.Hour))
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	status, env, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/refresh-token", "",
		`{"refreshToken":"`+expired+`"}`)
	if status != http.StatusUnauthorized || env.Code != "REFRESH_TOKEN_EXPIRED" {
		t.Fatalf("expired token: status=%d code=%q", status, env.Code)
	}
}

func TestProfileEndpoints(t *testing.T) {
	srv, codec := testServer(t)
	p := registerUser(t, srv, "asha@example.com")

	status, env, _ := doJSON(t, http.MethodGet, srv.URL+"/auth/profile", "", "")
	if status != http.StatusUnauthorized || env.Code != "ACCESS_TOKEN_MISSING" {
		t.Fatalf("no bearer: status=%d code=%q", status, env.Code)
	}

	expired, _, err := codec.IssueAccess(p.User.ID, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	status, env, _ = doJSON(t, http.MethodGet, srv.URL+"/auth/profile", expired, "")
	if status != http.StatusUnauthorized || env.Code != "ACCESS_TOKEN_EXPIRED" {
		t.Fatalf("expired bearer: status=%d code=%q", status, env.Code)
	}

	status, env, _ = doJSON(t, http.MethodGet, srv.URL+"/auth/profile", "garbage", "")
	if status != http.StatusUnauthorized || env.Code != "ACCESS_TOKEN_INVALID" {
		t.Fatalf("garbage bearer: status=%d code=%q", status, env.Code)
	}

	status, env, _ = doJSON(t, http.MethodGet, srv.URL+"/auth/profile", p.Tokens.AccessToken, "")
	if status != http.StatusOK {
		t.Fatalf("profile status = %d", status)
	}
	var user struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if user.Email != "asha@example.com" {
		t.Fatalf("unexpected profile %s", env.Data)
	}

	status, env, _ = doJSON(t, http.MethodPut, srv.URL+"/auth/profile", p.Tokens.AccessToken,
		`{"name":"Asha K"}`)
	if status != http.StatusOK {
		t.Fatalf("update profile status = %d", status)
	}
	var updated struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if updated.Name != "Asha K" {
		t.Fatalf("expected updated name, got %s", env.Data)
	}
}

func TestChangePasswordEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	p := registerUser(t, srv, "asha@example.com")

	status, _, _ := doJSON(t, http.MethodPut, srv.URL+"/auth/change-password", p.Tokens.AccessToken,
		`{"currentPassword":"secret1","newPassword":"five5"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("weak password status = %d", status)
	}

	status, _, _ = doJSON(t, http.MethodPut, srv.URL+"/auth/change-password", p.Tokens.AccessToken,
		`{"currentPassword":"wrong","newPassword":"newsecret"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong current status = %d", status)
	}

	status, _, _ = doJSON(t, http.MethodPut, srv.URL+"/auth/change-password", p.Tokens.AccessToken,
		`{"currentPassword":"secret1","newPassword":"newsecret"}`)
	if status != http.StatusOK {
		t.Fatalf("change password status = %d", status)
	}

	status, _, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		`{"email":"asha@example.com","password":"newsecret"}`)
	if status != http.StatusOK {
		t.Fatalf("login with new password status = %d", status)
	}
}

func TestLogoutEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	p := registerUser(t, srv, "asha@example.com")

	status, _, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/logout", p.Tokens.AccessToken,
		`{"refreshToken":"`+p.Tokens.RefreshToken+`"}`)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d", status)
	}

	status, env, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/refresh-token", "",
		`{"refreshToken":"`+p.Tokens.RefreshToken+`"}`)
	if status != http.StatusUnauthorized || env.Code != "REFRESH_TOKEN_REVOKED" {
		t.Fatalf("refresh after logout: status=%d code=%q", status, env.Code)
	}
}
