package alertapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"visaslot/cmd/internal/alert"
	authapi "visaslot/cmd/internal/auth/api"
	"visaslot/cmd/internal/auth/token"
)

type envelope struct {
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Code      string          `json:"code"`
	RawErrors []string        `json:"rawErrors"`
}

func testServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	cfg := token.DefaultConfig()
	cfg.AccessSecret = []byte("access-secret-for-tests-0123456789")
	cfg.RefreshSecret = []byte("refresh-secret-for-tests-0123456789")
	codec, err := token.NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := alert.NewMemoryStore()
	svc := alert.NewService(log, store, nil)

	mux := http.NewServeMux()
	NewHandler(log, 1<<20, svc, alert.NewPaginator(store)).
		Register(mux, authapi.RequireAuth(codec))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	access, _, err := codec.IssueAccess("user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	return srv, access
}

func doJSON(t *testing.T, method, url, bearer, body string) (int, envelope) {
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
	return resp.StatusCode, env
}

func createAlert(t *testing.T, srv *httptest.Server, access, country string) alert.Alert {
	t.Helper()

	status, env := doJSON(t, http.MethodPost, srv.URL+"/alerts", access,
		`{"country":"`+country+`","city":"Berlin","visaType":"Tourist"}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	var a alert.Alert
	if err := json.Unmarshal(env.Data, &a); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return a
}

func TestAlertsRequireAuth(t *testing.T) {
	srv, _ := testServer(t)

	status, env := doJSON(t, http.MethodGet, srv.URL+"/alerts", "", "")
	if status != http.StatusUnauthorized || env.Code != "ACCESS_TOKEN_MISSING" {
		t.Fatalf("status=%d code=%q", status, env.Code)
	}
}

func TestCreateAlertEndpoint(t *testing.T) {
	srv, access := testServer(t)

	a := createAlert(t, srv, access, "Germany")
	if a.ID == "" || a.Status != alert.StatusActive {
		t.Fatalf("alert = %+v", a)
	}

	status, env := doJSON(t, http.MethodPost, srv.URL+"/alerts", access,
		`{"country":"","city":"","visaType":"Diplomatic"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("validation status = %d", status)
	}
	if len(env.RawErrors) != 3 {
		t.Fatalf("rawErrors = %v", env.RawErrors)
	}
}

func TestListAlertsEndpoint(t *testing.T) {
	srv, access := testServer(t)
	for i := 0; i < 12; i++ {
		createAlert(t, srv, access, "Germany")
	}

	status, env := doJSON(t, http.MethodGet, srv.URL+"/alerts", access, "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}

	var page struct {
		Items      []alert.Alert `json:"items"`
		NextCursor *string       `json:"nextCursor"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(page.Items) != alert.DefaultLimit || page.NextCursor == nil {
		t.Fatalf("page: items=%d cursor=%v", len(page.Items), page.NextCursor)
	}

	status, env = doJSON(t, http.MethodGet,
		srv.URL+"/alerts?limit=100&cursor="+*page.NextCursor, access, "")
	if status != http.StatusOK {
		t.Fatalf("second page status = %d", status)
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(page.Items) != 2 || page.NextCursor != nil {
		t.Fatalf("second page: items=%d cursor=%v", len(page.Items), page.NextCursor)
	}
}

func TestListAlertsLimitValidation(t *testing.T) {
	srv, access := testServer(t)

	for _, limit := range []string{"0", "101", "-5"} {
		status, _ := doJSON(t, http.MethodGet, srv.URL+"/alerts?limit="+limit, access, "")
		if status != http.StatusBadRequest {
			t.Fatalf("limit %s: status = %d", limit, status)
		}
	}

	status, _ := doJSON(t, http.MethodGet, srv.URL+"/alerts?limit=abc", access, "")
	if status != http.StatusBadRequest {
		t.Fatalf("non-numeric limit: status = %d", status)
	}

	for _, limit := range []string{"1", "100"} {
		status, _ := doJSON(t, http.MethodGet, srv.URL+"/alerts?limit="+limit, access, "")
		if status != http.StatusOK {
			t.Fatalf("limit %s: status = %d", limit, status)
		}
	}
}

func TestListAlertsUnknownCursor(t *testing.T) {
	srv, access := testServer(t)
	createAlert(t, srv, access, "Germany")

	status, env := doJSON(t, http.MethodGet, srv.URL+"/alerts?cursor=no-such-alert", access, "")
	if status != http.StatusBadRequest || env.Code != "INVALID_CURSOR" {
		t.Fatalf("status=%d code=%q", status, env.Code)
	}
}

func TestUpdateAlertEndpoint(t *testing.T) {
	srv, access := testServer(t)
	a := createAlert(t, srv, access, "Germany")

	status, env := doJSON(t, http.MethodPut, srv.URL+"/alerts/"+a.ID, access,
		`{"status":"Booked"}`)
	if status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	var updated alert.Alert
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if updated.Status != alert.StatusBooked {
		t.Fatalf("status = %q", updated.Status)
	}

	status, _ = doJSON(t, http.MethodPut, srv.URL+"/alerts/"+a.ID, access,
		`{"status":"Paused"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("bad status: status = %d", status)
	}

	status, _ = doJSON(t, http.MethodPut, srv.URL+"/alerts/missing", access,
		`{"status":"Expired"}`)
	if status != http.StatusNotFound {
		t.Fatalf("missing alert: status = %d", status)
	}
}

func TestDeleteAlertEndpoint(t *testing.T) {
	srv, access := testServer(t)
	a := createAlert(t, srv, access, "Germany")

	status, env := doJSON(t, http.MethodDelete, srv.URL+"/alerts/"+a.ID, access, "")
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	var deleted alert.Alert
	if err := json.Unmarshal(env.Data, &deleted); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if deleted.ID != a.ID {
		t.Fatalf("deleted %q, want %q", deleted.ID, a.ID)
	}

	status, _ = doJSON(t, http.MethodDelete, srv.URL+"/alerts/"+a.ID, access, "")
	if status != http.StatusNotFound {
		t.Fatalf("second delete: status = %d", status)
	}
}
