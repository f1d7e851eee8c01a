package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/userhub/userhub/internal/auth"
	"github.com/userhub/userhub/internal/config"
	apphttp "github.com/userhub/userhub/internal/http"
	"github.com/userhub/userhub/internal/observability"
	"github.com/userhub/userhub/internal/repo/memory"
)

const testSecret = "test-secret-key"

func testConfig() config.Config {
	return config.Config{
		Env:       "test",
		Port:      0,
		JWTSecret: testSecret,
		TokenTTL:  24 * time.Hour,
		TestMode:  true,
	}
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	return apphttp.NewRouter(logger, testConfig(), memory.NewUsersRepo(), nil, prom, reg)
}

func doRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

// Full register → login → get profile → update profile walk-through
// against the in-memory store.
func TestAccountLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	// register with a mixed-case email

	w := doRequest(router, http.MethodPost, "/api/v1/register",
		`{"login":"alice","password":"Secret123","email":"Alice@Example.Com"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
	}

	mustReadJSON(t, w, &created)

	if created.UserID == "" {
		t.Fatalf("register returned empty user_id")
	}

	// duplicate registration fails

	w = doRequest(router, http.MethodPost, "/api/v1/register",
		`{"login":"alice","password":"Other","email":"other@example.com"}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register got status %d, body=%s", w.Code, w.Body.String())
	}

	// login

	w = doRequest(router, http.MethodPost, "/api/v1/login",
		`{"login":"alice","password":"Secret123"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}

	var loggedIn struct {
		AccessToken string `json:"access_token"`
	}

	mustReadJSON(t, w, &loggedIn)

	if loggedIn.AccessToken == "" {
		t.Fatalf("login returned empty access_token")
	}

	authHeader := map[string]string{"Authorization": "Bearer " + loggedIn.AccessToken}

	// get profile: email was stored lowercased

	w = doRequest(router, http.MethodGet, "/api/v1/profile", "", authHeader)

	if w.Code != http.StatusOK {
		t.Fatalf("get profile got status %d, body=%s", w.Code, w.Body.String())
	}

	var profile struct {
		ID    string  `json:"id"`
		Login string  `json:"login"`
		Email string  `json:"email"`
		Phone *string `json:"phone"`
	}

	mustReadJSON(t, w, &profile)

	if profile.Login != "alice" || profile.Email != "alice@example.com" {
		t.Errorf("profile = %+v", profile)
	}

	if profile.ID != created.UserID {
		t.Errorf("profile id %q does not match registration id %q", profile.ID, created.UserID)
	}

	// update phone only

	w = doRequest(router, http.MethodPut, "/api/v1/profile",
		`{"phone":"+1-555-0100"}`, authHeader)

	if w.Code != http.StatusOK {
		t.Fatalf("update profile got status %d, body=%s", w.Code, w.Body.String())
	}

	mustReadJSON(t, w, &profile)

	if profile.Phone == nil || *profile.Phone != "+1-555-0100" {
		t.Errorf("phone not updated: %+v", profile)
	}

	if profile.Login != "alice" {
		t.Errorf("login changed on update: %+v", profile)
	}

	// an explicit null clears the field again

	w = doRequest(router, http.MethodPut, "/api/v1/profile",
		`{"phone":null}`, authHeader)

	if w.Code != http.StatusOK {
		t.Fatalf("clear phone got status %d, body=%s", w.Code, w.Body.String())
	}

	mustReadJSON(t, w, &profile)

	if profile.Phone != nil {
		t.Errorf("phone not cleared by explicit null: %q", *profile.Phone)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/profile", "", nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401, body=%s", w.Code, w.Body.String())
	}

	// expired token

	expired, err := auth.NewManager(testSecret, -time.Hour).Issue("some-user")

	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/profile", "",
		map[string]string{"Authorization": "Bearer " + expired})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token got status %d, body=%s", w.Code, w.Body.String())
	}

	var body map[string]string
	mustReadJSON(t, w, &body)

	if body["error"] != "Token expired" {
		t.Errorf("error = %q", body["error"])
	}
}

// A valid token whose subject no longer resolves is a 404, not a 401.
func TestProfileUserGone(t *testing.T) {
	router := setupTestRouter(t)

	token, err := auth.NewManager(testSecret, 24*time.Hour).Issue("deleted-user-id")

	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	w := doRequest(router, http.MethodGet, "/api/v1/profile", "",
		map[string]string{"Authorization": "Bearer " + token})

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}

	var body map[string]string
	mustReadJSON(t, w, &body)

	if body["error"] != "User not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestUpdateProfileBadBirthDate(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/register",
		`{"login":"bob","password":"Secret123","email":"bob@example.com"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/api/v1/login",
		`{"login":"bob","password":"Secret123"}`, nil)

	var loggedIn struct {
		AccessToken string `json:"access_token"`
	}

	mustReadJSON(t, w, &loggedIn)

	w = doRequest(router, http.MethodPut, "/api/v1/profile",
		`{"birth_date":"31-12-1990"}`,
		map[string]string{"Authorization": "Bearer " + loggedIn.AccessToken})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var body map[string]string
	mustReadJSON(t, w, &body)

	if body["error"] != "Invalid birth date format. Use YYYY-MM-DD" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var body map[string]string
	mustReadJSON(t, w, &body)

	if body["status"] != "ok" || body["database"] != "connected" {
		t.Errorf("body = %v", body)
	}
}

func TestLoginWrongPasswordAndUnknownLoginLookAlike(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/register",
		`{"login":"carol","password":"Secret123","email":"carol@example.com"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, body=%s", w.Code, w.Body.String())
	}

	wrongPw := doRequest(router, http.MethodPost, "/api/v1/login",
		`{"login":"carol","password":"nope"}`, nil)
	unknown := doRequest(router, http.MethodPost, "/api/v1/login",
		`{"login":"mallory","password":"Secret123"}`, nil)

	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401 for both", wrongPw.Code, unknown.Code)
	}

	if wrongPw.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ, enumeration possible: %s vs %s", wrongPw.Body.String(), unknown.Body.String())
	}
}
