package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/tinylink/pkg/tinylink/auth"
	"github.com/mikepea/tinylink/pkg/tinylink/config"
	"github.com/mikepea/tinylink/pkg/tinylink/database"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(":memory:", database.Options{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Bootstrap(context.Background(), db, "links"); err != nil {
		t.Fatalf("Failed to bootstrap database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:        "0",
		BaseURL:     "http://sho.rt",
		LinksTable:  "links",
		WebDistPath: filepath.Join(t.TempDir(), "missing"),
		CORSOrigins: []string{"*"},
		JWTSecret:   "test-secret",
		CacheTTL:    time.Minute,
	}
}

// setupFullServer creates a Gin engine with all routes registered
// This mirrors the setup in cmd/tinylink-server/main.go
func setupFullServer(t *testing.T, cfg *config.Config, db *gorm.DB) http.Handler {
	gin.SetMode(gin.TestMode)
	srv, err := New(cfg, db, nil)
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}
	return srv.Handler()
}

func do(router http.Handler, method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBody)
	} else {
		buf = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// TestServerStartup verifies that all routes can be registered without conflicts
func TestServerStartup(t *testing.T) {
	db := setupTestDB(t)

	cfg := testConfig(t)
	cfg.WebDistPath = writeDist(t)
	cfg.CreateRateLimit = "100-M"
	cfg.AdminPassword, _ = auth.HashPassword("pw")

	// This will panic if there are route conflicts
	if router := setupFullServer(t, cfg, db); router == nil {
		t.Fatal("Expected router to be created")
	}
}

func TestInvalidRateLimitFailsStartup(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig(t)
	cfg.CreateRateLimit = "sometimes"

	if _, err := New(cfg, db, nil); err == nil {
		t.Error("Expected invalid rate limit to fail router construction")
	}
}

func TestAuthWithoutSecretFailsStartup(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig(t)
	cfg.AdminPassword, _ = auth.HashPassword("pw")
	cfg.JWTSecret = ""

	if _, err := New(cfg, db, nil); !errors.Is(err, config.ErrMissingJWTSecret) {
		t.Errorf("Expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(t, testConfig(t), db)

	for _, path := range []string{"/healthz", "/api/health"} {
		resp := do(router, "GET", path, nil)
		if resp.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, resp.Code)
		}

		var response map[string]interface{}
		json.Unmarshal(resp.Body.Bytes(), &response)
		if response["ok"] != true {
			t.Errorf("%s: expected ok=true, got %v", path, response["ok"])
		}
		if response["version"] == "" || response["version"] == nil {
			t.Errorf("%s: expected a version", path)
		}
	}
}

func TestLinkLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(t, testConfig(t), db)

	resp := do(router, "POST", "/api/links", map[string]string{"url": "https://example.com/docs", "code": "docs123"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &created)
	if created["shortUrl"] != "http://sho.rt/docs123" {
		t.Errorf("Unexpected shortUrl %v", created["shortUrl"])
	}

	before := time.Now().Add(-time.Second)
	resp = do(router, "GET", "/docs123", nil)
	if resp.Code != http.StatusFound {
		t.Fatalf("Redirect: expected 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "https://example.com/docs" {
		t.Errorf("Redirect: expected Location https://example.com/docs, got %s", loc)
	}

	resp = do(router, "GET", "/api/links/docs123", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Stats: expected 200, got %d", resp.Code)
	}
	var stats struct {
		Clicks      int64      `json:"clicks"`
		LastClicked *time.Time `json:"lastClicked"`
	}
	json.Unmarshal(resp.Body.Bytes(), &stats)
	if stats.Clicks != 1 {
		t.Errorf("Stats: expected 1 click, got %d", stats.Clicks)
	}
	if stats.LastClicked == nil || stats.LastClicked.Before(before) {
		t.Errorf("Stats: expected lastClicked after %v, got %v", before, stats.LastClicked)
	}

	resp = do(router, "DELETE", "/api/links/docs123", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Delete: expected 200, got %d", resp.Code)
	}

	if resp = do(router, "GET", "/api/links/docs123", nil); resp.Code != http.StatusNotFound {
		t.Errorf("Stats after delete: expected 404, got %d", resp.Code)
	}
	if resp = do(router, "GET", "/docs123", nil); resp.Code != http.StatusNotFound {
		t.Errorf("Redirect after delete: expected 404, got %d", resp.Code)
	}
}

func TestReservedPathsDoNotRedirect(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(t, testConfig(t), db)

	if resp := do(router, "GET", "/api", nil); resp.Code != http.StatusNotFound {
		t.Errorf("/api: expected 404, got %d", resp.Code)
	}
	if resp := do(router, "GET", "/healthz", nil); resp.Code != http.StatusOK {
		t.Errorf("/healthz: expected 200, got %d", resp.Code)
	}
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig(t)
	cfg.WebDistPath = writeDist(t)
	router := setupFullServer(t, cfg, db)

	resp := do(router, "GET", "/api/nope/deeper", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.Code)
	}
	var response map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &response); err != nil || response["error"] == "" {
		t.Errorf("Expected JSON error body, got %s", resp.Body.String())
	}
}

// writeDist creates a minimal dashboard build
func writeDist(t *testing.T) string {
	dist := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dist, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dist, "index.html"), []byte("<html>dashboard</html>"), 0o644)
	os.WriteFile(filepath.Join(dist, "assets", "app.js"), []byte("console.log('hi')"), 0o644)
	return dist
}

func TestFrontendFallback(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig(t)
	cfg.WebDistPath = writeDist(t)
	router := setupFullServer(t, cfg, db)

	for _, path := range []string{"/", "/code/abc123", "/some/nested/page"} {
		resp := do(router, "GET", path, nil)
		if resp.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.Code)
			continue
		}
		if body := resp.Body.String(); body != "<html>dashboard</html>" {
			t.Errorf("%s: expected index.html, got %q", path, body)
		}
	}

	resp := do(router, "GET", "/assets/app.js", nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected asset to be served, got %d", resp.Code)
	}

	// Single-segment paths are still short codes
	if resp := do(router, "GET", "/nosuch1", nil); resp.Code != http.StatusNotFound {
		t.Errorf("Expected unknown code to 404, got %d", resp.Code)
	}
}

func TestAuthEnabled(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig(t)
	cfg.AdminPassword, _ = auth.HashPassword("let-me-in")
	router := setupFullServer(t, cfg, db)

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/links"},
		{"POST", "/api/links"},
		{"GET", "/api/links/abc123"},
		{"DELETE", "/api/links/abc123"},
		{"GET", "/api/export"},
		{"POST", "/api/import"},
	}
	for _, endpoint := range protected {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			resp := do(router, endpoint.method, endpoint.path, nil)
			if resp.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", resp.Code)
			}
		})
	}

	resp := do(router, "POST", "/api/auth/login", map[string]string{"password": "let-me-in"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Login: expected 200, got %d", resp.Code)
	}
	var token auth.TokenResponse
	json.Unmarshal(resp.Body.Bytes(), &token)

	resp = do(router, "POST", "/api/links", map[string]string{"url": "https://example.com", "code": "authed1"},
		"Authorization", "Bearer "+token.Token)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create with token: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// Redirects and health stay public
	if resp := do(router, "GET", "/authed1", nil); resp.Code != http.StatusFound {
		t.Errorf("Redirect: expected 302, got %d", resp.Code)
	}
	if resp := do(router, "GET", "/healthz", nil); resp.Code != http.StatusOK {
		t.Errorf("Health: expected 200, got %d", resp.Code)
	}
}

func TestAuthDisabledByDefault(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(t, testConfig(t), db)

	if resp := do(router, "GET", "/api/links", nil); resp.Code != http.StatusOK {
		t.Errorf("Expected open API, got %d", resp.Code)
	}
	if resp := do(router, "POST", "/api/auth/login", map[string]string{"password": "x"}); resp.Code == http.StatusOK {
		t.Error("Login should not be available when auth is disabled")
	}
}

func TestCreateRateLimited(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig(t)
	cfg.CreateRateLimit = "2-M"
	router := setupFullServer(t, cfg, db)

	for i := 0; i < 2; i++ {
		resp := do(router, "POST", "/api/links", map[string]string{"url": "https://example.com"})
		if resp.Code != http.StatusCreated {
			t.Fatalf("Request %d: expected 201, got %d", i, resp.Code)
		}
	}
	if resp := do(router, "POST", "/api/links", map[string]string{"url": "https://example.com"}); resp.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", resp.Code)
	}

	// Listing is not limited
	if resp := do(router, "GET", "/api/links", nil); resp.Code != http.StatusOK {
		t.Errorf("Expected list to stay available, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(t, testConfig(t), db)

	req, _ := http.NewRequest("OPTIONS", "/api/links", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin *, got %q", got)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig(t)
	srv, err := New(cfg, db, nil)
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down")
	}
}
