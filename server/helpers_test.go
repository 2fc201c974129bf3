package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/secondbloom/admin-dashboard/internal/config"
	"github.com/secondbloom/admin-dashboard/login"
	"github.com/secondbloom/admin-dashboard/server"
	"github.com/secondbloom/admin-dashboard/sessions/storage"
	"github.com/secondbloom/admin-dashboard/users"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for the marketplace API under /api/v1
type fakeBackend struct {
	t *testing.T

	mu           sync.Mutex
	role         users.RoleType
	accessToken  string
	verifyStatus int
	verifyError  string
	refreshed    string
	otpRequests  []map[string]any
	verifyBodies []map[string]any
	logoutAuth   []string
	refreshCalls int
	patchBodies  []map[string]any
	proxied      []*http.Request
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{t: t, role: users.RoleAdmin, accessToken: "access-1"}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/otp":
		b.otpRequests = append(b.otpRequests, decodeBody(b.t, r))
		writeData(w, map[string]string{"message": "OTP sent"})

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/verify":
		b.verifyBodies = append(b.verifyBodies, decodeBody(b.t, r))
		if b.verifyStatus != 0 {
			writeError(w, b.verifyStatus, b.verifyError)
			return
		}
		writeData(w, map[string]any{
			"user":         b.user(),
			"accessToken":  b.accessToken,
			"refreshToken": "refresh-1",
		})

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/refresh":
		b.refreshCalls++
		writeData(w, map[string]any{
			"user":         b.user(),
			"accessToken":  b.refreshed,
			"refreshToken": "refresh-2",
		})

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/logout":
		b.logoutAuth = append(b.logoutAuth, r.Header.Get("Authorization"))
		writeData(w, map[string]string{"message": "Logged out"})

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/users/"):
		b.patchBodies = append(b.patchBodies, decodeBody(b.t, r))
		writeData(w, b.user())

	default:
		b.proxied = append(b.proxied, r.Clone(r.Context()))
		writeData(w, []string{})
	}
}

func (b *fakeBackend) user() map[string]any {
	return map[string]any{
		"id":          "u-1",
		"phoneNumber": "998901234567",
		"firstName":   "Aziz",
		"lastName":    nil,
		"email":       nil,
		"role":        string(b.role),
		"isActive":    true,
	}
}

func (b *fakeBackend) snapshot(f func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f(b)
}

// decodeBody runs on the backend's goroutine, so failures are reported with Errorf
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	body := map[string]any{}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read backend request: %v", err)
		return body
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode backend request %s: %v", raw, err)
		}
	}
	return body
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": message}})
}

func testConfig(apiBaseURL string) config.Config {
	return config.FromEnvVars(config.EnvVars{
		Port:          "0",
		AppName:       "Second Bloom Admin",
		Env:           "TEST",
		APIBaseURL:    apiBaseURL,
		APITimeout:    5 * time.Second,
		StorageDriver: config.StorageMemory,
		RefreshSkew:   30 * time.Second,
	})
}

func newTestServer(t *testing.T, backendURL string) *server.Server {
	t.Helper()
	srv, err := server.New(testConfig(backendURL+"/api/v1"), storage.NewInMemoryRepo(), login.NewInMemoryRepo(15*time.Minute))
	require.NoError(t, err)
	return srv
}

// browser is an HTTP client with a cookie jar that does not follow redirects
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: ts.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return resp, readBody(b.t, resp)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return resp, readBody(b.t, resp)
}

func (b *browser) cookie(name string) string {
	b.t.Helper()
	u, err := url.Parse(b.base)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (b *browser) setCookie(name, value string) {
	b.t.Helper()
	u, err := url.Parse(b.base)
	require.NoError(b.t, err)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// dropCookie removes a cookie the way the browser does once it expires
func (b *browser) dropCookie(name string) {
	b.t.Helper()
	u, err := url.Parse(b.base)
	require.NoError(b.t, err)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Path: "/", MaxAge: -1}})
	require.Empty(b.t, b.cookie(name))
}

// signIn walks the OTP flow to the dashboard
func (b *browser) signIn() {
	b.t.Helper()
	resp, _ := b.post(server.RouteLoginOTP, url.Values{"phone": {"901234567"}})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = b.post(server.RouteLoginVerify, url.Values{"code": {"123456"}})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.True(b.t, strings.HasPrefix(resp.Header.Get("Location"), server.RouteDashboard), resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func location(t *testing.T, resp *http.Response) string {
	t.Helper()
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return loc.Path
}
