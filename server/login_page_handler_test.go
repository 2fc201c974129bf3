package server_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/secondbloom/admin-dashboard/login"
	"github.com/secondbloom/admin-dashboard/server"
	"github.com/secondbloom/admin-dashboard/sessions"
	"github.com/secondbloom/admin-dashboard/users"
	"github.com/stretchr/testify/require"
)

func TestLoginFlow_EndToEnd(t *testing.T) {
	backend, api := newFakeBackend(t)
	b := newBrowser(t, newTestServer(t, api.URL))

	resp, _ := b.get(server.RouteDashboard)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteLogin, location(t, resp))

	resp, body := b.get(server.RouteLogin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `action="/login/otp"`)

	resp, _ = b.post(server.RouteLoginOTP, url.Values{"phone": {"901234567"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteLogin, location(t, resp))
	backend.snapshot(func(b *fakeBackend) {
		require.Len(t, b.otpRequests, 1)
		require.Equal(t, "+998", b.otpRequests[0]["countryCode"])
		require.Equal(t, "998901234567", b.otpRequests[0]["phoneNumber"])
	})

	_, body = b.get(server.RouteLogin)
	require.Contains(t, body, `action="/login/verify"`)
	require.Contains(t, body, "+998901234567")

	resp, _ = b.post(server.RouteLoginVerify, url.Values{"code": {"123456"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, location(t, resp))
	backend.snapshot(func(b *fakeBackend) {
		require.Len(t, b.verifyBodies, 1)
		require.Equal(t, float64(123456), b.verifyBodies[0]["code"])
	})
	require.Equal(t, "access-1", b.cookie(sessions.AccessTokenCookie))
	require.Equal(t, "refresh-1", b.cookie(sessions.RefreshTokenCookie))
	require.NotEmpty(t, b.cookie(sessions.StoreKeyCookie))

	resp, body = b.get(server.RouteDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Welcome back, Aziz")

	resp, _ = b.get(server.RouteLogin)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, location(t, resp))

	resp, _ = b.post(server.RouteLogout, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteLogin, location(t, resp))
	backend.snapshot(func(b *fakeBackend) {
		require.Equal(t, []string{"Bearer access-1"}, b.logoutAuth)
	})
	require.Empty(t, b.cookie(sessions.AccessTokenCookie))
	require.Empty(t, b.cookie(sessions.RefreshTokenCookie))

	resp, _ = b.get(server.RouteDashboard)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteLogin, location(t, resp))
}

func TestLoginFlow_NonAdminIsRefused(t *testing.T) {
	backend, api := newFakeBackend(t)
	backend.role = users.RoleUser
	b := newBrowser(t, newTestServer(t, api.URL))

	b.post(server.RouteLoginOTP, url.Values{"phone": {"+998 90 123 45 67"}})
	for i := 0; i < 2; i++ {
		resp, _ := b.post(server.RouteLoginVerify, url.Values{"code": {"123456"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, server.RouteLogin, location(t, resp))
		require.Contains(t, resp.Header.Get("Location"), url.QueryEscape(login.MsgAccessDenied))
	}
	require.Empty(t, b.cookie(sessions.AccessTokenCookie))

	_, body := b.get(server.RouteLogin)
	require.Contains(t, body, `action="/login/verify"`)

	resp, _ := b.get(server.RouteDashboard)
	require.Equal(t, server.RouteLogin, location(t, resp))
}

func TestLoginFlow_RejectedCodeStaysOnCodeStep(t *testing.T) {
	backend, api := newFakeBackend(t)
	backend.verifyStatus = http.StatusBadRequest
	backend.verifyError = "Invalid or expired code"
	b := newBrowser(t, newTestServer(t, api.URL))

	b.post(server.RouteLoginOTP, url.Values{"phone": {"901234567"}})
	resp, _ := b.post(server.RouteLoginVerify, url.Values{"code": {"000000"}})
	require.Equal(t, server.RouteLogin, location(t, resp))
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "Invalid or expired code", loc.Query().Get("error"))

	_, body := b.get(server.RouteLogin + "?" + loc.RawQuery)
	require.Contains(t, body, `action="/login/verify"`)
	require.Contains(t, body, "Invalid or expired code")
	require.Empty(t, b.cookie(sessions.AccessTokenCookie))
}

func TestLoginFlow_BackKeepsPhone(t *testing.T) {
	_, api := newFakeBackend(t)
	b := newBrowser(t, newTestServer(t, api.URL))

	b.post(server.RouteLoginOTP, url.Values{"phone": {"901234567"}})
	resp, _ := b.post(server.RouteLoginBack, nil)
	require.Equal(t, server.RouteLogin, location(t, resp))

	_, body := b.get(server.RouteLogin)
	require.Contains(t, body, `action="/login/otp"`)
	require.Contains(t, body, `value="901234567"`)
}

func TestLoginFlow_VerifyWithoutFlow(t *testing.T) {
	_, api := newFakeBackend(t)
	b := newBrowser(t, newTestServer(t, api.URL))

	resp, _ := b.post(server.RouteLoginVerify, url.Values{"code": {"123456"}})
	require.Equal(t, server.RouteLogin, location(t, resp))
	require.Contains(t, resp.Header.Get("Location"), "error=")
}

func TestLoginFlow_HTMXGetsHXRedirect(t *testing.T) {
	_, api := newFakeBackend(t)
	b := newBrowser(t, newTestServer(t, api.URL))

	req, err := http.NewRequest(http.MethodPost, b.base+server.RouteLoginOTP, strings.NewReader("phone=901234567"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	resp, err := b.client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("HX-Redirect"), server.RouteLogin+"?notice="))
}

func TestLoginFlow_ExpiredAccessCookieIsRestored(t *testing.T) {
	_, api := newFakeBackend(t)
	b := newBrowser(t, newTestServer(t, api.URL))
	b.signIn()

	b.dropCookie(sessions.AccessTokenCookie)
	resp, _ := b.get(server.RouteDashboard)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteLogin, location(t, resp))

	resp, _ = b.get(server.RouteLogin)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, location(t, resp))
	require.Equal(t, "access-1", b.cookie(sessions.AccessTokenCookie))

	resp, _ = b.get(server.RouteDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b.dropCookie(sessions.AccessTokenCookie)
	resp, _ = b.get(server.RouteIndex)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, location(t, resp))
	require.Equal(t, "access-1", b.cookie(sessions.AccessTokenCookie))
}

func TestLoginFlow_StoreKeyRotatedOnSignIn(t *testing.T) {
	_, api := newFakeBackend(t)
	srv := newTestServer(t, api.URL)

	b := newBrowser(t, srv)
	b.setCookie(sessions.StoreKeyCookie, "planted-key")
	b.signIn()
	key := b.cookie(sessions.StoreKeyCookie)
	require.NotEmpty(t, key)
	require.NotEqual(t, "planted-key", key)

	resp, _ := b.get(server.RouteDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// whoever planted the old key gets nothing from it
	other := newBrowser(t, srv)
	other.setCookie(sessions.StoreKeyCookie, "planted-key")
	other.setCookie(sessions.AccessTokenCookie, "access-1")
	resp, _ = other.get(server.RouteDashboard)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteLogin, location(t, resp))
}
