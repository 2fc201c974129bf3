package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/secondbloom/admin-dashboard/sessions"
)

// loginFlowCookie carries the id of the browser's login flow
const loginFlowCookie = "login_flow"

func setLoginFlowCookie(w http.ResponseWriter, r *http.Request, flowID string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     loginFlowCookie,
		Value:    flowID,
		Path:     RouteLogin,
		HttpOnly: true,
		Secure:   sessions.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func clearLoginFlowCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     loginFlowCookie,
		Value:    "",
		Path:     RouteLogin,
		HttpOnly: true,
		Secure:   sessions.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func loginFlowID(r *http.Request) string {
	cookie, err := r.Cookie(loginFlowCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, path+"?error="+url.QueryEscape(errorMsg))
}

// redirectWithNotice redirects with a transient success message
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	redirectSuccess(w, r, path+"?notice="+url.QueryEscape(notice))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
