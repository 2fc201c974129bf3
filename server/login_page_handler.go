package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/secondbloom/admin-dashboard/internal/errors"
	"github.com/secondbloom/admin-dashboard/login"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"

	msgOTPSent = "OTP sent successfully!"
	msgWelcome = "Welcome to admin panel!"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName      string
	AwaitingCode bool
	Busy         bool
	PhoneInput   string // Preserve the typed phone on error and after Back
	PhoneNumber  string
	Error        string
	Notice       string
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store := s.openSession(w, r)
		if store.IsAuthenticated() {
			redirectSuccess(w, r, RouteDashboard)
			return
		}

		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Notice:  r.URL.Query().Get("notice"),
		}
		if flowID := loginFlowID(r); flowID != "" {
			flow, err := s.logins.Find(flowID)
			if err != nil {
				clearLoginFlowCookie(w, r)
			} else {
				view := flow.View()
				data.AwaitingCode = view.Step == login.AwaitingCode
				data.Busy = view.Busy
				data.PhoneInput = view.PhoneInput
				data.PhoneNumber = "+" + view.Phone.PhoneNumber
			}
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// SendOTPHandler submits the phone number (POST /login/otp)
func (s *Server) SendOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		flow, started, err := s.logins.FindOrStart(loginFlowID(r))
		if err != nil {
			log.Err(err).Msg("unable to start login flow")
			redirectWithError(w, r, RouteLogin, login.UserMessage(err))
			return
		}
		if started {
			setLoginFlowCookie(w, r, flow.ID(), s.config.GetLoginFlowTTL())
		}

		if err := flow.SubmitPhone(r.Context(), r.FormValue("phone")); err != nil {
			if errors.Is(err, login.ErrInvalidStep) {
				// stale form from before the code step; start over
				s.logins.Discard(flow.ID())
				clearLoginFlowCookie(w, r)
			}
			redirectWithError(w, r, RouteLogin, login.UserMessage(err))
			return
		}
		redirectWithNotice(w, r, RouteLogin, msgOTPSent)
	}
}

// VerifyOTPHandler submits the code and opens the session (POST /login/verify)
func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		flow, err := s.logins.Find(loginFlowID(r))
		if err != nil {
			clearLoginFlowCookie(w, r)
			redirectWithError(w, r, RouteLogin, login.UserMessage(err))
			return
		}

		// a signed-in browser always gets a new store key
		store := s.sessions.OpenFresh(w, r)
		if err := flow.SubmitCode(r.Context(), store, r.FormValue("code")); err != nil {
			if errors.Is(err, login.ErrInvalidStep) {
				s.logins.Discard(flow.ID())
				clearLoginFlowCookie(w, r)
			}
			redirectWithError(w, r, RouteLogin, login.UserMessage(err))
			return
		}

		s.logins.Discard(flow.ID())
		clearLoginFlowCookie(w, r)
		if !store.IsAuthenticated() {
			// backend answered without a complete token pair
			redirectWithError(w, r, RouteLogin, login.MsgVerifyFailed)
			return
		}
		log.Info().Str("userId", store.User().ID).Msg("admin signed in")
		redirectWithNotice(w, r, RouteDashboard, msgWelcome)
	}
}

// LoginBackHandler returns to phone entry (POST /login/back)
func (s *Server) LoginBackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := s.logins.Find(loginFlowID(r))
		if err != nil {
			clearLoginFlowCookie(w, r)
			redirectSuccess(w, r, RouteLogin)
			return
		}
		if err := flow.Back(); err != nil && !errors.Is(err, login.ErrInvalidStep) {
			redirectWithError(w, r, RouteLogin, login.UserMessage(err))
			return
		}
		redirectSuccess(w, r, RouteLogin)
	}
}

// LogoutHandler ends the session (POST /logout). The backend is told first,
// best effort; local state is cleared regardless.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := s.sessions.Open(w, r)

		if token := store.AccessToken(); token != "" {
			if _, err := s.api.Logout(r.Context(), token); err != nil {
				log.Err(err).Msg("Logout: backend logout failed")
			}
		}
		if err := store.Logout(r.Context()); err != nil {
			log.Err(err).Msg("Logout: failed to clear session")
		}
		redirectSuccess(w, r, RouteLogin)
	}
}
