// Package login drives the two-step OTP sign in: request a code for a phone
// number, then verify the code and open an admin session.
package login

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/secondbloom/admin-dashboard/apiclient"
	"github.com/secondbloom/admin-dashboard/users"
)

// Step is the position of a Flow
type Step int

const (
	AwaitingPhone Step = iota
	AwaitingCode
)

func (s Step) String() string {
	switch s {
	case AwaitingPhone:
		return "awaiting_phone"
	case AwaitingCode:
		return "awaiting_code"
	default:
		return "unknown"
	}
}

// AuthAPI is the part of the backend the flow talks to
type AuthAPI interface {
	SendOTP(ctx context.Context, req apiclient.SendOTPRequest) (apiclient.MessageResponse, error)
	VerifyOTP(ctx context.Context, req apiclient.VerifyOTPRequest) (apiclient.AuthResponse, error)
}

// SessionSetter receives the session once an admin is verified
type SessionSetter interface {
	SetAuth(ctx context.Context, user users.User, accessToken, refreshToken string) error
	Logout(ctx context.Context) error
}

// Flow is one browser's login attempt. A flow only moves on an explicit submit
// and allows one outstanding backend call at a time.
type Flow struct {
	mu         sync.Mutex
	id         string
	api        AuthAPI
	step       Step
	phoneInput string
	code       string
	inFlight   bool
	finished   bool
	createdAt  time.Time
}

// View is a point-in-time copy of a flow for rendering
type View struct {
	ID         string
	Step       Step
	PhoneInput string
	Phone      Phone
	Code       string
	Busy       bool
	Finished   bool
}

func NewFlow(id string, api AuthAPI, now time.Time) *Flow {
	return &Flow{
		id:        id,
		api:       api,
		step:      AwaitingPhone,
		createdAt: now,
	}
}

func (f *Flow) ID() string {
	return f.id
}

func (f *Flow) CreatedAt() time.Time {
	return f.createdAt
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{
		ID:         f.id,
		Step:       f.step,
		PhoneInput: f.phoneInput,
		Phone:      NormalizePhone(f.phoneInput),
		Code:       f.code,
		Busy:       f.inFlight,
		Finished:   f.finished,
	}
}

// begin claims the flow for one backend call made from step want
func (f *Flow) begin(want Step) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrRequestInFlight
	}
	if f.finished || f.step != want {
		return ErrInvalidStep
	}
	f.inFlight = true
	return nil
}

// SubmitPhone requests an OTP for raw. On success the flow awaits the code;
// on failure it stays where it is.
func (f *Flow) SubmitPhone(ctx context.Context, raw string) error {
	phone := NormalizePhone(raw)
	if phone.PhoneNumber == "" {
		return &FailureError{Message: MsgPhoneRequired, Err: ErrPhoneRequired}
	}
	if err := f.begin(AwaitingPhone); err != nil {
		return err
	}

	_, err := f.api.SendOTP(ctx, apiclient.SendOTPRequest{
		CountryCode: phone.CountryCode,
		PhoneNumber: phone.PhoneNumber,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	f.phoneInput = raw
	if err != nil {
		log.Info().Err(err).Str("flow", f.id).Msg("otp request failed")
		return failure(err, MsgSendFailed)
	}
	f.code = ""
	f.step = AwaitingCode
	return nil
}

// SubmitCode verifies raw against the phone entered earlier. Only an admin gets a
// session; anyone else is refused with ErrAccessDenied and the flow keeps waiting
// for a code.
func (f *Flow) SubmitCode(ctx context.Context, store SessionSetter, raw string) error {
	code := SanitizeCode(raw)
	if code == "" {
		return &FailureError{Message: MsgCodeRequired, Err: ErrCodeRequired}
	}
	numeric, err := strconv.Atoi(code)
	if err != nil {
		return &FailureError{Message: MsgVerifyFailed, Err: err}
	}
	if err := f.begin(AwaitingCode); err != nil {
		return err
	}

	f.mu.Lock()
	f.code = code
	phone := NormalizePhone(f.phoneInput)
	f.mu.Unlock()

	resp, err := f.api.VerifyOTP(ctx, apiclient.VerifyOTPRequest{
		CountryCode: phone.CountryCode,
		PhoneNumber: phone.PhoneNumber,
		Code:        numeric,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		log.Info().Err(err).Str("flow", f.id).Msg("otp verification failed")
		return failure(err, MsgVerifyFailed)
	}
	if !resp.User.IsAdmin() {
		log.Warn().Str("userId", resp.User.ID).Str("role", string(resp.User.Role)).Msg("non-admin login refused")
		return &FailureError{Message: MsgAccessDenied, Err: ErrAccessDenied}
	}
	if err := store.SetAuth(ctx, resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		log.Err(err).Str("flow", f.id).Msg("unable to persist session")
		// drop whatever part of the session did get written
		if err := store.Logout(ctx); err != nil {
			log.Err(err).Str("flow", f.id).Msg("unable to roll back session")
		}
		return &FailureError{Message: MsgSessionFailed, Err: err}
	}
	f.finished = true
	return nil
}

// Back returns to phone entry, dropping the code and keeping the phone input.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrRequestInFlight
	}
	if f.step != AwaitingCode {
		return ErrInvalidStep
	}
	f.step = AwaitingPhone
	f.code = ""
	return nil
}
