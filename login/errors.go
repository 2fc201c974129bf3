package login

import (
	"github.com/secondbloom/admin-dashboard/apiclient"
	"github.com/secondbloom/admin-dashboard/internal/errors"
)

const (
	MsgSendFailed     = "Failed to send OTP"
	MsgVerifyFailed   = "Invalid OTP code"
	MsgAccessDenied   = "Access denied. Only admins can access this panel."
	MsgPhoneRequired  = "Enter your phone number"
	MsgCodeRequired   = "Enter the 6-digit code"
	MsgRequestPending = "Please wait, your previous request is still in progress"
	MsgFlowExpired    = "Your login attempt expired, please start again"
	MsgSessionFailed  = "Unable to start your session, please try again"
)

var (
	ErrAccessDenied    = errors.ErrAccessDenied
	ErrRequestInFlight = errors.ErrRequestInFlight
	ErrInvalidStep     = errors.ErrInvalidStep
	ErrFlowNotFound    = errors.ErrFlowNotFound
	ErrFlowExpired     = errors.ErrFlowExpired
	ErrPhoneRequired   = errors.New("phone number is required")
	ErrCodeRequired    = errors.New("otp code is required")
)

// FailureError carries the message to show the user alongside the cause
type FailureError struct {
	Message string
	Err     error
}

func (e *FailureError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

func failure(err error, fallback string) *FailureError {
	return &FailureError{Message: apiclient.MessageOr(err, fallback), Err: err}
}

// UserMessage returns the text to flash for err
func UserMessage(err error) string {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe.Message
	}
	switch {
	case errors.Is(err, ErrRequestInFlight):
		return MsgRequestPending
	case errors.Is(err, ErrFlowNotFound), errors.Is(err, ErrFlowExpired), errors.Is(err, ErrInvalidStep):
		return MsgFlowExpired
	default:
		return "Something went wrong, please try again"
	}
}
