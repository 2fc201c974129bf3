package apiclient

import (
	"context"
	"net/http"

	"github.com/secondbloom/admin-dashboard/users"
)

type SendOTPRequest struct {
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

// VerifyOTPRequest sends the code as a JSON number, as the backend expects.
type VerifyOTPRequest struct {
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
	Code        int    `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse is returned by verify and refresh
type AuthResponse struct {
	User         users.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	IsNewUser    *bool      `json:"isNewUser,omitempty"`
}

const (
	pathAuthOTP     = "/auth/otp"
	pathAuthVerify  = "/auth/verify"
	pathAuthLogout  = "/auth/logout"
	pathAuthRefresh = "/auth/refresh"
)

// SendOTP asks the backend to send a one-time code to the phone number
func (c *Client) SendOTP(ctx context.Context, req SendOTPRequest) (MessageResponse, error) {
	return call[MessageResponse](ctx, c, http.MethodPost, pathAuthOTP, "", req)
}

// VerifyOTP exchanges a code for a user and token pair
func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (AuthResponse, error) {
	return call[AuthResponse](ctx, c, http.MethodPost, pathAuthVerify, "", req)
}

// Logout invalidates the session server side
func (c *Client) Logout(ctx context.Context, accessToken string) (MessageResponse, error) {
	return call[MessageResponse](ctx, c, http.MethodPost, pathAuthLogout, accessToken, nil)
}

// RefreshToken issues a new token pair
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error) {
	return call[AuthResponse](ctx, c, http.MethodPost, pathAuthRefresh, "", RefreshRequest{RefreshToken: refreshToken})
}
