package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/secondbloom/admin-dashboard/apiclient"
	"github.com/secondbloom/admin-dashboard/internal/errors"
	"github.com/secondbloom/admin-dashboard/internal/utils"
	"github.com/secondbloom/admin-dashboard/users"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL+"/", time.Second)
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_SendOTP(t *testing.T) {
	var got apiclient.SendOTPRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/otp", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(t, w, http.StatusOK, map[string]any{"data": map[string]string{"message": "OTP sent"}})
	})

	resp, err := c.SendOTP(context.Background(), apiclient.SendOTPRequest{CountryCode: "+998", PhoneNumber: "998901234567"})
	require.NoError(t, err)
	require.Equal(t, "OTP sent", resp.Message)
	require.Equal(t, "998901234567", got.PhoneNumber)
	require.Equal(t, "+998", got.CountryCode)
}

func TestClient_VerifyOTP(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(123456), body["code"])
		writeEnvelope(t, w, http.StatusOK, map[string]any{"data": map[string]any{
			"user":         map[string]any{"id": "u1", "phoneNumber": "998901234567", "firstName": nil, "role": "ADMIN", "isActive": true},
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
		}})
	})

	resp, err := c.VerifyOTP(context.Background(), apiclient.VerifyOTPRequest{CountryCode: "+998", PhoneNumber: "998901234567", Code: 123456})
	require.NoError(t, err)
	require.Equal(t, "u1", resp.User.ID)
	require.Equal(t, users.RoleAdmin, resp.User.Role)
	require.Nil(t, resp.User.FirstName)
	require.Equal(t, "access-1", resp.AccessToken)
	require.Equal(t, "refresh-1", resp.RefreshToken)
	require.Nil(t, resp.IsNewUser)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	t.Run("message extracted", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": "Invalid code"}})
		})
		_, err := c.VerifyOTP(context.Background(), apiclient.VerifyOTPRequest{Code: 0})
		require.Error(t, err)

		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "Invalid code", apiclient.MessageOr(err, "Invalid OTP code"))
		require.False(t, apiclient.IsUnauthorized(err))
	})

	t.Run("no envelope falls back", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})
		_, err := c.SendOTP(context.Background(), apiclient.SendOTPRequest{})
		require.Error(t, err)
		require.Equal(t, "Failed to send OTP", apiclient.MessageOr(err, "Failed to send OTP"))
	})

	t.Run("401 is unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"message": "Token expired"}})
		})
		_, err := c.RefreshToken(context.Background(), "stale")
		require.True(t, apiclient.IsUnauthorized(err))
		require.ErrorIs(t, err, errors.ErrUnauthorized)
	})
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := apiclient.New(srv.URL, time.Second)
	_, err := c.SendOTP(context.Background(), apiclient.SendOTPRequest{})
	require.ErrorIs(t, err, errors.ErrTransport)
	require.Equal(t, "Failed to send OTP", apiclient.MessageOr(err, "Failed to send OTP"))
}

func TestClient_LogoutSendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeEnvelope(t, w, http.StatusOK, map[string]any{"data": map[string]string{"message": "Logged out"}})
	})

	resp, err := c.Logout(context.Background(), "access-1")
	require.NoError(t, err)
	require.Equal(t, "Logged out", resp.Message)
}

func TestClient_UpdateUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/users/u1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Dilnoza", body["firstName"])
		_, hasEmail := body["email"]
		require.False(t, hasEmail)
		writeEnvelope(t, w, http.StatusOK, map[string]any{"data": map[string]any{"id": "u1", "firstName": "Dilnoza", "role": "ADMIN"}})
	})

	u, err := c.UpdateUser(context.Background(), "access-1", "u1", users.ProfileUpdate{FirstName: utils.Ptr("Dilnoza")})
	require.NoError(t, err)
	require.Equal(t, "Dilnoza", *u.FirstName)

	_, err = c.UpdateUser(context.Background(), "access-1", "", users.ProfileUpdate{})
	require.Error(t, err)
}
