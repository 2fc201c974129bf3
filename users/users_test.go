package users_test

import (
	"testing"

	"github.com/secondbloom/admin-dashboard/internal/utils"
	"github.com/secondbloom/admin-dashboard/users"
	"github.com/stretchr/testify/require"
)

func TestUser_IsAdmin(t *testing.T) {
	require.True(t, (&users.User{Role: users.RoleAdmin}).IsAdmin())
	require.False(t, (&users.User{Role: users.RoleUser}).IsAdmin())
	require.False(t, (*users.User)(nil).IsAdmin())
}

func TestUser_DisplayName(t *testing.T) {
	t.Run("first name", func(t *testing.T) {
		u := &users.User{FirstName: utils.Ptr(" Dilnoza "), PhoneNumber: "998901234567"}
		require.Equal(t, "Dilnoza", u.DisplayName())
		require.Equal(t, "D", u.Initial())
	})

	t.Run("phone fallback", func(t *testing.T) {
		u := &users.User{PhoneNumber: "998901234567"}
		require.Equal(t, "998901234567", u.DisplayName())
		require.Equal(t, "9", u.Initial())
	})

	t.Run("nil user", func(t *testing.T) {
		var u *users.User
		require.Equal(t, "Admin", u.DisplayName())
	})
}

func TestUser_WithProfile(t *testing.T) {
	u := users.User{ID: "u1", FirstName: utils.Ptr("Old"), Email: utils.Ptr("old@example.com")}
	updated := u.WithProfile(users.ProfileUpdate{FirstName: utils.Ptr("New")})

	require.Equal(t, "New", *updated.FirstName)
	require.Equal(t, "old@example.com", *updated.Email)
	require.Equal(t, "Old", *u.FirstName)
	require.Equal(t, "New", updated.FullName())
}
