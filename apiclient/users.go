package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/secondbloom/admin-dashboard/users"
)

// UpdateUser patches the profile of user id and returns the stored user
func (c *Client) UpdateUser(ctx context.Context, accessToken, id string, update users.ProfileUpdate) (users.User, error) {
	if id == "" {
		return users.User{}, fmt.Errorf("[apiclient UpdateUser] user id is required")
	}
	return call[users.User](ctx, c, http.MethodPatch, "/users/"+url.PathEscape(id), accessToken, update)
}
