package sessions

import "github.com/secondbloom/admin-dashboard/internal/errors"

var ErrNotAuthenticated = errors.ErrNotAuthenticated
