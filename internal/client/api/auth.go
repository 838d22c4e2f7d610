package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/common"
	"github.com/tidwall/gjson"
)

// LoginResult is what the login endpoint hands back.
type LoginResult struct {
	Token string
	// User is set when the backend embeds the profile in the login response.
	User *models.Profile
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, in models.LoginRequest) (LoginResult, error) {
	b, err := c.call(ctx, http.MethodPost, "/Auth/login", nil, in)
	if err != nil {
		return LoginResult{}, err
	}
	return parseLogin(b)
}

func parseLogin(b []byte) (LoginResult, error) {
	r := gjson.ParseBytes(b)
	if r.Type == gjson.String && r.String() != "" {
		return LoginResult{Token: r.String()}, nil
	}

	var res LoginResult
	for _, path := range []string{"token", "accessToken", "access_token", "jwt"} {
		if v := r.Get(path); v.Type == gjson.String && v.String() != "" {
			res.Token = v.String()
			break
		}
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("%w: login response carries no token", common.ErrInvalidToken)
	}

	for _, path := range []string{"user", "profile"} {
		if v := r.Get(path); v.IsObject() {
			var p models.Profile
			if err := json.Unmarshal([]byte(v.Raw), &p); err != nil {
				return LoginResult{}, fmt.Errorf("failed to decode login profile: %w", err)
			}
			res.User = &p
			break
		}
	}
	return res, nil
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := c.Get(ctx, "/admin/users/profile", nil, &p)
	return p, err
}

// UpdateProfile saves the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Profile, error) {
	var p models.Profile
	err := c.Put(ctx, "/user/profile", in, &p)
	return p, err
}

// ChangePassword replaces the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, in models.PasswordChange) error {
	return c.Put(ctx, "/user/change-password", in, nil)
}
