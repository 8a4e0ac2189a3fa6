package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/wavedial/wavedial/internal/domain/user"
)

// authResponse is the shape returned by login, register and refresh.
type authResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type profileUpdateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login authenticates with the backend and installs the returned token
// pair on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*user.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}

	c.SetTokens(resp.Token, resp.RefreshToken)
	return &user.User{ID: resp.UserID, Username: resp.Username, Email: resp.Email}, nil
}

// Register creates an account and installs the returned token pair.
func (c *Client) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password are required")
	}

	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}

	c.SetTokens(resp.Token, resp.RefreshToken)
	return &user.User{ID: resp.UserID, Username: resp.Username, Email: resp.Email}, nil
}

// Refresh exchanges the held refresh token for a fresh token pair.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()
	if refreshToken == "" {
		return errors.New("no refresh token held")
	}

	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, refreshPath, nil, refreshRequest{
		RefreshToken: refreshToken,
	}, &resp, false)
	if err != nil {
		return err
	}

	newRefresh := resp.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}
	c.SetTokens(resp.Token, newRefresh)
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*user.User, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return &user.User{ID: resp.UserID, Username: resp.Username, Email: resp.Email}, nil
}

// UpdateProfile updates the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, username, email string) (*user.User, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPut, "/api/auth/profile", nil, profileUpdateRequest{
		Username: username,
		Email:    email,
	}, &resp, true)
	if err != nil {
		return nil, err
	}
	return &user.User{ID: resp.UserID, Username: resp.Username, Email: resp.Email}, nil
}
