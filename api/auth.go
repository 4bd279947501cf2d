package api

import (
	"context"
	"net/http"

	"github.com/fluuyo/fluuyo-go/transport"
)

// ErrorCodeEmailNotVerified is the backend code reported when login is
// attempted before the account's email has been verified.
const ErrorCodeEmailNotVerified = "EMAIL_NOT_VERIFIED"

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the session material returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login exchanges credentials for a bearer token and the account record.
// It does not persist anything; session establishment is the caller's job.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.http.JSON(ctx, "/auth/login", transport.Options{
		Method: http.MethodPost,
		Body:   req,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterRequest carries the registration fields.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// Register creates an account. It never returns session material: the
// backend requires email verification before the first login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.http.Do(ctx, "/auth/register", transport.Options{
		Method: http.MethodPost,
		Body:   req,
	})
	return err
}

// VerifyEmail redeems an emailed verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	_, err := c.http.Do(ctx, "/auth/verify-email", transport.Options{
		Method: http.MethodPost,
		Body:   map[string]string{"token": token},
	})
	return err
}

// ResendVerification requests a fresh verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	_, err := c.http.Do(ctx, "/auth/resend-verification", transport.Options{
		Method: http.MethodPost,
		Body:   map[string]string{"email": email},
	})
	return err
}

// ForgotPassword starts a password reset. The backend answers neutrally
// whether or not the address exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.http.Do(ctx, "/auth/forgot-password", transport.Options{
		Method: http.MethodPost,
		Body:   map[string]string{"email": email},
	})
	return err
}

// ResetPassword redeems a reset token with the replacement password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	_, err := c.http.Do(ctx, "/auth/reset-password", transport.Options{
		Method: http.MethodPost,
		Body:   map[string]string{"token": token, "password": password},
	})
	return err
}
