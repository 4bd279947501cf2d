package api

import (
	"context"

	"github.com/fluuyo/fluuyo-go/transport"
)

// Me fetches the account record backing the current bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.http.JSON(ctx, "/me", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// MyCreditProfile fetches the caller's credit standing.
func (c *Client) MyCreditProfile(ctx context.Context) (*CreditProfile, error) {
	var resp struct {
		Profile CreditProfile `json:"profile"`
	}
	err := c.http.JSON(ctx, "/me/credit-profile", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}
