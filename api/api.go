// Package api is the typed REST surface of the Fluuyo backend. Every call
// is a thin wrapper over the transport client: one endpoint, one request
// shape, one response shape. Business rules (interest, installment math,
// document review) live on the backend and are not re-validated here.
package api

import (
	"encoding/json"

	"github.com/fluuyo/fluuyo-go/transport"
)

// Client groups the endpoint wrappers around a shared transport.
type Client struct {
	http *transport.Client
}

// New wraps t.
func New(t *transport.Client) *Client {
	return &Client{http: t}
}

// Transport exposes the underlying transport client for callers that need
// raw access (binary downloads from screens, custom endpoints).
func (c *Client) Transport() *transport.Client {
	return c.http
}

func decode(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
