package transport

import (
	"context"
	"net/http"
)

// Binary is a downloaded document with its resolved media type.
type Binary struct {
	Data        []byte
	ContentType string
}

// Binary downloads path as an opaque payload with the same timeout, auth,
// and unauthorized semantics as Do, under the longer download timeout
// unless Options override it. The content type comes from the response
// header, falling back to content sniffing, then to octet-stream.
func (c *Client) Binary(ctx context.Context, path string, opts Options) (*Binary, error) {
	status, data, contentType, err := c.roundTrip(ctx, path, opts, c.downloadTimeout, nil, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newRequestError(status, parseJSONSafe(data))
	}
	if contentType == "" {
		if len(data) > 0 {
			contentType = http.DetectContentType(data)
		} else {
			contentType = "application/octet-stream"
		}
	}
	return &Binary{Data: data, ContentType: contentType}, nil
}
