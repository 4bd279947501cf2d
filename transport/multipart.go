package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
)

// Form accumulates multipart fields and file parts in insertion order.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// NewForm returns an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// Field appends a text field.
func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// File appends a file part read from content.
func (f *Form) File(field, filename string, content io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

// Upload POSTs form as multipart/form-data. The content type, including the
// boundary, is chosen by the multipart writer; callers never set it by hand.
// Auth, timeout, and unauthorized semantics match Do.
func (c *Client) Upload(ctx context.Context, path string, form *Form, opts Options) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range form.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, &NetworkError{cause: err}
		}
	}
	for _, file := range form.files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, &NetworkError{cause: err}
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, &NetworkError{cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &NetworkError{cause: err}
	}

	if opts.Method == "" {
		opts.Method = http.MethodPost
	}
	status, data, _, err := c.roundTrip(ctx, path, opts, c.requestTimeout, &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	raw := parseJSONSafe(data)
	if status < 200 || status > 299 {
		return nil, newRequestError(status, raw)
	}
	return raw, nil
}
