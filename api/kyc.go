package api

import (
	"context"
	"io"
	"net/http"

	"github.com/fluuyo/fluuyo-go/transport"
)

// KycDocuments lists the caller's uploaded identity documents together with
// the aggregate verification status.
func (c *Client) KycDocuments(ctx context.Context) ([]KycDocument, KycStatus, error) {
	var resp struct {
		Documents []KycDocument `json:"documents"`
		Status    KycStatus     `json:"kyc_status"`
	}
	err := c.http.JSON(ctx, "/kyc/documents", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, "", err
	}
	return resp.Documents, resp.Status, nil
}

// UploadKycDocument uploads one identity document of the given type. Once
// the required set is complete the backend flips the status to SUBMITTED on
// its own.
func (c *Client) UploadKycDocument(ctx context.Context, documentType, filename string, content io.Reader) error {
	form := transport.NewForm().
		Field("document_type", documentType).
		File("file", filename, content)
	_, err := c.http.Upload(ctx, "/kyc/documents", form, transport.Options{RequiresAuth: true})
	return err
}

// DownloadKycDocument fetches a document's raw content for inline viewing.
func (c *Client) DownloadKycDocument(ctx context.Context, id string) (*transport.Binary, error) {
	return c.http.Binary(ctx, "/kyc/documents/"+id+"/download?disposition=inline", transport.Options{
		RequiresAuth: true,
	})
}

// DeleteKycDocument removes an uploaded document so it can be replaced.
func (c *Client) DeleteKycDocument(ctx context.Context, id string) error {
	_, err := c.http.Do(ctx, "/kyc/documents/"+id, transport.Options{
		Method:       http.MethodDelete,
		RequiresAuth: true,
	})
	return err
}
