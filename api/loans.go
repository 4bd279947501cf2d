package api

import (
	"context"
	"io"
	"net/http"

	"github.com/fluuyo/fluuyo-go/transport"
)

// ActiveLoans lists the caller's loans that are not yet closed.
func (c *Client) ActiveLoans(ctx context.Context) ([]Loan, error) {
	var resp struct {
		Loans []Loan `json:"loans"`
	}
	err := c.http.JSON(ctx, "/loans/active", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Loans, nil
}

// Loan fetches one of the caller's loans with its installment schedule.
func (c *Client) Loan(ctx context.Context, id string) (*Loan, error) {
	var resp struct {
		Loan Loan `json:"loan"`
	}
	err := c.http.JSON(ctx, "/loans/"+id, transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Loan, nil
}

// ApplyRequest carries a loan application.
type ApplyRequest struct {
	PrincipalCOP int64 `json:"principal_cop"`
	TermMonths   int   `json:"term_months"`
}

// Apply submits a loan application. Limits and eligibility are enforced by
// the backend; errors come back as RequestError payloads.
func (c *Client) Apply(ctx context.Context, req ApplyRequest) error {
	_, err := c.http.Do(ctx, "/loans/apply", transport.Options{
		Method:       http.MethodPost,
		Body:         req,
		RequiresAuth: true,
	})
	return err
}

// PaymentSubmission is the evidence for one installment payment. The whole
// submission travels as a single multipart form: amount and reference
// fields alongside the proof file.
type PaymentSubmission struct {
	AmountCOP     string
	InstallmentID string
	Method        string
	Reference     string
	FileName      string
	File          io.Reader
}

// SubmitPayment uploads a payment with its proof for loan loanID.
func (c *Client) SubmitPayment(ctx context.Context, loanID string, sub PaymentSubmission) (*Payment, error) {
	form := transport.NewForm().
		Field("amount_cop", sub.AmountCOP).
		Field("installment_id", sub.InstallmentID).
		Field("payment_method", sub.Method).
		Field("reference", sub.Reference).
		File("file", sub.FileName, sub.File)

	raw, err := c.http.Upload(ctx, "/loans/"+loanID+"/payments", form, transport.Options{RequiresAuth: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Payment Payment `json:"payment"`
	}
	if err := decode(raw, &resp); err != nil {
		return nil, err
	}
	return &resp.Payment, nil
}
