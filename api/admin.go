package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fluuyo/fluuyo-go/transport"
)

// Back-office endpoints. All of them require an ADMIN or OPERATOR session;
// the backend answers 403 otherwise and the unauthorized handler fires.

// Stats fetches the dashboard summary.
func (c *Client) Stats(ctx context.Context) (*AdminStats, error) {
	var resp struct {
		Stats AdminStats `json:"stats"`
	}
	err := c.http.JSON(ctx, "/admin/stats", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// Users lists all accounts.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	err := c.http.JSON(ctx, "/admin/users", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// User fetches one account.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.http.JSON(ctx, "/admin/users/"+id, transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UserLoans lists one account's loans.
func (c *Client) UserLoans(ctx context.Context, id string) ([]Loan, error) {
	var resp struct {
		Loans []Loan `json:"loans"`
	}
	err := c.http.JSON(ctx, "/admin/users/"+id+"/loans", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Loans, nil
}

// KycUsers lists accounts with their verification progress.
func (c *Client) KycUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	err := c.http.JSON(ctx, "/admin/kyc/users", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// KycUserDetail is one account's document set under review.
type KycUserDetail struct {
	User      User          `json:"user"`
	Documents []KycDocument `json:"documents"`
}

// KycUser fetches one account's documents for review.
func (c *Client) KycUser(ctx context.Context, userID string) (*KycUserDetail, error) {
	var resp KycUserDetail
	err := c.http.JSON(ctx, "/admin/kyc/users/"+userID, transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReviewKycDocument marks a document APPROVED or REJECTED.
func (c *Client) ReviewKycDocument(ctx context.Context, documentID string, status string) error {
	_, err := c.http.Do(ctx, "/admin/kyc/documents/"+documentID+"/review", transport.Options{
		Method:       http.MethodPatch,
		Body:         map[string]string{"status": status},
		RequiresAuth: true,
	})
	return err
}

// CreditProfiles lists all credit profiles.
func (c *Client) CreditProfiles(ctx context.Context) ([]CreditProfile, error) {
	var resp struct {
		Profiles []CreditProfile `json:"profiles"`
	}
	err := c.http.JSON(ctx, "/admin/credit/profiles", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}

// AdminCreditProfile fetches one user's credit profile.
func (c *Client) AdminCreditProfile(ctx context.Context, userID string) (*CreditProfile, error) {
	var resp struct {
		Profile CreditProfile `json:"profile"`
	}
	err := c.http.JSON(ctx, "/admin/credit/profiles/"+userID, transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

// CreditProfileUpdate carries the editable fields of a credit profile.
// SuspensionReason must be nil unless IsSuspended is set.
type CreditProfileUpdate struct {
	CurrentLimitCOP  int64   `json:"current_limit_cop"`
	MaxLimitCOP      int64   `json:"max_limit_cop"`
	RiskTier         string  `json:"risk_tier"`
	IsSuspended      bool    `json:"is_suspended"`
	SuspensionReason *string `json:"suspension_reason"`
}

// UpdateCreditProfile saves limit, tier, and suspension changes.
func (c *Client) UpdateCreditProfile(ctx context.Context, userID string, update CreditProfileUpdate) error {
	_, err := c.http.Do(ctx, "/admin/credit/profiles/"+userID, transport.Options{
		Method:       http.MethodPatch,
		Body:         update,
		RequiresAuth: true,
	})
	return err
}

// CreditLoans lists the loans backing one user's credit history.
func (c *Client) CreditLoans(ctx context.Context, userID string) ([]Loan, error) {
	var resp struct {
		Loans []Loan `json:"loans"`
	}
	err := c.http.JSON(ctx, "/admin/credits/"+userID+"/loans", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Loans, nil
}

// SuspendCredit suspends a user's credit line with a reason.
func (c *Client) SuspendCredit(ctx context.Context, userID, reason string) error {
	_, err := c.http.Do(ctx, "/admin/credits/"+userID+"/suspend", transport.Options{
		Method:       http.MethodPatch,
		Body:         map[string]string{"reason": reason},
		RequiresAuth: true,
	})
	return err
}

// LoanPage is one page of the admin loan listing.
type LoanPage struct {
	Loans []Loan `json:"loans"`
	Total int    `json:"total"`
}

// Loans lists loans page by page, optionally filtered by status.
func (c *Client) Loans(ctx context.Context, page, limit int, status string) (*LoanPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if status != "" {
		params.Set("status", status)
	}
	var resp LoanPage
	err := c.http.JSON(ctx, "/admin/loans?"+params.Encode(), transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoanDetail is one loan with everything the back office reviews at once.
type LoanDetail struct {
	Loan                Loan           `json:"loan"`
	Installments        []Installment  `json:"installments"`
	Payments            []Payment      `json:"payments"`
	DisbursementAccount map[string]any `json:"disbursement_account"`
}

// AdminLoan fetches one loan's full review bundle.
func (c *Client) AdminLoan(ctx context.Context, id string) (*LoanDetail, error) {
	var resp LoanDetail
	err := c.http.JSON(ctx, "/admin/loans/"+id, transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ApproveLoan moves a loan from APPLIED to APPROVED.
func (c *Client) ApproveLoan(ctx context.Context, id string) error {
	_, err := c.http.Do(ctx, "/admin/loans/"+id+"/approve", transport.Options{
		Method:       http.MethodPatch,
		RequiresAuth: true,
	})
	return err
}

// DisburseLoan disburses an approved loan and generates its schedule.
// Known backend codes: INSTALLMENTS_ALREADY_EXIST,
// NO_VERIFIED_DISBURSEMENT_ACCOUNT.
func (c *Client) DisburseLoan(ctx context.Context, id string) error {
	_, err := c.http.Do(ctx, "/admin/loans/"+id+"/disburse", transport.Options{
		Method:       http.MethodPatch,
		RequiresAuth: true,
	})
	return err
}

// VerifyDisbursementAccount records a manual bank-account verification.
func (c *Client) VerifyDisbursementAccount(ctx context.Context, loanID string) error {
	_, err := c.http.Do(ctx, "/admin/loans/"+loanID+"/verify-disbursement-account", transport.Options{
		Method:       http.MethodPatch,
		RequiresAuth: true,
	})
	return err
}

// LoanPayments lists a loan's submitted payments.
func (c *Client) LoanPayments(ctx context.Context, loanID string) ([]Payment, error) {
	var resp struct {
		Payments []Payment `json:"payments"`
	}
	err := c.http.JSON(ctx, "/admin/loans/"+loanID+"/payments", transport.Options{RequiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// PaymentReview accepts or rejects a submitted payment. RejectionReason is
// required when Status is REJECTED.
type PaymentReview struct {
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// ReviewPayment applies a payment review decision.
func (c *Client) ReviewPayment(ctx context.Context, paymentID string, review PaymentReview) error {
	_, err := c.http.Do(ctx, "/admin/loan-payments/"+paymentID+"/review", transport.Options{
		Method:       http.MethodPatch,
		Body:         review,
		RequiresAuth: true,
	})
	return err
}
