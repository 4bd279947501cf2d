package api

import "time"

// Role is the backend-assigned role of an account.
type Role string

const (
	// RoleCustomer is an end user of the lending product.
	RoleCustomer Role = "CUSTOMER"
	// RoleAdmin is a back-office administrator.
	RoleAdmin Role = "ADMIN"
	// RoleOperator is a back-office operator with admin-level routing.
	RoleOperator Role = "OPERATOR"
)

// AccountStatus is the lifecycle state of an account record.
type AccountStatus string

const (
	// StatusActive marks an account in good standing.
	StatusActive AccountStatus = "ACTIVE"
	// StatusSuspended marks an account administratively suspended.
	StatusSuspended AccountStatus = "SUSPENDED"
	// StatusBlocked marks an account blocked from the product.
	StatusBlocked AccountStatus = "BLOCKED"
)

// KycStatus tracks identity-verification progress.
type KycStatus string

const (
	// KycPending means no documents have been submitted yet.
	KycPending KycStatus = "PENDING"
	// KycSubmitted means the document set is complete and awaiting review.
	KycSubmitted KycStatus = "SUBMITTED"
	// KycApproved means the review passed.
	KycApproved KycStatus = "APPROVED"
	// KycRejected means the review failed and documents must be resubmitted.
	KycRejected KycStatus = "REJECTED"
)

// User is the authenticated account record returned by /me and /auth/login.
//
// The backend serializes most fields in snake_case but the verification flag
// in camelCase; the tags follow that wire reality.
type User struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Phone         string        `json:"phone,omitempty"`
	Role          Role          `json:"role"`
	Status        AccountStatus `json:"status"`
	KycStatus     KycStatus     `json:"kyc_status"`
	EmailVerified bool          `json:"emailVerified"`
	CreatedAt     *time.Time    `json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
}

// Loan is a loan record as listed by both customer and admin endpoints.
// COP amounts travel as preformatted strings and are not interpreted here;
// installment math is the backend's concern.
type Loan struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Email        string        `json:"email,omitempty"`
	Status       string        `json:"status"`
	PrincipalCOP string        `json:"principal_cop"`
	TermMonths   int           `json:"term_months"`
	KycStatus    KycStatus     `json:"kyc_status,omitempty"`
	Installments []Installment `json:"installments,omitempty"`
	DisbursedAt  *time.Time    `json:"disbursed_at,omitempty"`
	CreatedAt    *time.Time    `json:"created_at,omitempty"`
}

// Installment is one entry of a loan's payment schedule.
type Installment struct {
	ID            int64      `json:"id"`
	LoanID        string     `json:"loan_id"`
	Number        int        `json:"number"`
	Status        string     `json:"status"`
	AmountDueCOP  string     `json:"amount_due_cop"`
	AmountPaidCOP string     `json:"amount_paid_cop"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// Payment is a submitted installment payment with its review state.
type Payment struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	InstallmentID int64      `json:"installment_id"`
	AmountCOP     string     `json:"amount_cop"`
	Method        string     `json:"payment_method"`
	Reference     string     `json:"reference,omitempty"`
	Status        string     `json:"status"`
	ProofURL      string     `json:"proof_url,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// KycDocument is one uploaded identity document.
type KycDocument struct {
	ID           string     `json:"id"`
	DocumentType string     `json:"document_type"`
	Status       string     `json:"status"`
	FileURL      string     `json:"file_url,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// CreditProfile is the backend-computed credit standing of a user.
type CreditProfile struct {
	UserID           string    `json:"user_id"`
	Email            string    `json:"email,omitempty"`
	Score            int       `json:"score"`
	RiskTier         string    `json:"risk_tier"`
	CurrentLimitCOP  string    `json:"current_limit_cop"`
	MaxLimitCOP      string    `json:"max_limit_cop"`
	LoansRepaid      int       `json:"loans_repaid"`
	OnTimeLoans      int       `json:"on_time_loans"`
	LateLoans        int       `json:"late_loans"`
	KycStatus        KycStatus `json:"kyc_status,omitempty"`
	IsSuspended      bool      `json:"is_suspended"`
	SuspensionReason string    `json:"suspension_reason,omitempty"`
}

// AdminStats is the back-office dashboard summary.
type AdminStats struct {
	Users   int `json:"users"`
	Credits int `json:"credits"`
	Pending int `json:"pending"`
}
