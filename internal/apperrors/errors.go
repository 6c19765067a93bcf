package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation lost a race on a locked resource.
// Safe for the caller to retry a bounded number of times.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// Business rule violations. Terminal for the request: reported to the caller
// with a machine-readable kind, never retried automatically.
var (
	// ErrInsufficientFunds indicates a debit would drive a cash account balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnbalanced indicates journal debits and credits do not match.
	ErrUnbalanced = errors.New("journal entries do not balance")

	// ErrPeriodClosed indicates the posting date falls inside a closed accounting period.
	ErrPeriodClosed = errors.New("accounting period is closed")

	// ErrPeriodOverlap indicates a period's date range overlaps an existing period.
	ErrPeriodOverlap = errors.New("accounting period overlaps an existing period")

	// ErrAccountInactive indicates the target account is deactivated.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrAlreadyDisbursed indicates the loan is not in an approvable/disbursable state.
	ErrAlreadyDisbursed = errors.New("loan already disbursed")

	// ErrAlreadyPaid indicates the installment is already in a paid state.
	ErrAlreadyPaid = errors.New("installment already paid")

	// ErrAlreadySettled indicates the loan has no remaining principal to settle.
	ErrAlreadySettled = errors.New("loan already settled")

	// ErrNotActive indicates the loan is not open for payments or settlement.
	ErrNotActive = errors.New("loan is not active")
)
