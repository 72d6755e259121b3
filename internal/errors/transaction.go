package errors

var (
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "Transaction not found",
	}
	ErrInvalidTransactionID = &DomainError{
		Code:    "INVALID_TRANSACTION_ID",
		Message: "Invalid transaction id",
	}
	ErrValidation = &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "invalid transaction",
	}
)

var (
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "Unauthorized",
	}
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "Insufficient permissions",
	}
)
