package apperrors

import "net/http"

// Predefined errors shared across services. Domain-specific factories live
// next to them so handlers and services agree on codes and HTTP statuses.
var (
	// Authentication
	ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "auth", "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "auth", "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

	// Users and profiles
	ErrUserNotFound       = New(CodeNotFound, "user", "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "user", "Email already registered", http.StatusConflict)
	ErrUserInactive       = New(CodeUserInactive, "user", "User account is deactivated", http.StatusForbidden)
	ErrWeakPassword       = New(CodeWeakPassword, "user", "Password must be at least 8 characters with upper case, lower case and a digit", http.StatusBadRequest)
	ErrInvalidUserRole    = New(CodeInvalidUserRole, "user", "Invalid user role", http.StatusBadRequest)
	ErrProfileNotFound    = New(CodeNotFound, "profile", "Profile not found", http.StatusNotFound)

	// Loans
	ErrLoanNotFound       = New(CodeLoanNotFound, "loan", "Loan request not found", http.StatusNotFound)
	ErrAssigneeNotAllowed = New(CodeAssigneeNotAllowed, "loan", "Assignee must be an admin or collaborator", http.StatusBadRequest)
	ErrInvalidLoanStatus  = New(CodeInvalidLoanStatus, "loan", "Unknown loan status", http.StatusBadRequest)

	// Documents
	ErrDocumentNotFound = New(CodeNotFound, "document", "Document not found", http.StatusNotFound)
	ErrFileMissing      = New(CodeFileMissing, "document", "No file provided", http.StatusBadRequest)
	ErrFileTooLarge     = New(CodeFileTooLarge, "document", "File exceeds the maximum allowed size", http.StatusBadRequest)
	ErrInvalidFileType  = New(CodeInvalidFileType, "document", "File type not allowed", http.StatusBadRequest)
)

// InvalidTransition builds the typed error returned when a loan status
// change is rejected by the state machine.
func InvalidTransition(from, to string) *AppError {
	return New(CodeInvalidTransition, "loan", "Illegal status transition", http.StatusConflict).
		WithDetails(map[string]string{"from": from, "to": to})
}
