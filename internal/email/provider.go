package email

// Email is a single outbound message.
type Email struct {
	To      []string
	Subject string
	HTML    string
}

// Provider sends transactional email. Notifications are best-effort:
// callers log failures and never roll back business writes because of them.
type Provider interface {
	Send(email *Email) error

	// SendWelcome greets a freshly registered client.
	SendWelcome(to, firstName string) error

	// SendLoanStatusChanged notifies the owner of a review decision.
	SendLoanStatusChanged(to, firstName, loanID, oldStatus, newStatus string) error

	// SendPasswordReset delivers a reset token.
	SendPasswordReset(to, firstName, token string) error
}
