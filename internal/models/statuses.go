package models

import "fmt"

type UserRole string
type LoanStatus string
type DocumentCategory string
type ActivityType string

const (
	UserRoleClient       UserRole = "client"
	UserRoleCollaborator UserRole = "collaborator"
	UserRoleAdmin        UserRole = "admin"
)

// Canonical loan status enum. The legacy deployments mixed French and
// English spellings; the French labels are presentation-only and live in
// the frontends.
const (
	LoanStatusPending    LoanStatus = "pending"
	LoanStatusInProgress LoanStatus = "in_progress"
	LoanStatusApproved   LoanStatus = "approved"
	LoanStatusRejected   LoanStatus = "rejected"
	LoanStatusCompleted  LoanStatus = "completed"
)

const (
	DocumentCategoryIdentity     DocumentCategory = "identity"
	DocumentCategoryIncome       DocumentCategory = "income"
	DocumentCategoryBank         DocumentCategory = "bank"
	DocumentCategoryDomicile     DocumentCategory = "domicile"
	DocumentCategoryProfessional DocumentCategory = "professional"
	DocumentCategoryOther        DocumentCategory = "other"
)

const (
	ActivityStatusChange  ActivityType = "status_change"
	ActivityAssignment    ActivityType = "assignment"
	ActivityComment       ActivityType = "comment"
	ActivityDocumentAdded ActivityType = "document_added"
)

// loanTransitions is the authoritative transition table. Anything not
// listed here is rejected at the data layer, not just greyed out in the UI.
var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanStatusPending:    {LoanStatusInProgress, LoanStatusApproved, LoanStatusRejected},
	LoanStatusInProgress: {LoanStatusApproved, LoanStatusRejected},
	LoanStatusApproved:   {LoanStatusCompleted},
	LoanStatusRejected:   {},
	LoanStatusCompleted:  {},
}

// CanTransition reports whether from -> to is a legal status change.
func (from LoanStatus) CanTransition(to LoanStatus) bool {
	for _, next := range loanTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s LoanStatus) IsTerminal() bool {
	return len(loanTransitions[s]) == 0
}

// ParseLoanStatus validates a raw status string from the API.
func ParseLoanStatus(raw string) (LoanStatus, error) {
	s := LoanStatus(raw)
	switch s {
	case LoanStatusPending, LoanStatusInProgress, LoanStatusApproved,
		LoanStatusRejected, LoanStatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("unknown loan status: %q", raw)
}

// ParseDocumentCategory validates a raw category string from the API.
func ParseDocumentCategory(raw string) (DocumentCategory, error) {
	c := DocumentCategory(raw)
	switch c {
	case DocumentCategoryIdentity, DocumentCategoryIncome, DocumentCategoryBank,
		DocumentCategoryDomicile, DocumentCategoryProfessional, DocumentCategoryOther:
		return c, nil
	}
	return "", fmt.Errorf("unknown document category: %q", raw)
}
