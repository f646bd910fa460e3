package models

import (
	"gorm.io/datatypes"
)

// LoanRequest is the central entity: a client's financing application and
// its lifecycle state. Clients only write it at creation time; every later
// mutation goes through the admin review flow.
type LoanRequest struct {
	BaseModel
	UserID         string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Purpose        string     `gorm:"not null" json:"purpose"`
	Amount         float64    `gorm:"type:decimal(18,2);not null" json:"amount"`
	DurationMonths int        `gorm:"not null" json:"duration_months"`
	MonthlyIncome  float64    `gorm:"type:decimal(18,2)" json:"monthly_income"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         LoanStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedTo     *string    `gorm:"type:uuid;index" json:"assigned_to"`

	// Financial terms, set by the admin approve action.
	ApprovedAmount *float64 `gorm:"type:decimal(18,2)" json:"approved_amount"`
	InterestRate   *float64 `gorm:"type:decimal(6,3)" json:"interest_rate"`
	MonthlyPayment *float64 `gorm:"type:decimal(18,2)" json:"monthly_payment"`

	// Relations
	Owner     *Profile   `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Assignee  *Profile   `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Documents []Document `gorm:"foreignKey:LoanID" json:"documents,omitempty"`
	Notes     []LoanNote `gorm:"foreignKey:LoanID" json:"notes,omitempty"`
}

// LoanNote is append-only: created by admin or client action, never edited.
type LoanNote struct {
	BaseModel
	LoanID string `gorm:"type:uuid;not null;index" json:"loan_id"`
	UserID string `gorm:"type:uuid;not null" json:"user_id"`
	Note   string `gorm:"type:text;not null" json:"note"`

	Author *Profile `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

// LoanActivity is the audit trail. It is written in the same transaction
// as the change it records, so the trail cannot drift from the loan state.
type LoanActivity struct {
	BaseModel
	LoanID       string         `gorm:"type:uuid;not null;index" json:"loan_id"`
	ActivityType ActivityType   `gorm:"type:varchar(30);not null" json:"activity_type"`
	OldValue     string         `json:"old_value"`
	NewValue     string         `json:"new_value"`
	ActorID      string         `gorm:"type:uuid" json:"actor_id"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
}
