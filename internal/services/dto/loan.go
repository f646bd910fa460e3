package dto

import (
	"time"

	"aic_backend/internal/models"
)

type CreateLoanRequest struct {
	Purpose        string  `json:"purpose" binding:"required" validate:"required,min=2,max=200"`
	Amount         float64 `json:"amount" binding:"required" validate:"required,gt=0"`
	DurationMonths int     `json:"duration_months" binding:"required" validate:"required,loan_duration"`
	MonthlyIncome  float64 `json:"monthly_income" validate:"omitempty,gt=0"`
	Description    string  `json:"description" validate:"max=5000"`
}

// UpdateLoanStatusRequest drives the review state machine. The financial
// terms are only honoured when the target status is approved.
type UpdateLoanStatusRequest struct {
	Status         string   `json:"status" binding:"required" validate:"required"`
	ApprovedAmount *float64 `json:"approved_amount" validate:"omitempty,gt=0"`
	InterestRate   *float64 `json:"interest_rate" validate:"omitempty,gt=0"`
	MonthlyPayment *float64 `json:"monthly_payment" validate:"omitempty,gt=0"`
}

// AssignLoanRequest sets or clears (null) the reviewer.
type AssignLoanRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

type AddNoteRequest struct {
	Note string `json:"note" binding:"required" validate:"required,min=1,max=5000"`
}

type LoanListQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type LoanListResponse struct {
	Loans    []models.LoanRequest `json:"loans"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// DashboardStats feeds the admin dashboard header cards.
type DashboardStats struct {
	TotalLoans    int64                        `json:"total_loans"`
	TotalClients  int64                        `json:"total_clients"`
	ByStatus      map[models.LoanStatus]int64  `json:"by_status"`
	RecentLoans   []models.LoanRequest         `json:"recent_loans"`
	ComputedAt    time.Time                    `json:"computed_at"`
}
