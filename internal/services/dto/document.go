package dto

import "time"

type UploadDocumentRequest struct {
	LoanID   string `form:"loan_id" validate:"omitempty,uuid4"`
	Category string `form:"category" validate:"omitempty,oneof=identity income bank domicile professional other"`
}

type DocumentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	FileURL    string    `json:"file_url"`
	Category   string    `json:"category"`
	LoanID     *string   `json:"loan_id,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
