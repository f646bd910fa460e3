package models

import "time"

// Document is an uploaded file's metadata row. LoanID is nullable: some
// documents belong to the user directly (identity papers), not to a loan.
type Document struct {
	BaseModel
	UserID     string           `gorm:"type:uuid;not null;index" json:"user_id"`
	LoanID     *string          `gorm:"type:uuid;index" json:"loan_id"`
	FileName   string           `gorm:"not null" json:"file_name"`
	FileType   string           `gorm:"type:varchar(10)" json:"file_type"`
	FileSize   int64            `json:"file_size"`
	FilePath   string           `gorm:"not null" json:"file_path"`
	FileURL    string           `json:"file_url"`
	Category   DocumentCategory `gorm:"type:varchar(20);not null;default:'other'" json:"category"`
	UploadedAt time.Time        `json:"uploaded_at"`
}
