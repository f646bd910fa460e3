package dto

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName  string `json:"last_name" validate:"omitempty,min=1,max=80"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Address   string `json:"address" validate:"omitempty,max=300"`
}

type ClientListQuery struct {
	Search   string `form:"search" validate:"omitempty,max=120"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}
