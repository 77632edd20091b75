package models

// StaffMember mirrors the platform staff listing record.
type StaffMember struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"Nome"`
	Position string `json:"Cargo,omitempty"`
	Role     string `json:"role"`
}

// StaffDraft is the new-collaborator dialog payload.
type StaffDraft struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"hashed_password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required,oneof=staff teacher admin"`
	Name         string `json:"Nome" validate:"required"`
	Position     string `json:"Cargo"`
	DepartmentID *int   `json:"Depart_id" validate:"omitempty,min=1"`
	Phone        string `json:"Telefone"`
	Address      string `json:"Morada"`
}
