package dto

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" binding:"required" validate:"required,min=10,max=20"`
	Email   string `json:"email" binding:"required" validate:"required,email"`
	Subject string `json:"subject" binding:"required" validate:"required,min=3,max=200"`
	Message string `json:"message" binding:"required" validate:"required,min=10,max=2000"`
}
