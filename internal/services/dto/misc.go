package dto

import "time"

type SendMessageRequest struct {
	Message string `json:"message" binding:"required" validate:"required,max=5000,safe_text"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Direction string    `json:"direction"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=10000,safe_text"`
}

type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateAppointmentRequest struct {
	Subject     string    `json:"subject" binding:"required" validate:"required,max=200,safe_text"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required" validate:"required"`
	Notes       string    `json:"notes" validate:"omitempty,max=2000,safe_text"`
}

type AppointmentResponse struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes,omitempty"`
}

type LegalServiceResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	ServiceType string `json:"service_type"`
}

type AuditEventResponse struct {
	ID        string      `json:"id"`
	UserID    *string     `json:"user_id,omitempty"`
	EventType string      `json:"event_type"`
	Path      string      `json:"path,omitempty"`
	IP        string      `json:"ip,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// PagedResponse is the standard list envelope.
type PagedResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
