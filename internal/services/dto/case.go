package dto

import "time"

type CreateCaseRequest struct {
	Type        string `json:"type" binding:"required" validate:"required,is-case-type"`
	Title       string `json:"title" binding:"required" validate:"required,max=200,safe_text"`
	Description string `json:"description" binding:"required" validate:"required,max=5000,safe_text"`
}

type CaseReplyRequest struct {
	Message          string `json:"message" binding:"required" validate:"required,max=5000,safe_text"`
	VisibleForClient *bool  `json:"visible_for_client"`
}

type UpdateCaseRequest struct {
	Status      string `json:"status" validate:"omitempty,oneof=new under_review in_progress closed"`
	LawyerNotes string `json:"lawyer_notes" validate:"omitempty,max=10000"`
}

type TimelineEventRequest struct {
	Stage       string `json:"stage" binding:"required" validate:"required,oneof=registered case_submitted under_review sessions judgment appeal closed"`
	Title       string `json:"title" binding:"required" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Outcome     string `json:"outcome" validate:"omitempty,oneof=win lose appeal pending"`
}

type CaseResponse struct {
	ID          string    `json:"id"`
	CaseNumber  string    `json:"case_number"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type CaseDetailResponse struct {
	CaseResponse
	Replies  []CaseReplyResponse     `json:"replies"`
	Timeline []TimelineEventResponse `json:"timeline"`
}

type CaseReplyResponse struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type TimelineEventResponse struct {
	ID          string    `json:"id"`
	Stage       string    `json:"stage"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Outcome     string    `json:"outcome"`
	CreatedAt   time.Time `json:"created_at"`
}
