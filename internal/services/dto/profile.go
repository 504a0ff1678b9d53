package dto

type UpdateProfileRequest struct {
	FullName   string `json:"full_name" validate:"omitempty,max=150,safe_text"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	NationalID string `json:"national_id" validate:"omitempty,max=30"`
	Address    string `json:"address" validate:"omitempty,max=300,safe_text"`
}

type ProfileResponse struct {
	UserResponse
	NationalID string `json:"national_id,omitempty"`
	Address    string `json:"address,omitempty"`
}

type DashboardResponse struct {
	User             UserResponse        `json:"user"`
	Cases            []CaseResponse      `json:"cases"`
	UnreadMessages   int64               `json:"unread_messages"`
	PendingAgreement *AgreementResponse  `json:"pending_agreement,omitempty"`
	Appointments     []AppointmentResponse `json:"appointments"`
}
