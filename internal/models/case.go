package models

type Case struct {
	BaseModel
	UserID         string     `gorm:"not null;index"`
	CaseNumber     string     `gorm:"uniqueIndex;not null"`
	Type           CaseType   `gorm:"type:varchar(20);not null;default:'other'"`
	Title          string     `gorm:"not null"`
	Description    string     `gorm:"type:text;not null"`
	Status         CaseStatus `gorm:"type:varchar(20);not null;default:'new'"`
	LawyerNotes    string     `gorm:"type:text"`
	AttachmentPath string

	// Relations
	Replies  []CaseReply         `gorm:"foreignKey:CaseID"`
	Timeline []CaseTimelineEvent `gorm:"foreignKey:CaseID"`
}

type CaseReply struct {
	BaseModel
	CaseID             string `gorm:"not null;index"`
	SenderID           string `gorm:"not null"`
	Message            string `gorm:"type:text;not null"`
	VisibleForClient   bool   `gorm:"default:true"`
}

// CaseTimelineEvent records one step of a case's progression,
// from registration through sessions to judgment and closing.
type CaseTimelineEvent struct {
	BaseModel
	CaseID      string          `gorm:"not null;index"`
	Stage       TimelineStage   `gorm:"type:varchar(30);not null"`
	Title       string          `gorm:"not null"`
	Description string          `gorm:"type:text"`
	Outcome     TimelineOutcome `gorm:"type:varchar(20);not null;default:'pending'"`
}
