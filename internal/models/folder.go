package models

// ClientFolder is the office-side master folder for one client: the
// lawyer's private notes plus the message and document threads.
type ClientFolder struct {
	BaseModel
	UserID     string `gorm:"uniqueIndex;not null"`
	NationalID string
	Notes      string `gorm:"type:text"`

	Messages  []ClientMessage  `gorm:"foreignKey:FolderID"`
	Documents []ClientDocument `gorm:"foreignKey:FolderID"`
}

type ClientMessage struct {
	BaseModel
	FolderID  string           `gorm:"not null;index"`
	SenderID  *string          // survives sender deletion
	Direction MessageDirection `gorm:"type:varchar(10);not null"`
	Message   string           `gorm:"type:text;not null"`
	IsRead    bool             `gorm:"default:false"`
}

type ClientDocument struct {
	BaseModel
	FolderID     string `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	Path         string `gorm:"not null"`
	UploadedByID *string
}
