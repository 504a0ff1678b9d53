package models

type LegalServiceType string

const (
	LegalServiceTypeCase    LegalServiceType = "case"
	LegalServiceTypeService LegalServiceType = "service"
)

// LegalService is a card shown on the public landing page.
type LegalService struct {
	BaseModel
	Title       string           `gorm:"not null"`
	Description string           `gorm:"type:text;not null"`
	Icon        string           `gorm:"size:20"`
	ImagePath   string
	ServiceType LegalServiceType `gorm:"type:varchar(20);not null"`
	IsActive    bool             `gorm:"default:true"`
	SortOrder   int              `gorm:"default:0"`
}
