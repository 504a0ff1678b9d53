package repositories

import (
	"errors"

	"lexportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFolderNotFound = errors.New("client folder not found")

type FolderRepository interface {
	// FindOrCreateByUser returns the client's folder, creating it on
	// first use.
	FindOrCreateByUser(userID string) (*models.ClientFolder, error)
	FindByUser(userID string) (*models.ClientFolder, error)
	Update(folder *models.ClientFolder) error

	// Message operations
	CreateMessage(msg *models.ClientMessage) error
	FindMessages(folderID string) ([]models.ClientMessage, error)
	MarkMessagesRead(folderID string, direction models.MessageDirection) error
	CountUnread(folderID string, direction models.MessageDirection) (int64, error)

	// Document operations
	CreateDocument(doc *models.ClientDocument) error
	FindDocuments(folderID string) ([]models.ClientDocument, error)
	FindDocumentByID(id string) (*models.ClientDocument, error)
}

type FolderRepositoryImpl struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &FolderRepositoryImpl{db: db}
}

func (r *FolderRepositoryImpl) FindOrCreateByUser(userID string) (*models.ClientFolder, error) {
	folder, err := r.FindByUser(userID)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, ErrFolderNotFound) {
		return nil, err
	}

	folder = &models.ClientFolder{UserID: userID}
	if err := r.db.Create(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}

func (r *FolderRepositoryImpl) FindByUser(userID string) (*models.ClientFolder, error) {
	var folder models.ClientFolder
	err := r.db.Where("user_id = ?", userID).First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return &folder, nil
}

func (r *FolderRepositoryImpl) Update(folder *models.ClientFolder) error {
	return r.db.Save(folder).Error
}

func (r *FolderRepositoryImpl) CreateMessage(msg *models.ClientMessage) error {
	return r.db.Create(msg).Error
}

func (r *FolderRepositoryImpl) FindMessages(folderID string) ([]models.ClientMessage, error) {
	var messages []models.ClientMessage
	err := r.db.Where("folder_id = ?", folderID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *FolderRepositoryImpl) MarkMessagesRead(folderID string, direction models.MessageDirection) error {
	return r.db.Model(&models.ClientMessage{}).
		Where("folder_id = ? AND direction = ? AND is_read = ?", folderID, direction, false).
		Update("is_read", true).Error
}

func (r *FolderRepositoryImpl) CountUnread(folderID string, direction models.MessageDirection) (int64, error) {
	var count int64
	err := r.db.Model(&models.ClientMessage{}).
		Where("folder_id = ? AND direction = ? AND is_read = ?", folderID, direction, false).
		Count(&count).Error
	return count, err
}

func (r *FolderRepositoryImpl) CreateDocument(doc *models.ClientDocument) error {
	return r.db.Create(doc).Error
}

func (r *FolderRepositoryImpl) FindDocuments(folderID string) ([]models.ClientDocument, error) {
	var docs []models.ClientDocument
	err := r.db.Where("folder_id = ?", folderID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *FolderRepositoryImpl) FindDocumentByID(id string) (*models.ClientDocument, error) {
	var doc models.ClientDocument
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return &doc, nil
}
