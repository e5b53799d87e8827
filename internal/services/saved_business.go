package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SatyaPujith/Spotlight/internal/database"
	"github.com/SatyaPujith/Spotlight/internal/models"
)

var (
	ErrBusinessAlreadySaved  = errors.New("business already saved or user not found")
	ErrSavedBusinessNotFound = errors.New("business not found in saved list")
)

type SavedBusinessService struct {
	db  *database.DB
	now func() time.Time
}

func NewSavedBusinessService(db *database.DB) *SavedBusinessService {
	return &SavedBusinessService{db: db, now: time.Now}
}

type SaveBusinessRequest struct {
	Business *models.Business `json:"business"`
}

// List returns the user's saved cards, oldest first
func (s *SavedBusinessService) List(userID uint) ([]models.SavedBusinessView, error) {
	var rows []models.SavedBusiness
	if err := s.db.Where("user_id = ?", userID).Order("saved_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]models.SavedBusinessView, 0, len(rows))
	for _, row := range rows {
		var b models.Business
		if err := json.Unmarshal([]byte(row.Payload), &b); err != nil {
			return nil, fmt.Errorf("decode saved business %s: %w", row.BusinessID, err)
		}
		views = append(views, models.SavedBusinessView{Business: b, SavedAt: row.SavedAt})
	}
	return views, nil
}

// Save bookmarks a business card. Saving the same id twice, or saving for an
// unknown user, returns ErrBusinessAlreadySaved.
func (s *SavedBusinessService) Save(userID uint, business *models.Business) (*models.SavedBusinessView, error) {
	payload, err := json.Marshal(business)
	if err != nil {
		return nil, err
	}

	row := models.SavedBusiness{
		UserID:     userID,
		BusinessID: business.ID,
		Payload:    string(payload),
		SavedAt:    s.now(),
	}

	// the (user_id, business_id) unique index decides duplicates, so concurrent
	// saves of the same card cannot both succeed
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return ErrBusinessAlreadySaved
		}
		return tx.Create(&row).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrBusinessAlreadySaved
	}
	if err != nil {
		return nil, err
	}

	return &models.SavedBusinessView{Business: *business, SavedAt: row.SavedAt}, nil
}

// Remove deletes a saved card
func (s *SavedBusinessService) Remove(userID uint, businessID string) error {
	res := s.db.Where("user_id = ? AND business_id = ?", userID, businessID).Delete(&models.SavedBusiness{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSavedBusinessNotFound
	}
	return nil
}
