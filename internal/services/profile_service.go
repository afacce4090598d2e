package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"outgo/internal/currency"
	apperrors "outgo/internal/errors"
	"outgo/internal/models"
)

// profileService handles per-user settings.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// GetProfile returns the user's profile. A user who never saved settings
// gets the default base currency without a row being created.
func (s *profileService) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Profile{UserID: userID, BaseCurrency: currency.DefaultCode}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// SetBaseCurrency upserts the user's base currency.
func (s *profileService) SetBaseCurrency(userID, currencyCode string) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:       userID,
		BaseCurrency: currency.Normalize(currencyCode),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_currency", "updated_at"}),
	}).Create(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return profile, nil
}
