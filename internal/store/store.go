// Package store persists calibration profiles across sessions: the
// noise floor / vocal peak pair a venue calibrated to, keyed by a
// venue label, so a touring performer doesn't have to recalibrate at
// every return visit. This is state about the room, not a recording of
// a performance.
package store

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emmjayh/SingWithMe/internal/calibrate"
	"github.com/emmjayh/SingWithMe/internal/errors"
)

// CalibrationProfile is the persisted row for one venue's calibration.
type CalibrationProfile struct {
	ID           uint   `gorm:"primarykey"`
	VenueLabel   string `gorm:"uniqueIndex"`
	NoiseFloorDb float64
	VocalPeakDb  float64
	UpdatedAt    time.Time
}

// Store wraps a gorm/sqlite handle scoped to calibration profiles.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and
// migrates the CalibrationProfile table.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.New(err).
			Component("store").
			Category(errors.CategoryStore).
			Context("path", path).
			Build()
	}
	if err := db.AutoMigrate(&CalibrationProfile{}); err != nil {
		return nil, errors.New(err).
			Component("store").
			Category(errors.CategoryStore).
			Context("operation", "automigrate").
			Build()
	}
	return &Store{db: db}, nil
}

// Save upserts the calibration result for venueLabel.
func (s *Store) Save(venueLabel string, result calibrate.Result) error {
	profile := CalibrationProfile{
		VenueLabel:   venueLabel,
		NoiseFloorDb: result.NoiseFloorDb,
		VocalPeakDb:  result.VocalPeakDb,
		UpdatedAt:    time.Now(),
	}
	err := s.db.Where(CalibrationProfile{VenueLabel: venueLabel}).
		Assign(profile).
		FirstOrCreate(&profile).Error
	if err != nil {
		return errors.New(err).
			Component("store").
			Category(errors.CategoryStore).
			Context("venue_label", venueLabel).
			Build()
	}
	return nil
}

// Load returns the saved profile for venueLabel, or ok=false if none
// has been calibrated yet.
func (s *Store) Load(venueLabel string) (CalibrationProfile, bool, error) {
	var profile CalibrationProfile
	err := s.db.Where("venue_label = ?", venueLabel).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CalibrationProfile{}, false, nil
		}
		return CalibrationProfile{}, false, errors.New(err).
			Component("store").
			Category(errors.CategoryStore).
			Context("venue_label", venueLabel).
			Build()
	}
	return profile, true, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
