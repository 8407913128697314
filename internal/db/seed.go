package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-diary/internal/config"
	"github.com/diewo77/go-diary/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin provisions the initial staff account. Public registration
// is closed, so a fresh database would otherwise have no way to log in.
// Running it twice is a no-op.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed hash: %w", err)
	}
	admin := models.User{
		Email:       cfg.Email,
		Username:    cfg.Username,
		Password:    string(hash),
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed create: %w", err)
	}
	return nil
}
