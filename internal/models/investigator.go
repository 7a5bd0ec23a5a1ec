package models

import (
	"time"

	"gorm.io/gorm"
)

// Investigator is an officer account with access to the analysis API.
type Investigator struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	BadgeNumber  string `gorm:"uniqueIndex"`
	Role         string `gorm:"default:'investigator'"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  time.Time
	TokenVersion int `gorm:"default:1"`
}
