package main

import (
	"log"
	"os"

	"finsentry/internal/config"
	"finsentry/internal/models"
	"finsentry/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminBadge := os.Getenv("ADMIN_BADGE")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}
	if adminBadge == "" {
		adminBadge = "ADMIN-0001"
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Printf("Failed to close PostgreSQL connection: %v", err)
				}
			}
		}

		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	var existing models.Investigator
	if err := repositories.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Println("Admin investigator already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.Investigator{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Name:         "System Administrator",
		BadgeNumber:  adminBadge,
		Role:         "admin",
		Status:       "active",
		TokenVersion: 1,
	}

	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin investigator:", err)
	}

	log.Println("Admin account created successfully!")
}
