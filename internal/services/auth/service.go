package auth

import (
	"errors"
	"log"
	"time"

	"finsentry/internal/models"
	"finsentry/internal/repositories"
	"finsentry/internal/utils"
	"finsentry/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(email, password string) (*models.Investigator, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(investigatorID uint) error
	ChangePassword(investigatorID uint, oldPassword, newPassword string) error
}

type service struct {
	repo repositories.InvestigatorRepository
}

func NewService(repo repositories.InvestigatorRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) Login(email, password string) (*models.Investigator, string, string, error) {
	inv, err := s.repo.GetByEmail(email)
	if err != nil {
		log.Printf("Login failed: investigator not found for email: %s", email)
		return nil, "", "", errors.New("invalid credentials")
	}

	if inv.Status != "active" {
		log.Printf("Login failed: investigator %d is %s", inv.ID, inv.Status)
		return nil, "", "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(inv.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for investigator ID: %d", inv.ID)
		return nil, "", "", errors.New("invalid credentials")
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       inv.ID,
		Email:        inv.Email,
		Role:         inv.Role,
		TokenVersion: inv.TokenVersion,
		Permissions:  models.GetDefaultPermissions(inv.Role),
	})
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	inv.LastLoginAt = time.Now()
	if err := s.repo.Update(inv); err != nil {
		log.Printf("Warning: failed to record last login for investigator %d: %v", inv.ID, err)
	}

	return inv, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	inv, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("investigator not found")
	}

	if inv.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       inv.ID,
		Email:        inv.Email,
		Role:         inv.Role,
		TokenVersion: inv.TokenVersion,
		Permissions:  models.GetDefaultPermissions(inv.Role),
	})
}

func (s *service) Logout(investigatorID uint) error {
	return s.repo.IncrementTokenVersion(investigatorID)
}

func (s *service) ChangePassword(investigatorID uint, oldPassword, newPassword string) error {
	inv, err := s.repo.GetByID(investigatorID)
	if err != nil {
		return errors.New("failed to get investigator")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(inv.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	if len(newPassword) < 8 || !validation.HasSpecialChar(newPassword) {
		return errors.New("password must be at least 8 characters and contain special characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	inv.Password = string(hashedPassword)
	inv.TokenVersion++ // Invalidate existing tokens

	if err := s.repo.Update(inv); err != nil {
		return errors.New("failed to update password")
	}

	return nil
}
