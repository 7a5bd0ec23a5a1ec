package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	PermissionDatasetRead    = "dataset:read"
	PermissionDatasetWrite   = "dataset:write"
	PermissionAnalyticsRun   = "analytics:run"
	PermissionBankingRead    = "banking:read"
	PermissionChangePassword = "investigator:change-password"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionDatasetRead,
			PermissionDatasetWrite,
			PermissionAnalyticsRun,
			PermissionBankingRead,
			PermissionChangePassword,
		}
	default:
		return []string{
			PermissionDatasetRead,
			PermissionDatasetWrite,
			PermissionAnalyticsRun,
			PermissionBankingRead,
			PermissionChangePassword,
		}
	}
}
