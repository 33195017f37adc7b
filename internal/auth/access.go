package auth

import "skillswap/internal/models"

// IsAdmin reports whether actor holds the admin role.
func IsAdmin(actor *models.User) bool {
	return actor.IsAdmin()
}

// IsSelfOrAdmin reports whether actor may act on the account userID.
func IsSelfOrAdmin(actor *models.User, userID uint) bool {
	if actor == nil {
		return false
	}
	return actor.ID == userID || IsAdmin(actor)
}

// CheckAccount rejects inactive and banned accounts.
func CheckAccount(u *models.User) error {
	if !u.IsActive {
		return models.NewAccountInactiveError()
	}
	if u.IsBanned {
		return models.NewAccountBannedError()
	}
	return nil
}

// RequireAdmin returns actor unchanged if it is an admin.
func RequireAdmin(actor *models.User) (*models.User, error) {
	if !IsAdmin(actor) {
		return nil, models.NewInsufficientRoleError()
	}
	return actor, nil
}
