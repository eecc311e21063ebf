package auth

import (
	"errors"

	"gorm.io/gorm"

	entity "cavina.GO/model/entity"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// ValidateToken reports whether an access token exists and is not revoked.
func (r *AuthRepository) ValidateToken(token string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.OauthToken{}).
		Where("token = ? AND type = 'access' AND revoked = 0", token).
		Count(&count).Error
	return count > 0, err
}

// TokenHasPermission reports whether the admin behind an access token holds
// a permission (e.g. "stock.write") through their role.
func (r *AuthRepository) TokenHasPermission(token, permission string) (bool, error) {
	var tk entity.OauthToken
	err := r.db.Where("token = ? AND type = 'access' AND revoked = 0", token).First(&tk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if tk.AdminID == nil {
		return false, nil
	}
	var user entity.AdminUser
	if err := r.db.First(&user, *tk.AdminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	var count int64
	err = r.db.Model(&entity.RolePermission{}).
		Where("role_id = ? AND permission = ?", user.RoleID, permission).
		Count(&count).Error
	return count > 0, err
}
