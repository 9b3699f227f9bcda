package services

import (
	"errors"

	"sqmcc/internal/models"
	"sqmcc/internal/utils"

	"gorm.io/gorm"
)

// ExternalIdentity is the result of a verified external authentication
// event: the provider's subject identifier, the verified email and an
// optional display name.
type ExternalIdentity struct {
	Subject string
	Email   string `validate:"required,email"`
	Name    string
}

// IdentityService maps authentication events to local profiles.
type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// ResolveExternal returns the local profile for an external auth result,
// creating one on first sight.
//
// Lookup order: by external subject, then by email (attaching the subject if
// the profile has none on record; never overwriting one that differs). A
// brand-new profile gets role admin only when the user table is empty. That
// count-then-insert is not atomic; two concurrent first registrations could
// both see zero. The unique index on email is the authoritative guard for
// duplicates, and the window is accepted for the admin rule.
func (s *IdentityService) ResolveExternal(id ExternalIdentity) (*models.User, error) {
	if err := checkStruct(id); err != nil {
		return nil, err
	}

	var user models.User
	if id.Subject != "" {
		err := s.db.Where("auth_user_id = ?", id.Subject).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, upstream(err)
		}
	}

	err := s.db.Where("email = ?", id.Email).First(&user).Error
	if err == nil {
		if user.AuthUserID == "" && id.Subject != "" {
			if err := s.db.Model(&user).Update("auth_user_id", id.Subject).Error; err != nil {
				return nil, upstream(err)
			}
			user.AuthUserID = id.Subject
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstream(err)
	}

	return s.createProfile(models.User{
		Email:      id.Email,
		AuthUserID: id.Subject,
		Name:       id.Name,
	})
}

// createProfile inserts a new user, granting admin to the first one ever.
func (s *IdentityService) createProfile(user models.User) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, upstream(err)
	}
	if count == 0 {
		user.Role = models.RoleAdmin
	} else {
		user.Role = models.RoleUser
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, upstream(err)
	}
	return &user, nil
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Register creates a password-based profile. The first-user-is-admin rule
// applies here exactly as in ResolveExternal.
func (s *IdentityService) Register(email, password string) (*models.User, error) {
	if err := checkStruct(credentials{Email: email, Password: password}); err != nil {
		return nil, err
	}

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstream(err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.createProfile(models.User{Email: email, PasswordHash: hash})
}

// Authenticate verifies email/password credentials. It returns ErrNotFound
// for both unknown email and wrong password so login errors do not reveal
// which of the two failed, and ErrForbidden for banned accounts.
func (s *IdentityService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, upstream(err)
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrNotFound
	}
	if user.IsBanned() {
		return nil, ErrForbidden
	}
	return &user, nil
}

type profileUpdate struct {
	Name string `validate:"max=50"`
	Bio  string `validate:"max=500"`
}

// UpdateProfile lets a user change their display name and bio.
func (s *IdentityService) UpdateProfile(userID uint, name, bio string) error {
	if err := checkStruct(profileUpdate{Name: name, Bio: bio}); err != nil {
		return err
	}
	res := s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{"name": name, "bio": bio})
	if res.Error != nil {
		return upstream(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
