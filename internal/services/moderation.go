package services

import (
	"errors"

	"sqmcc/internal/models"

	"gorm.io/gorm"
)

// ModerationService applies administrator-only transitions to submitted
// content and user accounts. Capability checking (is the requester an admin)
// happens at the route boundary; every operation here is idempotent.
type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// ApproveTopic moves a pending topic to approved. Re-approving is a no-op
// success. A hidden topic has no modeled way back, so approving one is a
// conflict.
func (s *ModerationService) ApproveTopic(id uint) error {
	return s.setTopicStatus(id, models.TopicApproved)
}

// HideTopic hides a pending or approved topic.
func (s *ModerationService) HideTopic(id uint) error {
	return s.setTopicStatus(id, models.TopicHidden)
}

func (s *ModerationService) setTopicStatus(id uint, status string) error {
	var topic models.Topic
	if err := s.db.First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return upstream(err)
	}

	if topic.Status == status {
		return nil
	}
	if topic.Status == models.TopicHidden {
		// hidden is terminal
		return ErrConflict
	}

	if err := s.db.Model(&topic).Update("status", status).Error; err != nil {
		return upstream(err)
	}
	return nil
}

// DeleteTopic removes a topic and everything under it. Comments go first:
// the schema has no cascading constraint from comments to topics, and the
// two deletes are independent network calls. A crash in between leaves a
// topic without comments, which is the safe ordering — never orphaned
// comments.
func (s *ModerationService) DeleteTopic(id uint) error {
	var topic models.Topic
	if err := s.db.First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return upstream(err)
	}

	if err := s.db.
		Where("parent_type = ? AND parent_id = ?", models.ParentTopic, topic.ID).
		Delete(&models.Comment{}).Error; err != nil {
		return upstream(err)
	}
	if err := s.db.Delete(&topic).Error; err != nil {
		return upstream(err)
	}
	return nil
}

// DeleteComment removes a single comment.
func (s *ModerationService) DeleteComment(id uint) error {
	res := s.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return upstream(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BanUser sets the account role to banned. Content stays; the session is not
// revoked here, but LoadUser re-reads the role on every request so the ban
// takes effect on the user's next request.
func (s *ModerationService) BanUser(id uint) error {
	return s.setUserRole(id, models.RoleBanned)
}

// PromoteUser grants the administrator role.
func (s *ModerationService) PromoteUser(id uint) error {
	return s.setUserRole(id, models.RoleAdmin)
}

func (s *ModerationService) setUserRole(id uint, role string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return upstream(res.Error)
	}
	if res.RowsAffected == 0 {
		// Updating to the role the user already has also reports zero rows
		// on some drivers, so double-check existence before calling it
		// missing.
		var count int64
		if err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return upstream(err)
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}
