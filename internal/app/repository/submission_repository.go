package repository

import (
	"time"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
	"gorm.io/gorm"
)

// SubmissionRepository is the order-attempt ledger
type SubmissionRepository interface {
	Create(submission *model.OrderSubmission) error
	FindByUserID(userID string) ([]model.OrderSubmission, error)
	FindBySessionID(sessionID string) ([]model.OrderSubmission, error)
	FindCreatedBetween(from, to time.Time) ([]model.OrderSubmission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.OrderSubmission) error {
	if err := r.db.Create(submission).Error; err != nil {
		logger.Error("Failed to record order submission", err, logger.Fields{
			"session_id": submission.SessionID,
			"status":     submission.Status,
		})
		return err
	}

	logger.Debug("Order submission recorded", logger.Fields{
		"submission_id": submission.ID,
		"session_id":    submission.SessionID,
		"endpoint":      submission.Endpoint,
		"status":        submission.Status,
	})
	return nil
}

func (r *submissionRepository) FindByUserID(userID string) ([]model.OrderSubmission, error) {
	var submissions []model.OrderSubmission
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&submissions).Error; err != nil {
		logger.Error("Failed to find submissions by user", err, logger.Fields{
			"user_id": userID,
		})
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) FindBySessionID(sessionID string) ([]model.OrderSubmission, error) {
	var submissions []model.OrderSubmission
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at DESC, id DESC").Find(&submissions).Error; err != nil {
		logger.Error("Failed to find submissions by session", err, logger.Fields{
			"session_id": sessionID,
		})
		return nil, err
	}
	return submissions, nil
}

// FindCreatedBetween returns attempts in [from, to), oldest first.
func (r *submissionRepository) FindCreatedBetween(from, to time.Time) ([]model.OrderSubmission, error) {
	var submissions []model.OrderSubmission
	if err := r.db.Where("created_at >= ? AND created_at < ?", from, to).Order("created_at ASC, id ASC").Find(&submissions).Error; err != nil {
		logger.Error("Failed to find submissions in range", err, logger.Fields{
			"from": from,
			"to":   to,
		})
		return nil, err
	}
	return submissions, nil
}
