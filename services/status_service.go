package services

import (
	"errors"
	"fmt"
	"journal-management-api/config"
	"journal-management-api/models"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidTransition is returned when a requested status change is not in the
// editorial workflow table.
var ErrInvalidTransition = errors.New("status transition not allowed")

// allowedTransitions is the editorial workflow. It is fixed at compile time and
// consulted by every handler that exposes a status change; there is no second
// copy anywhere else.
var allowedTransitions = map[models.ArticleStatus][]models.ArticleStatus{
	models.StatusDraft:            {models.StatusSubmitted},
	models.StatusSubmitted:        {models.StatusUnderReview, models.StatusRejected},
	models.StatusUnderReview:      {models.StatusRevisionRequired, models.StatusAccepted, models.StatusRejected},
	models.StatusRevisionRequired: {models.StatusResubmitted},
	models.StatusResubmitted:      {models.StatusUnderReview, models.StatusAccepted, models.StatusRejected},
	models.StatusAccepted:         {models.StatusPublished, models.StatusRejected},
	models.StatusRejected:         {},
	models.StatusPublished:        {},
}

// CanTransition reports whether the workflow permits moving an article from
// current to target.
func CanTransition(current, target models.ArticleStatus) bool {
	if current == "" || target == "" {
		return false
	}
	for _, next := range allowedTransitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal next statuses for the given status.
// The returned slice is a copy.
func AllowedTransitions(current models.ArticleStatus) []models.ArticleStatus {
	next := allowedTransitions[current]
	out := make([]models.ArticleStatus, len(next))
	copy(out, next)
	return out
}

// ValidateTransition returns ErrInvalidTransition when the change is not allowed.
func ValidateTransition(current, target models.ArticleStatus) error {
	if !CanTransition(current, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	return nil
}

// IsKnownStatus reports whether the value is one of the workflow statuses.
func IsKnownStatus(status models.ArticleStatus) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// ChangeArticleStatus applies a workflow transition and appends the status
// history entry in one transaction. The round counter increments on every
// entry into underReview. The updated article is returned with history loaded.
func ChangeArticleStatus(articleID int, newStatus models.ArticleStatus, reason string, changedBy int) (*models.Article, error) {
	return changeArticleStatus(articleID, newStatus, reason, changedBy, nil)
}

// PublishToIssue fills the publication block and transitions the article to
// published inside the same transaction, so a failed transition leaves no
// partial issue assignment behind.
func PublishToIssue(articleID, issueID int, doi string, pageStart, pageEnd, changedBy int) (*models.Article, error) {
	return changeArticleStatus(articleID, models.StatusPublished, "", changedBy, func(a *models.Article) {
		a.IssueID = &issueID
		a.DOI = &doi
		a.PageStart = &pageStart
		a.PageEnd = &pageEnd
	})
}

func changeArticleStatus(articleID int, newStatus models.ArticleStatus, reason string, changedBy int, mutate func(*models.Article)) (*models.Article, error) {
	if !IsKnownStatus(newStatus) {
		return nil, fmt.Errorf("unknown status %q", newStatus)
	}

	var article models.Article
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ? AND delete_at IS NULL", articleID).
			First(&article).Error; err != nil {
			return err
		}

		if err := ValidateTransition(article.Status, newStatus); err != nil {
			return err
		}

		now := time.Now()
		oldStatus := article.Status
		article.Status = newStatus
		article.UpdateAt = &now
		if newStatus == models.StatusUnderReview {
			article.CurrentRound++
		}
		if newStatus == models.StatusSubmitted && article.SubmittedAt == nil {
			article.SubmittedAt = &now
		}
		if newStatus == models.StatusPublished {
			article.PublishedAt = &now
		}
		if mutate != nil {
			mutate(&article)
		}

		if err := tx.Save(&article).Error; err != nil {
			return err
		}

		history := models.ArticleStatusHistory{
			ArticleID: article.ArticleID,
			OldStatus: &oldStatus,
			NewStatus: newStatus,
			ChangedBy: changedBy,
			Round:     article.CurrentRound,
			CreatedAt: now,
		}
		if reason != "" {
			history.Reason = &reason
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	config.DB.Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, history_id ASC")
	}).Preload("StatusHistory.Actor").
		First(&article, article.ArticleID)

	return &article, nil
}
