package services

import (
	"journal-management-api/config"
	"journal-management-api/models"
	"log"
	"time"
)

// NotifyUser records an in-app notification. Failures are logged and swallowed;
// a missed notification must never fail the action that produced it.
func NotifyUser(userID int, title, message, notifType string, articleID *int) {
	if userID == 0 {
		return
	}
	if notifType == "" {
		notifType = "info"
	}

	notification := models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		Type:             notifType,
		RelatedArticleID: articleID,
		IsRead:           false,
		CreateAt:         time.Now(),
	}

	if err := config.DB.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create notification for user %d: %v", userID, err)
	}
}

// NotifyStatusChange fans a status-change notification out to the submitting
// author and the corresponding author when they differ.
func NotifyStatusChange(article *models.Article, newStatus models.ArticleStatus, reason string) {
	message := "Your article \"" + article.Title + "\" moved to status " + string(newStatus) + "."
	if reason != "" {
		message += " Reason: " + reason
	}

	notifType := "info"
	switch newStatus {
	case models.StatusAccepted, models.StatusPublished:
		notifType = "success"
	case models.StatusRejected:
		notifType = "error"
	case models.StatusRevisionRequired:
		notifType = "warning"
	}

	articleID := article.ArticleID
	NotifyUser(article.SubmittedBy, "Article status updated", message, notifType, &articleID)

	for _, author := range article.Authors {
		if author.IsCorresponding && author.UserID != nil && *author.UserID != article.SubmittedBy {
			NotifyUser(*author.UserID, "Article status updated", message, notifType, &articleID)
		}
	}
}
