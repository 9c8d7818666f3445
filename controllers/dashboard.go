package controllers

import (
	"journal-management-api/config"
	"journal-management-api/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns the editor desk overview: article counts per
// workflow status, open review load, and recent submissions.
func GetDashboardStats(c *gin.Context) {
	type statusCount struct {
		Status models.ArticleStatus `json:"status"`
		Count  int64                `json:"count"`
	}

	var byStatus []statusCount
	if err := config.DB.Model(&models.Article{}).
		Select("status, COUNT(*) as count").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	var pendingReviews int64
	config.DB.Model(&models.Review{}).
		Where("status IN ? AND delete_at IS NULL",
			[]models.ReviewStatus{models.ReviewInvited, models.ReviewAccepted}).
		Count(&pendingReviews)

	var openDiscussions int64
	config.DB.Model(&models.Discussion{}).
		Where("delete_at IS NULL").
		Count(&openDiscussions)

	var recent []models.Article
	config.DB.Preload("Field").
		Where("delete_at IS NULL AND status = ?", models.StatusSubmitted).
		Order("submitted_at DESC").Limit(10).
		Find(&recent)

	c.JSON(http.StatusOK, gin.H{
		"articles_by_status": byStatus,
		"pending_reviews":    pendingReviews,
		"open_discussions":   openDiscussions,
		"recent_submissions": recent,
	})
}
