package controllers

import (
	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetVolumes returns all volumes with their issues.
func GetVolumes(c *gin.Context) {
	var volumes []models.Volume
	if err := config.DB.Preload("Issues").
		Where("delete_at IS NULL").
		Order("year DESC, volume_number DESC").
		Find(&volumes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch volumes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"volumes": volumes})
}

// GetIssues returns issues, optionally filtered by volume or status.
func GetIssues(c *gin.Context) {
	query := config.DB.Preload("Volume").Where("issues.delete_at IS NULL")

	if volumeID := c.Query("volume_id"); volumeID != "" {
		query = query.Where("volume_id = ?", volumeID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var issues []models.Issue
	if err := query.Order("issue_number DESC").Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// GetIssue returns one issue with its published articles.
func GetIssue(c *gin.Context) {
	id := c.Param("id")

	var issue models.Issue
	if err := config.DB.Preload("Volume").
		Preload("Articles", "delete_at IS NULL").
		Preload("Articles.Authors").
		Where("issue_id = ? AND issues.delete_at IS NULL", id).
		First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// CreateIssue opens a forthcoming issue inside a volume, creating the volume
// on first use of a (volume_number, year) pair.
func CreateIssue(c *gin.Context) {
	type createIssueRequest struct {
		VolumeNumber int     `json:"volume_number" binding:"required,gt=0"`
		Year         int     `json:"year" binding:"required,gt=0"`
		IssueNumber  int     `json:"issue_number" binding:"required,gt=0"`
		Title        *string `json:"title"`
	}

	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()

	var volume models.Volume
	err := config.DB.Where("volume_number = ? AND year = ? AND delete_at IS NULL",
		req.VolumeNumber, req.Year).First(&volume).Error
	if err != nil {
		volume = models.Volume{
			VolumeNumber: req.VolumeNumber,
			Year:         req.Year,
			CreateAt:     &now,
			UpdateAt:     &now,
		}
		if err := config.DB.Create(&volume).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create volume"})
			return
		}
	}

	var existing int64
	config.DB.Model(&models.Issue{}).
		Where("volume_id = ? AND issue_number = ? AND delete_at IS NULL", volume.VolumeID, req.IssueNumber).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Issue already exists in this volume"})
		return
	}

	issue := models.Issue{
		VolumeID:    volume.VolumeID,
		IssueNumber: req.IssueNumber,
		Title:       req.Title,
		Status:      "forthcoming",
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	issue.Volume = &volume
	c.JSON(http.StatusCreated, gin.H{
		"message": "Issue created",
		"issue":   issue,
	})
}

// AssignArticlesToIssue places accepted articles into an issue without
// publishing them yet. Publication itself goes through the publish endpoint.
func AssignArticlesToIssue(c *gin.Context) {
	id := c.Param("id")

	type assignRequest struct {
		ArticleIDs []int `json:"article_ids" binding:"required"`
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var issue models.Issue
	if err := config.DB.Where("issue_id = ? AND delete_at IS NULL", id).
		First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	assigned := make([]int, 0, len(req.ArticleIDs))
	for _, articleID := range req.ArticleIDs {
		var article models.Article
		if err := config.DB.Where("article_id = ? AND delete_at IS NULL", articleID).
			First(&article).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		if article.Status != models.StatusAccepted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only accepted articles can be assigned to an issue"})
			return
		}
		if err := config.DB.Model(&article).Update("issue_id", issue.IssueID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign articles"})
			return
		}
		assigned = append(assigned, articleID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Articles assigned to issue",
		"assigned": assigned,
	})
}

// PublishIssue marks an issue as published. Every article in the issue must
// already be published through the article publish endpoint.
func PublishIssue(c *gin.Context) {
	id := c.Param("id")

	var issue models.Issue
	if err := config.DB.Preload("Articles", "delete_at IS NULL").
		Where("issue_id = ? AND issues.delete_at IS NULL", id).
		First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	if issue.Status == "published" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Issue is already published"})
		return
	}

	for _, article := range issue.Articles {
		if !services.CanTransition(article.Status, models.StatusPublished) && !article.IsPublished() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "All assigned articles must be accepted or published first",
			})
			return
		}
	}

	now := time.Now()
	issue.Status = "published"
	issue.PublishedAt = &now
	issue.UpdateAt = &now

	if err := config.DB.Save(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue published",
		"issue":   issue,
	})
}
