package controllers

import (
	"errors"
	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/monitor"
	"journal-management-api/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChangeArticleStatus moves an article through the editorial workflow. The
// transition is checked against the workflow table and recorded with the
// acting user and the supplied reason.
func ChangeArticleStatus(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	type statusChangeRequest struct {
		Status models.ArticleStatus `json:"status" binding:"required"`
		Reason string               `json:"reason"`
	}

	var req statusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var article models.Article
	if err := config.DB.Preload("Authors").
		Where("article_id = ? AND delete_at IS NULL", id).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	// Authors may only submit their own drafts; everything else is an
	// editorial action.
	if !isEditorialRole(roleID.(int)) {
		ownDraftSubmit := article.SubmittedBy == userID.(int) &&
			article.Status == models.StatusDraft &&
			req.Status == models.StatusSubmitted
		if !ownDraftSubmit {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	// Publishing carries issue assignment and must go through the publish
	// endpoint so the publication block is filled in.
	if req.Status == models.StatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Use the publish endpoint to publish an article"})
		return
	}

	updated, err := services.ChangeArticleStatus(article.ArticleID, req.Status, req.Reason, userID.(int))
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change article status"})
		return
	}

	monitor.StatusTransitions.WithLabelValues(string(req.Status)).Inc()
	updated.Authors = article.Authors
	services.NotifyStatusChange(updated, req.Status, req.Reason)

	c.JSON(http.StatusOK, gin.H{
		"message": "Article status updated",
		"article": updated,
	})
}

// PublishArticle assigns an accepted article to an issue and transitions it to
// published, filling in DOI and page range.
func PublishArticle(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	type publishRequest struct {
		DOI       string `json:"doi" binding:"required"`
		PageStart int    `json:"page_start" binding:"required,gt=0"`
		PageEnd   int    `json:"page_end" binding:"required,gt=0"`
		IssueID   int    `json:"issue_id" binding:"required"`
	}

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PageEnd < req.PageStart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Page range is invalid"})
		return
	}

	var article models.Article
	if err := config.DB.Preload("Authors").
		Where("article_id = ? AND delete_at IS NULL", id).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if article.Status != models.StatusAccepted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only accepted articles can be published"})
		return
	}

	var issue models.Issue
	if err := config.DB.Where("issue_id = ? AND delete_at IS NULL", req.IssueID).
		First(&issue).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue"})
		return
	}

	// The publication block and the transition are written in one transaction;
	// a failed transition leaves no issue assignment behind.
	updated, err := services.PublishToIssue(article.ArticleID, req.IssueID, req.DOI, req.PageStart, req.PageEnd, userID.(int))
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish article"})
		return
	}

	monitor.StatusTransitions.WithLabelValues(string(models.StatusPublished)).Inc()
	updated.Authors = article.Authors
	services.NotifyStatusChange(updated, models.StatusPublished, "")

	c.JSON(http.StatusOK, gin.H{
		"message": "Article published",
		"article": updated,
	})
}
