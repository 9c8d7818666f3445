package controllers

import (
	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/monitor"
	"journal-management-api/services"
	"journal-management-api/utils"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func isEditorialRole(roleID int) bool {
	return roleID == models.RoleEditor || roleID == models.RoleAdmin
}

// GetArticles returns a page of articles with status/field/search filters.
func GetArticles(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.Article{}).
		Preload("Field").Preload("Authors").Preload("Keywords").Preload("Issue").
		Where("articles.delete_at IS NULL")

	// Authors only see their own submissions; reviewers see articles they are
	// assigned to; editors and admins see everything.
	switch roleID.(int) {
	case models.RoleAuthor:
		query = query.Where("submitted_by = ?", userID)
	case models.RoleReviewer:
		query = query.Where(
			"article_id IN (SELECT article_id FROM reviews WHERE reviewer_id = ? AND delete_at IS NULL)",
			userID)
	}

	if status := c.Query("status"); status != "" {
		if !services.IsKnownStatus(models.ArticleStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	if field := c.Query("field"); field != "" {
		query = query.Where("field_id = ?", field)
	}

	if search := utils.SanitizeInput(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR abstract LIKE ?", like, like)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}

	var articles []models.Article
	if err := query.Order("create_at DESC").Offset(offset).Limit(limit).
		Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}

	totalPages := (totalCount + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     limit,
			"total_count":  totalCount,
			"total_pages":  totalPages,
			"has_next":     page < int(totalPages),
			"has_prev":     page > 1,
		},
	})
}

// GetArticle returns single article by ID with history, authors, and files.
func GetArticle(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var article models.Article
	query := config.DB.Preload("Field").Preload("SecondaryFields.Field").
		Preload("Authors").Preload("Keywords").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, history_id ASC")
		}).Preload("StatusHistory.Actor").
		Preload("Submitter").Preload("Issue").Preload("Issue.Volume").
		Preload("ManuscriptFile").Preload("ThumbnailFile").
		Where("article_id = ? AND articles.delete_at IS NULL", id)

	if err := query.First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if !canViewArticle(&article, userID.(int), roleID.(int)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article":             article,
		"allowed_transitions": services.AllowedTransitions(article.Status),
	})
}

func canViewArticle(article *models.Article, userID, roleID int) bool {
	if isEditorialRole(roleID) || article.SubmittedBy == userID {
		return true
	}
	if article.Status == models.StatusPublished {
		return true
	}
	if roleID == models.RoleReviewer {
		var count int64
		config.DB.Model(&models.Review{}).
			Where("article_id = ? AND reviewer_id = ? AND delete_at IS NULL", article.ArticleID, userID).
			Count(&count)
		return count > 0
	}
	return false
}

type articleRequest struct {
	Title            string                  `json:"title" binding:"required"`
	TitlePrefix      *string                 `json:"title_prefix"`
	Subtitle         *string                 `json:"subtitle"`
	Abstract         string                  `json:"abstract" binding:"required"`
	Language         string                  `json:"language"`
	FieldID          int                     `json:"field_id" binding:"required"`
	SecondaryFields  []int                   `json:"secondary_field_ids"`
	Keywords         []string                `json:"keywords"`
	Authors          []services.AuthorInput  `json:"authors"`
	ManuscriptFileID *int                    `json:"manuscript_file_id"`
	ThumbnailFileID  *int                    `json:"thumbnail_file_id"`
	SaveAsDraft      bool                    `json:"save_as_draft"`
}

// CreateArticle validates and stores a new submission. Validation runs before
// any row is written; a failing payload never reaches the database.
func CreateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	problems := services.ValidateSubmission(services.SubmissionInput{
		Title:            req.Title,
		Abstract:         req.Abstract,
		FieldID:          req.FieldID,
		Keywords:         req.Keywords,
		Authors:          req.Authors,
		ManuscriptFileID: req.ManuscriptFileID,
	})
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Submission validation failed",
			"fields": problems,
		})
		return
	}

	var field models.ResearchField
	if err := config.DB.Where("field_id = ? AND status = 'active' AND delete_at IS NULL", req.FieldID).
		First(&field).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research field"})
		return
	}

	status := models.StatusSubmitted
	if req.SaveAsDraft {
		status = models.StatusDraft
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	now := time.Now()
	article := models.Article{
		Title:            utils.SanitizeInput(req.Title),
		TitlePrefix:      req.TitlePrefix,
		Subtitle:         req.Subtitle,
		Abstract:         utils.SanitizeInput(req.Abstract),
		Language:         language,
		FieldID:          req.FieldID,
		Status:           status,
		CurrentRound:     0,
		ManuscriptFileID: req.ManuscriptFileID,
		ThumbnailFileID:  req.ThumbnailFileID,
		SubmittedBy:      userID.(int),
		CreateAt:         &now,
		UpdateAt:         &now,
	}
	if status == models.StatusSubmitted {
		article.SubmittedAt = &now
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article).Error; err != nil {
			return err
		}

		if err := createArticleRelations(tx, &article, req); err != nil {
			return err
		}

		history := models.ArticleStatusHistory{
			ArticleID: article.ArticleID,
			NewStatus: status,
			ChangedBy: userID.(int),
			Round:     0,
			CreatedAt: now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
		return
	}

	monitor.ArticlesCreated.Inc()

	config.DB.Preload("Field").Preload("Authors").Preload("Keywords").
		First(&article, article.ArticleID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Article created successfully",
		"article": article,
	})
}

func createArticleRelations(tx *gorm.DB, article *models.Article, req articleRequest) error {
	for i, author := range req.Authors {
		row := models.ArticleAuthor{
			ArticleID:       article.ArticleID,
			UserID:          author.UserID,
			FullName:        utils.SanitizeInput(author.FullName),
			Email:           utils.NormalizeEmail(author.Email),
			Affiliation:     author.Affiliation,
			AuthorOrder:     i + 1,
			IsCorresponding: author.IsCorresponding,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for _, kw := range req.Keywords {
		trimmed := utils.SanitizeInput(kw)
		if trimmed == "" {
			continue
		}
		row := models.ArticleKeyword{ArticleID: article.ArticleID, Keyword: trimmed}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for _, fieldID := range req.SecondaryFields {
		if fieldID == article.FieldID {
			continue
		}
		row := models.ArticleField{ArticleID: article.ArticleID, FieldID: fieldID}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}

// UpdateArticle applies a partial edit. Published articles are immutable.
// Every successful edit appends a history note; an edit to an article awaiting
// revision additionally moves it to resubmitted, which is the only automatic
// transition the workflow table permits.
func UpdateArticle(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	type updateArticleRequest struct {
		Title           *string  `json:"title"`
		TitlePrefix     *string  `json:"title_prefix"`
		Subtitle        *string  `json:"subtitle"`
		Abstract        *string  `json:"abstract"`
		Language        *string  `json:"language"`
		FieldID         *int     `json:"field_id"`
		Keywords        []string `json:"keywords"`
		RevisionSummary string   `json:"revision_summary"`
	}

	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := config.DB.Where("article_id = ? AND delete_at IS NULL", id)
	if !isEditorialRole(roleID.(int)) {
		query = query.Where("submitted_by = ?", userID)
	}

	var article models.Article
	if err := query.First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if article.IsPublished() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Published articles cannot be edited"})
		return
	}

	if req.Title != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*req.Title)) < services.MinTitleLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is too short"})
			return
		}
		article.Title = utils.SanitizeInput(*req.Title)
	}
	if req.TitlePrefix != nil {
		article.TitlePrefix = req.TitlePrefix
	}
	if req.Subtitle != nil {
		article.Subtitle = req.Subtitle
	}
	if req.Abstract != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*req.Abstract)) < services.MinAbstractLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Abstract is too short"})
			return
		}
		article.Abstract = utils.SanitizeInput(*req.Abstract)
	}
	if req.Language != nil {
		article.Language = *req.Language
	}
	if req.FieldID != nil {
		article.FieldID = *req.FieldID
	}

	resubmit := article.Status == models.StatusRevisionRequired

	now := time.Now()
	article.UpdateAt = &now

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Every edit leaves a history note. A plain edit keeps old and new
		// status equal; a resubmission records the transition.
		oldStatus := article.Status
		if resubmit {
			article.Status = models.StatusResubmitted
		}
		history := models.ArticleStatusHistory{
			ArticleID: article.ArticleID,
			OldStatus: &oldStatus,
			NewStatus: article.Status,
			ChangedBy: userID.(int),
			Round:     article.CurrentRound,
			CreatedAt: now,
		}
		if req.RevisionSummary != "" {
			summary := req.RevisionSummary
			history.Reason = &summary
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if err := tx.Save(&article).Error; err != nil {
			return err
		}

		if req.Keywords != nil {
			if err := tx.Where("article_id = ?", article.ArticleID).
				Delete(&models.ArticleKeyword{}).Error; err != nil {
				return err
			}
			for _, kw := range req.Keywords {
				trimmed := utils.SanitizeInput(kw)
				if trimmed == "" {
					continue
				}
				row := models.ArticleKeyword{ArticleID: article.ArticleID, Keyword: trimmed}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
		return
	}

	config.DB.Preload("Field").Preload("Authors").Preload("Keywords").
		First(&article, article.ArticleID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Article updated successfully",
		"article": article,
	})
}

// DeleteArticle soft deletes an article.
func DeleteArticle(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := config.DB.Where("article_id = ? AND delete_at IS NULL", id)
	if !isEditorialRole(roleID.(int)) {
		query = query.Where("submitted_by = ?", userID)
	}

	var article models.Article
	if err := query.First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if article.IsPublished() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Published articles cannot be deleted"})
		return
	}

	now := time.Now()
	article.DeleteAt = &now

	if err := config.DB.Save(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}

// GetResearchFields returns all active research fields.
func GetResearchFields(c *gin.Context) {
	var fields []models.ResearchField
	if err := config.DB.Where("status = 'active' AND delete_at IS NULL").
		Order("field_name ASC").Find(&fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch research fields"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields})
}
