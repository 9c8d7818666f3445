package controllers

import (
	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetReviews returns reviews filtered by article, reviewer, status, or round.
// Reviewers only ever see their own assignments.
func GetReviews(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := config.DB.Preload("Article").Preload("Reviewer").
		Where("reviews.delete_at IS NULL")

	if !isEditorialRole(roleID.(int)) {
		query = query.Where("reviewer_id = ?", userID)
	}

	if articleID := c.Query("article_id"); articleID != "" {
		query = query.Where("article_id = ?", articleID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if round := c.Query("round"); round != "" {
		query = query.Where("round = ?", round)
	}
	if reviewerID := c.Query("reviewer_id"); reviewerID != "" && isEditorialRole(roleID.(int)) {
		query = query.Where("reviewer_id = ?", reviewerID)
	}

	var reviews []models.Review
	if err := query.Order("create_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// CreateReview invites a reviewer for an article round. The invitee is looked
// up by email and must hold the reviewer role; no review row is written until
// that precondition passes.
func CreateReview(c *gin.Context) {
	type createReviewRequest struct {
		ArticleID        int    `json:"article_id" binding:"required"`
		ReviewerEmail    string `json:"reviewer_email" binding:"required,email"`
		ResponseDeadline string `json:"response_deadline" binding:"required"`
		ReviewDeadline   string `json:"review_deadline" binding:"required"`
		Round            int    `json:"round"`
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := utils.NormalizeEmail(req.ReviewerEmail)
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer email"})
		return
	}

	// Reviewer precondition: the user must exist and hold the reviewer role.
	var reviewer models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", email).
		First(&reviewer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No user found for this email"})
		return
	}
	if reviewer.RoleID != models.RoleReviewer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a reviewer"})
		return
	}

	var article models.Article
	if err := config.DB.Where("article_id = ? AND delete_at IS NULL", req.ArticleID).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if article.Status != models.StatusUnderReview {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reviewers can only be assigned while the article is under review"})
		return
	}

	responseDeadline, err := time.Parse("2006-01-02", req.ResponseDeadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response deadline (expected YYYY-MM-DD)"})
		return
	}
	reviewDeadline, err := time.Parse("2006-01-02", req.ReviewDeadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review deadline (expected YYYY-MM-DD)"})
		return
	}
	if reviewDeadline.Before(responseDeadline) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review deadline must not precede the response deadline"})
		return
	}

	round := req.Round
	if round == 0 {
		round = article.CurrentRound
	}

	// One invitation per (article, reviewer, round).
	var existing int64
	config.DB.Model(&models.Review{}).
		Where("article_id = ? AND reviewer_id = ? AND round = ? AND delete_at IS NULL",
			article.ArticleID, reviewer.UserID, round).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reviewer is already assigned for this round"})
		return
	}

	now := time.Now()
	review := models.Review{
		ArticleID:        article.ArticleID,
		ReviewerID:       reviewer.UserID,
		Round:            round,
		Status:           models.ReviewInvited,
		ResponseDeadline: responseDeadline,
		ReviewDeadline:   reviewDeadline,
		CreateAt:         &now,
		UpdateAt:         &now,
	}

	if err := config.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review invitation"})
		return
	}

	articleID := article.ArticleID
	services.NotifyUser(reviewer.UserID, "New review invitation",
		"You have been invited to review \""+article.Title+"\".", "info", &articleID)

	subject, html := services.ReviewInvitationEmail(&review, &article, &reviewer)
	if err := config.SendMail([]string{reviewer.Email}, subject, html); err != nil {
		log.Printf("Warning: failed to send review invitation mail: %v", err)
	}

	config.DB.Preload("Reviewer").Preload("Article").First(&review, review.ReviewID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review invitation created",
		"review":  review,
	})
}

func findOwnReview(c *gin.Context) (*models.Review, bool) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	var review models.Review
	if err := config.DB.Preload("Article").
		Where("review_id = ? AND reviewer_id = ? AND delete_at IS NULL", id, userID).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return nil, false
	}
	return &review, true
}

// AcceptReview records the reviewer's acceptance of an invitation.
func AcceptReview(c *gin.Context) {
	review, ok := findOwnReview(c)
	if !ok {
		return
	}

	if err := services.RespondGuard(review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	review.Status = models.ReviewAccepted
	review.RespondedAt = &now
	review.UpdateAt = &now

	if err := config.DB.Save(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review invitation accepted",
		"review":  review,
	})
}

// DeclineReview records the reviewer's refusal; declined is terminal.
func DeclineReview(c *gin.Context) {
	type declineRequest struct {
		Reason string `json:"reason"`
	}

	var req declineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, ok := findOwnReview(c)
	if !ok {
		return
	}

	if err := services.RespondGuard(review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	review.Status = models.ReviewDeclined
	review.RespondedAt = &now
	review.UpdateAt = &now
	if req.Reason != "" {
		review.DeclineReason = &req.Reason
	}

	if err := config.DB.Save(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review invitation declined",
		"review":  review,
	})
}

// CompleteReview stores the finished review form. Recommendation and comments
// become meaningful only through this call.
func CompleteReview(c *gin.Context) {
	type completeRequest struct {
		Recommendation    string `json:"recommendation" binding:"required"`
		CommentsForAuthor string `json:"comments_for_author"`
		CommentsForEditor string `json:"comments_for_editor"`
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !services.IsKnownRecommendation(req.Recommendation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown recommendation"})
		return
	}

	review, ok := findOwnReview(c)
	if !ok {
		return
	}

	if err := services.CompleteGuard(review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	review.Status = models.ReviewCompleted
	review.Recommendation = &req.Recommendation
	review.CompletedAt = &now
	review.UpdateAt = &now
	if req.CommentsForAuthor != "" {
		review.CommentsForAuthor = &req.CommentsForAuthor
	}
	if req.CommentsForEditor != "" {
		review.CommentsForEditor = &req.CommentsForEditor
	}

	if err := config.DB.Save(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review completed",
		"review":  review,
	})
}

// SendReviewReminder mails the reviewer and bumps the reminder count.
func SendReviewReminder(c *gin.Context) {
	id := c.Param("id")

	var review models.Review
	if err := config.DB.Preload("Article").Preload("Reviewer").
		Where("review_id = ? AND delete_at IS NULL", id).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	if review.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review is already closed"})
		return
	}

	subject, html := services.ReviewReminderEmail(&review, review.Article, review.Reviewer)
	if err := config.SendMail([]string{review.Reviewer.Email}, subject, html); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reminder"})
		return
	}

	now := time.Now()
	review.ReminderCount++
	review.LastReminderAt = &now
	review.UpdateAt = &now
	if err := config.DB.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record reminder"})
		return
	}

	articleID := review.ArticleID
	services.NotifyUser(review.ReviewerID, "Review reminder",
		"A reminder was sent for your review of \""+review.Article.Title+"\".", "warning", &articleID)

	c.JSON(http.StatusOK, gin.H{
		"message":        "Reminder sent",
		"reminder_count": review.ReminderCount,
	})
}

// LookupReviewer resolves an email to a user for the assignment picker. The
// response says whether the user exists and holds the reviewer role.
func LookupReviewer(c *gin.Context) {
	email := utils.NormalizeEmail(c.Query("email"))
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	var user models.User
	if err := config.DB.Preload("Role").
		Where("email = ? AND delete_at IS NULL", email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"found":       true,
		"is_reviewer": user.RoleID == models.RoleReviewer,
		"user": gin.H{
			"user_id":    user.UserID,
			"user_fname": user.UserFname,
			"user_lname": user.UserLname,
			"email":      user.Email,
			"role_id":    user.RoleID,
		},
	})
}

// GetReviewers lists active reviewer accounts for assignment pickers.
func GetReviewers(c *gin.Context) {
	var reviewers []models.User
	query := config.DB.Where("role_id = ? AND delete_at IS NULL", models.RoleReviewer)

	if search := utils.SanitizeInput(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("user_fname LIKE ? OR user_lname LIKE ? OR email LIKE ? OR expertise LIKE ?",
			like, like, like, like)
	}

	if err := query.Order("user_lname ASC").Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviewers": reviewers,
		"total":     len(reviewers),
	})
}

// expireParam is a small helper for admin-triggered sweeps during testing.
func expireParam(c *gin.Context) time.Time {
	if raw := c.Query("as_of"); raw != "" {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(ts, 0)
		}
	}
	return time.Now()
}

// RunReviewExpirySweep lets an admin force the deadline sweep that otherwise
// runs on the cron schedule.
func RunReviewExpirySweep(c *gin.Context) {
	expired, err := services.ExpireOverdueReviews(expireParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Expiry sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expiry sweep complete",
		"expired": expired,
	})
}
