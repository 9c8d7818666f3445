package controllers

import (
	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/monitor"
	"journal-management-api/realtime"
	"journal-management-api/services"
	"journal-management-api/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// discussionHub is wired from main. REST message posting works with a nil hub;
// connected clients simply get no live push (clients poll instead).
var discussionHub *realtime.Hub

// SetDiscussionHub connects the realtime hub to the discussion endpoints.
func SetDiscussionHub(hub *realtime.Hub) {
	discussionHub = hub
}

// GetDiscussions lists discussion threads the user participates in, optionally
// scoped to one article. Editors and admins see every thread.
func GetDiscussions(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := config.DB.Preload("Participants.User").Preload("Creator").Preload("Article").
		Where("discussions.delete_at IS NULL")

	if !isEditorialRole(roleID.(int)) {
		query = query.Where(
			"discussion_id IN (SELECT discussion_id FROM discussion_participants WHERE user_id = ?)",
			userID)
	}

	if articleID := c.Query("article_id"); articleID != "" {
		query = query.Where("article_id = ?", articleID)
	}

	var discussions []models.Discussion
	if err := query.Order("update_at DESC").Find(&discussions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discussions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"discussions": discussions,
		"total":       len(discussions),
	})
}

// GetDiscussion returns one thread with its full ordered message history.
func GetDiscussion(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var discussion models.Discussion
	if err := config.DB.Preload("Participants.User").Preload("Creator").Preload("Article").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at ASC, message_id ASC")
		}).
		Preload("Messages.Sender").Preload("Messages.Attachments.File").Preload("Messages.ReadBy").
		Where("discussion_id = ? AND discussions.delete_at IS NULL", id).
		First(&discussion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
		return
	}

	if !isEditorialRole(roleID.(int)) && !discussion.HasParticipant(userID.(int)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"discussion": discussion})
}

// CreateDiscussion opens a thread on an article with an initial roster. The
// creator is always added to the roster.
func CreateDiscussion(c *gin.Context) {
	type createDiscussionRequest struct {
		ArticleID    int    `json:"article_id" binding:"required"`
		Subject      string `json:"subject" binding:"required"`
		Type         string `json:"type"`
		Participants []int  `json:"participants"`
	}

	var req createDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	discussionType := req.Type
	switch discussionType {
	case "":
		discussionType = models.DiscussionGeneral
	case models.DiscussionGeneral, models.DiscussionReview,
		models.DiscussionRevision, models.DiscussionEditorial:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown discussion type"})
		return
	}

	var article models.Article
	if err := config.DB.Where("article_id = ? AND delete_at IS NULL", req.ArticleID).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	now := time.Now()
	discussion := models.Discussion{
		ArticleID: article.ArticleID,
		Subject:   utils.SanitizeInput(req.Subject),
		Type:      discussionType,
		CreatedBy: userID.(int),
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&discussion).Error; err != nil {
			return err
		}

		roster := map[int]bool{userID.(int): true}
		for _, participantID := range req.Participants {
			roster[participantID] = true
		}
		for participantID := range roster {
			var count int64
			if err := tx.Model(&models.User{}).
				Where("user_id = ? AND delete_at IS NULL", participantID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				continue
			}
			row := models.DiscussionParticipant{
				DiscussionID: discussion.DiscussionID,
				UserID:       participantID,
				JoinedAt:     now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discussion"})
		return
	}

	config.DB.Preload("Participants.User").Preload("Creator").
		First(&discussion, discussion.DiscussionID)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Discussion created",
		"discussion": discussion,
	})
}

// AddMessage appends a message to a thread, links any uploaded attachments,
// and broadcasts the stored record to the discussion room. The broadcast
// carries the server-assigned message id, which is what clients dedupe on.
func AddMessage(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	type addMessageRequest struct {
		Content     string `json:"content" binding:"required"`
		Attachments []int  `json:"attachment_ids"`
	}

	var req addMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content := utils.SanitizeInput(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	var discussion models.Discussion
	if err := config.DB.Preload("Participants").
		Where("discussion_id = ? AND delete_at IS NULL", id).
		First(&discussion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
		return
	}

	if !discussion.HasParticipant(userID.(int)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this discussion"})
		return
	}

	now := time.Now()
	message := models.DiscussionMessage{
		DiscussionID: discussion.DiscussionID,
		SenderID:     userID.(int),
		Content:      content,
		SentAt:       now,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}

		for _, fileID := range req.Attachments {
			var file models.FileUpload
			if err := tx.Where("file_id = ? AND uploaded_by = ? AND delete_at IS NULL", fileID, userID).
				First(&file).Error; err != nil {
				return err
			}
			row := models.MessageAttachment{MessageID: message.MessageID, FileID: file.FileID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Discussion{}).
			Where("discussion_id = ?", discussion.DiscussionID).
			Update("update_at", now).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post message"})
		return
	}

	monitor.MessagesSent.Inc()

	config.DB.Preload("Sender").Preload("Attachments.File").
		First(&message, message.MessageID)

	if discussionHub != nil {
		discussionHub.BroadcastNewMessage(discussion.DiscussionID, message)
	}

	articleID := discussion.ArticleID
	for _, participant := range discussion.Participants {
		if participant.UserID == userID.(int) {
			continue
		}
		services.NotifyUser(participant.UserID, "New discussion message",
			"A new message was posted in \""+discussion.Subject+"\".", "info", &articleID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message posted",
		"data":    message,
	})
}

// MarkDiscussionRead records read receipts for every message in the thread
// that the user has not acknowledged yet.
func MarkDiscussionRead(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	var discussion models.Discussion
	if err := config.DB.Preload("Participants").
		Where("discussion_id = ? AND delete_at IS NULL", id).
		First(&discussion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
		return
	}

	if !discussion.HasParticipant(userID.(int)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this discussion"})
		return
	}

	var unread []models.DiscussionMessage
	if err := config.DB.
		Where("discussion_id = ? AND sender_id != ?", discussion.DiscussionID, userID).
		Where("message_id NOT IN (SELECT message_id FROM message_reads WHERE user_id = ?)", userID).
		Find(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark discussion read"})
		return
	}

	now := time.Now()
	for _, message := range unread {
		receipt := models.MessageRead{
			MessageID: message.MessageID,
			UserID:    userID.(int),
			ReadAt:    now,
		}
		if err := config.DB.Create(&receipt).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark discussion read"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Discussion marked as read",
		"marked_read": len(unread),
	})
}
