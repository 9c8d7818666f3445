package controllers

import (
	"fmt"
	"journal-management-api/config"
	"journal-management-api/models"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 20 * 1024 * 1024 // 20MB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".tex":  true,
	".zip":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func uploadDir() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// UploadFile stores a binary and registers its metadata row. When the upload
// targets an article as manuscript or thumbnail the file id is linked into the
// article in the same request; each step aborts the remaining ones on failure.
func UploadFile(c *gin.Context) {
	userID, _ := c.Get("userID")

	kind := c.DefaultPostForm("kind", models.FileKindAttachment)
	switch kind {
	case models.FileKindManuscript, models.FileKindThumbnail, models.FileKindAttachment:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown file kind"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 20MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}

	// Optional article target, either from the route or the form.
	var article *models.Article
	articleParam := c.Param("articleId")
	if articleParam == "" {
		articleParam = c.PostForm("article_id")
	}
	if articleParam != "" {
		articleID, err := strconv.Atoi(articleParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
			return
		}
		var found models.Article
		if err := config.DB.Where("article_id = ? AND delete_at IS NULL", articleID).
			First(&found).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		if found.IsPublished() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Published articles cannot receive new files"})
			return
		}
		article = &found
	}

	now := time.Now()
	record := models.FileUpload{
		Kind:         kind,
		OriginalName: filepath.Base(file.Filename),
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   userID.(int),
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if article != nil {
		record.ArticleID = &article.ArticleID
	}

	switch kind {
	case models.FileKindThumbnail:
		if !record.IsValidImageType() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Thumbnails must be an image"})
			return
		}
	case models.FileKindManuscript:
		if !record.IsValidDocumentType() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Manuscripts must be a PDF or Word document"})
			return
		}
	}

	if err := os.MkdirAll(uploadDir(), os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	storedName := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	storedPath := filepath.Join(uploadDir(), storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	record.StoredPath = storedPath

	if err := config.DB.Create(&record).Error; err != nil {
		os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register file"})
		return
	}

	// Link manuscript/thumbnail into the parent article last.
	if article != nil && kind != models.FileKindAttachment {
		column := "manuscript_file_id"
		if kind == models.FileKindThumbnail {
			column = "thumbnail_file_id"
		}
		if err := config.DB.Model(article).Update(column, record.FileID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link file to article"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    record,
	})
}

// GetArticleFiles lists files registered for an article.
func GetArticleFiles(c *gin.Context) {
	articleID := c.Param("articleId")

	var files []models.FileUpload
	if err := config.DB.Preload("Uploader").
		Where("article_id = ? AND delete_at IS NULL", articleID).
		Order("uploaded_at DESC").Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"total": len(files),
	})
}

// DownloadFile streams a stored file back with its original name.
func DownloadFile(c *gin.Context) {
	id := c.Param("id")

	var file models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", id).
		First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if _, err := os.Stat(file.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found on disk"})
		return
	}

	c.FileAttachment(file.StoredPath, file.OriginalName)
}

// DeleteFile soft deletes a file record. Only the uploader or editorial staff
// may remove a file, and files linked to published articles stay.
func DeleteFile(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var file models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", id).
		First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if file.UploadedBy != userID.(int) && !isEditorialRole(roleID.(int)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	if file.ArticleID != nil {
		var article models.Article
		if err := config.DB.Where("article_id = ?", *file.ArticleID).
			First(&article).Error; err == nil && article.IsPublished() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Files of published articles cannot be deleted"})
			return
		}
	}

	now := time.Now()
	file.DeleteAt = &now
	file.UpdateAt = now

	if err := config.DB.Save(&file).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
