package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/realtime"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, hub *realtime.Hub) {
	controllers.SetDiscussionHub(hub)

	// Realtime channel. Auth happens inside the handler because websocket
	// dials carry the token as a query parameter.
	router.GET("/ws", realtime.ServeWS(hub))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Common endpoints (all authenticated users)
			protected.GET("/fields", controllers.GetResearchFields)
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead)

			// Articles
			articles := protected.Group("/articles")
			{
				articles.GET("", controllers.GetArticles)
				articles.GET("/:id", controllers.GetArticle)

				// Authors create and revise their submissions
				articles.POST("", middleware.RequireRole(models.RoleAuthor, models.RoleEditor, models.RoleAdmin), controllers.CreateArticle)
				articles.PUT("/:id/update", controllers.UpdateArticle)
				articles.DELETE("/:id", controllers.DeleteArticle)

				// Workflow transitions; the handler additionally allows an
				// author to submit their own draft
				articles.PUT("/:id/status", controllers.ChangeArticleStatus)
				articles.PUT("/:id/publish", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.PublishArticle)
			}

			// Reviews
			reviews := protected.Group("/reviews")
			{
				reviews.GET("", controllers.GetReviews)

				// Editors manage assignments
				reviews.POST("", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.CreateReview)
				reviews.POST("/:id/reminder", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.SendReviewReminder)

				// Reviewers respond to their own invitations
				reviews.POST("/:id/accept", middleware.RequireRole(models.RoleReviewer), controllers.AcceptReview)
				reviews.POST("/:id/decline", middleware.RequireRole(models.RoleReviewer), controllers.DeclineReview)
				reviews.POST("/:id/complete", middleware.RequireRole(models.RoleReviewer), controllers.CompleteReview)

				// Admin-triggered deadline sweep
				reviews.POST("/expire-overdue", middleware.RequireRole(models.RoleAdmin), controllers.RunReviewExpirySweep)
			}

			// Reviewer directory for assignment pickers
			users := protected.Group("/users")
			users.Use(middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
			{
				users.GET("/lookup", controllers.LookupReviewer)
				users.GET("/reviewers", controllers.GetReviewers)
			}

			// Discussions
			discussions := protected.Group("/discussions")
			{
				discussions.GET("", controllers.GetDiscussions)
				discussions.GET("/:id", controllers.GetDiscussion)
				discussions.POST("", controllers.CreateDiscussion)
				discussions.POST("/:id/messages", controllers.AddMessage)
				discussions.POST("/:id/read", controllers.MarkDiscussionRead)
			}

			// Files
			files := protected.Group("/files")
			{
				files.POST("", controllers.UploadFile)
				files.POST("/:articleId", controllers.UploadFile)
				files.GET("/article/:articleId", controllers.GetArticleFiles)
				files.GET("/download/:id", controllers.DownloadFile)
				files.DELETE("/:id", controllers.DeleteFile)
			}

			// Issues and volumes
			issues := protected.Group("/issues")
			{
				issues.GET("", controllers.GetIssues)
				issues.GET("/:id", controllers.GetIssue)
				issues.GET("/volumes", controllers.GetVolumes)

				issues.POST("", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.CreateIssue)
				issues.POST("/:id/articles", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.AssignArticlesToIssue)
				issues.POST("/:id/publish", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.PublishIssue)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			dashboard.Use(middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}
		}
	}
}
