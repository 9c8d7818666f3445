package models

import "time"

// ReviewStatus labels the lifecycle state of a reviewer invitation.
type ReviewStatus string

const (
	ReviewInvited   ReviewStatus = "invited"
	ReviewAccepted  ReviewStatus = "accepted"
	ReviewDeclined  ReviewStatus = "declined"
	ReviewCompleted ReviewStatus = "completed"
	ReviewExpired   ReviewStatus = "expired"
)

// Review recommendations submitted on completion.
const (
	RecommendAccept        = "accept"
	RecommendMinorRevision = "minorRevision"
	RecommendMajorRevision = "majorRevision"
	RecommendReject        = "reject"
)

// Review represents one reviewer invitation for an (article, reviewer, round).
// Recommendation and comments are only meaningful once status is completed.
type Review struct {
	ReviewID         int          `gorm:"primaryKey;column:review_id" json:"review_id"`
	ArticleID        int          `gorm:"column:article_id" json:"article_id"`
	ReviewerID       int          `gorm:"column:reviewer_id" json:"reviewer_id"`
	Round            int          `gorm:"column:round" json:"round"`
	Status           ReviewStatus `gorm:"column:status" json:"status"`
	ResponseDeadline time.Time    `gorm:"column:response_deadline" json:"response_deadline"`
	ReviewDeadline   time.Time    `gorm:"column:review_deadline" json:"review_deadline"`

	Recommendation    *string `gorm:"column:recommendation" json:"recommendation,omitempty"`
	CommentsForAuthor *string `gorm:"column:comments_for_author" json:"comments_for_author,omitempty"`
	CommentsForEditor *string `gorm:"column:comments_for_editor" json:"comments_for_editor,omitempty"`
	DeclineReason     *string `gorm:"column:decline_reason" json:"decline_reason,omitempty"`

	ReminderCount  int        `gorm:"column:reminder_count" json:"reminder_count"`
	LastReminderAt *time.Time `gorm:"column:last_reminder_at" json:"last_reminder_at,omitempty"`
	RespondedAt    *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Article  *Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Reviewer *User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// IsTerminal reports whether the review can no longer change state.
func (r *Review) IsTerminal() bool {
	return r.Status == ReviewDeclined || r.Status == ReviewCompleted || r.Status == ReviewExpired
}

// TableName specifies the table name for Review.
func (Review) TableName() string {
	return "reviews"
}
