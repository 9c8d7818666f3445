package models

import "time"

// ArticleStatusHistory tracks historical status changes for articles.
// Rows are append-only; every transition records the acting user and an
// optional free-text reason.
type ArticleStatusHistory struct {
	HistoryID int            `gorm:"primaryKey;column:history_id" json:"history_id"`
	ArticleID int            `gorm:"column:article_id" json:"article_id"`
	OldStatus *ArticleStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus ArticleStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy int            `gorm:"column:changed_by" json:"changed_by"`
	Reason    *string        `gorm:"column:reason" json:"reason"`
	Round     int            `gorm:"column:round" json:"round"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`

	Actor *User `gorm:"foreignKey:ChangedBy" json:"actor,omitempty"`
}

// TableName specifies the table for ArticleStatusHistory.
func (ArticleStatusHistory) TableName() string {
	return "article_status_history"
}
