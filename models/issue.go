package models

import "time"

// Volume groups issues by publication year.
type Volume struct {
	VolumeID     int        `gorm:"primaryKey;column:volume_id" json:"volume_id"`
	VolumeNumber int        `gorm:"column:volume_number" json:"volume_number"`
	Year         int        `gorm:"column:year" json:"year"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Issues []Issue `gorm:"foreignKey:VolumeID" json:"issues,omitempty"`
}

// Issue is one published (or forthcoming) issue inside a volume.
type Issue struct {
	IssueID     int        `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	VolumeID    int        `gorm:"column:volume_id" json:"volume_id"`
	IssueNumber int        `gorm:"column:issue_number" json:"issue_number"`
	Title       *string    `gorm:"column:title" json:"title,omitempty"`
	Status      string     `gorm:"column:status" json:"status"` // forthcoming|published
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Volume   *Volume   `gorm:"foreignKey:VolumeID" json:"volume,omitempty"`
	Articles []Article `gorm:"foreignKey:IssueID" json:"articles,omitempty"`
}

// TableName overrides
func (Volume) TableName() string {
	return "volumes"
}

func (Issue) TableName() string {
	return "issues"
}
