package models

import "time"

// ArticleStatus labels the editorial stage of a submission.
type ArticleStatus string

const (
	StatusDraft            ArticleStatus = "draft"
	StatusSubmitted        ArticleStatus = "submitted"
	StatusUnderReview      ArticleStatus = "underReview"
	StatusRevisionRequired ArticleStatus = "revisionRequired"
	StatusResubmitted      ArticleStatus = "resubmitted"
	StatusAccepted         ArticleStatus = "accepted"
	StatusRejected         ArticleStatus = "rejected"
	StatusPublished        ArticleStatus = "published"
)

// Article is the central submission record.
type Article struct {
	ArticleID   int     `gorm:"primaryKey;column:article_id" json:"article_id"`
	Title       string  `gorm:"column:title" json:"title"`
	TitlePrefix *string `gorm:"column:title_prefix" json:"title_prefix,omitempty"`
	Subtitle    *string `gorm:"column:subtitle" json:"subtitle,omitempty"`
	Abstract    string  `gorm:"column:abstract" json:"abstract"`
	Language    string  `gorm:"column:language" json:"language"`
	FieldID     int     `gorm:"column:field_id" json:"field_id"`

	Status       ArticleStatus `gorm:"column:status" json:"status"`
	CurrentRound int           `gorm:"column:current_round" json:"current_round"`

	ManuscriptFileID *int `gorm:"column:manuscript_file_id" json:"manuscript_file_id,omitempty"`
	ThumbnailFileID  *int `gorm:"column:thumbnail_file_id" json:"thumbnail_file_id,omitempty"`

	// Publication block, filled when the article is placed in an issue.
	IssueID   *int    `gorm:"column:issue_id" json:"issue_id,omitempty"`
	DOI       *string `gorm:"column:doi" json:"doi,omitempty"`
	PageStart *int    `gorm:"column:page_start" json:"page_start,omitempty"`
	PageEnd   *int    `gorm:"column:page_end" json:"page_end,omitempty"`

	SubmittedBy int        `gorm:"column:submitted_by" json:"submitted_by"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Field           ResearchField          `gorm:"foreignKey:FieldID" json:"field,omitempty"`
	SecondaryFields []ArticleField         `gorm:"foreignKey:ArticleID" json:"secondary_fields,omitempty"`
	Authors         []ArticleAuthor        `gorm:"foreignKey:ArticleID" json:"authors,omitempty"`
	Keywords        []ArticleKeyword       `gorm:"foreignKey:ArticleID" json:"keywords,omitempty"`
	StatusHistory   []ArticleStatusHistory `gorm:"foreignKey:ArticleID" json:"status_history,omitempty"`
	Submitter       *User                  `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	Issue           *Issue                 `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
	ManuscriptFile  *FileUpload            `gorm:"foreignKey:ManuscriptFileID" json:"manuscript_file,omitempty"`
	ThumbnailFile   *FileUpload            `gorm:"foreignKey:ThumbnailFileID" json:"thumbnail_file,omitempty"`
}

// ArticleAuthor is one entry of the ordered author list. Exactly one author per
// article carries IsCorresponding.
type ArticleAuthor struct {
	AuthorID        int     `gorm:"primaryKey;column:author_id" json:"author_id"`
	ArticleID       int     `gorm:"column:article_id" json:"article_id"`
	UserID          *int    `gorm:"column:user_id" json:"user_id,omitempty"`
	FullName        string  `gorm:"column:full_name" json:"full_name"`
	Email           string  `gorm:"column:email" json:"email"`
	Affiliation     *string `gorm:"column:affiliation" json:"affiliation,omitempty"`
	AuthorOrder     int     `gorm:"column:author_order" json:"author_order"`
	IsCorresponding bool    `gorm:"column:is_corresponding" json:"is_corresponding"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type ArticleKeyword struct {
	KeywordID int    `gorm:"primaryKey;column:keyword_id" json:"keyword_id"`
	ArticleID int    `gorm:"column:article_id" json:"article_id"`
	Keyword   string `gorm:"column:keyword" json:"keyword"`
}

// ArticleField links an article to a secondary research field.
type ArticleField struct {
	ArticleFieldID int `gorm:"primaryKey;column:article_field_id" json:"article_field_id"`
	ArticleID      int `gorm:"column:article_id" json:"article_id"`
	FieldID        int `gorm:"column:field_id" json:"field_id"`

	Field ResearchField `gorm:"foreignKey:FieldID" json:"field,omitempty"`
}

type ResearchField struct {
	FieldID   int        `gorm:"primaryKey;column:field_id" json:"field_id"`
	FieldName string     `gorm:"column:field_name" json:"field_name"`
	Status    string     `gorm:"column:status" json:"status"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// IsPublished reports whether the article reached its immutable terminal stage.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// TableName overrides
func (Article) TableName() string {
	return "articles"
}

func (ArticleAuthor) TableName() string {
	return "article_authors"
}

func (ArticleKeyword) TableName() string {
	return "article_keywords"
}

func (ArticleField) TableName() string {
	return "article_fields"
}

func (ResearchField) TableName() string {
	return "research_fields"
}
