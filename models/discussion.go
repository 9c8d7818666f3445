package models

import "time"

// Discussion thread types.
const (
	DiscussionGeneral   = "general"
	DiscussionReview    = "review"
	DiscussionRevision  = "revision"
	DiscussionEditorial = "editorial"
)

// Discussion is a message thread scoped to one article. The participant list
// gates who may read and post.
type Discussion struct {
	DiscussionID int        `gorm:"primaryKey;column:discussion_id" json:"discussion_id"`
	ArticleID    int        `gorm:"column:article_id" json:"article_id"`
	Subject      string     `gorm:"column:subject" json:"subject"`
	Type         string     `gorm:"column:type" json:"type"`
	CreatedBy    int        `gorm:"column:created_by" json:"created_by"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Article      *Article                `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Creator      *User                   `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Participants []DiscussionParticipant `gorm:"foreignKey:DiscussionID" json:"participants,omitempty"`
	Messages     []DiscussionMessage     `gorm:"foreignKey:DiscussionID" json:"messages,omitempty"`
}

type DiscussionParticipant struct {
	ParticipantID int       `gorm:"primaryKey;column:participant_id" json:"participant_id"`
	DiscussionID  int       `gorm:"column:discussion_id" json:"discussion_id"`
	UserID        int       `gorm:"column:user_id" json:"user_id"`
	JoinedAt      time.Time `gorm:"column:joined_at" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// DiscussionMessage is one append-only entry of a thread, ordered by sent time.
// The server-assigned MessageID is the identity clients reconcile on.
type DiscussionMessage struct {
	MessageID    int       `gorm:"primaryKey;column:message_id" json:"message_id"`
	DiscussionID int       `gorm:"column:discussion_id" json:"discussion_id"`
	SenderID     int       `gorm:"column:sender_id" json:"sender_id"`
	Content      string    `gorm:"column:content" json:"content"`
	SentAt       time.Time `gorm:"column:sent_at" json:"sent_at"`

	Sender      *User               `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Attachments []MessageAttachment `gorm:"foreignKey:MessageID" json:"attachments,omitempty"`
	ReadBy      []MessageRead       `gorm:"foreignKey:MessageID" json:"read_by,omitempty"`
}

// MessageAttachment links an uploaded file to a message.
type MessageAttachment struct {
	AttachmentID int `gorm:"primaryKey;column:attachment_id" json:"attachment_id"`
	MessageID    int `gorm:"column:message_id" json:"message_id"`
	FileID       int `gorm:"column:file_id" json:"file_id"`

	File *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

// MessageRead is a read receipt for one (message, user) pair.
type MessageRead struct {
	ReadID    int       `gorm:"primaryKey;column:read_id" json:"read_id"`
	MessageID int       `gorm:"column:message_id" json:"message_id"`
	UserID    int       `gorm:"column:user_id" json:"user_id"`
	ReadAt    time.Time `gorm:"column:read_at" json:"read_at"`
}

// HasParticipant reports whether the given user is on the thread roster.
func (d *Discussion) HasParticipant(userID int) bool {
	for _, p := range d.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// TableName overrides
func (Discussion) TableName() string {
	return "discussions"
}

func (DiscussionParticipant) TableName() string {
	return "discussion_participants"
}

func (DiscussionMessage) TableName() string {
	return "discussion_messages"
}

func (MessageAttachment) TableName() string {
	return "message_attachments"
}

func (MessageRead) TableName() string {
	return "message_reads"
}
