package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func TestAddMessageRoundTripReturnsSenderMessage(t *testing.T) {
	mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	SetDiscussionHub(nil)

	content := "Please see the revised figures."
	sentAt := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM `discussions`").
		WillReturnRows(sqlmock.NewRows([]string{"discussion_id", "article_id", "subject", "type", "created_by"}).
			AddRow(5, 3, "Figure quality", "general", 9))
	mock.ExpectQuery("SELECT (.+) FROM `discussion_participants`").
		WillReturnRows(sqlmock.NewRows([]string{"participant_id", "discussion_id", "user_id", "joined_at"}).
			AddRow(1, 5, 9, sentAt))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `discussion_messages`").
		WithArgs(5, 9, content, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec("UPDATE `discussions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Reload of the stored record for the response and broadcast.
	mock.ExpectQuery("SELECT (.+) FROM `discussion_messages`").
		WillReturnRows(sqlmock.NewRows([]string{"message_id", "discussion_id", "sender_id", "content", "sent_at"}).
			AddRow(77, 5, 9, content, sentAt))
	mock.ExpectQuery("SELECT (.+) FROM `message_attachments`").
		WillReturnRows(sqlmock.NewRows([]string{"attachment_id", "message_id", "file_id"}))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "user_fname", "user_lname", "email", "role_id"}).
			AddRow(9, "Noor", "Author", "noor@example.org", models.RoleAuthor))

	c, w := newJSONRequest(t, http.MethodPost, `{"content":"Please see the revised figures."}`)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Set("userID", 9)
	c.Set("roleID", models.RoleAuthor)

	AddMessage(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.DiscussionMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// The caller gets back exactly the stored message, attributed to them.
	if resp.Data.MessageID != 77 {
		t.Fatalf("expected message id 77, got %d", resp.Data.MessageID)
	}
	if resp.Data.SenderID != 9 {
		t.Fatalf("expected sender 9, got %d", resp.Data.SenderID)
	}
	if resp.Data.Content != content {
		t.Fatalf("unexpected content: %q", resp.Data.Content)
	}
	if resp.Data.Sender == nil || resp.Data.Sender.UserID != 9 {
		t.Fatalf("expected sender record for user 9, got %+v", resp.Data.Sender)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
