package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB backs config.DB with a sqlmock connection so transactional paths
// can run without a live database.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	config.DB = gdb
	t.Cleanup(func() {
		config.DB = nil
		db.Close()
	})
	return mock
}

var articleColumns = []string{
	"article_id", "title", "abstract", "language", "field_id",
	"status", "current_round", "submitted_by",
}

func articleRow(status models.ArticleStatus, round int) *sqlmock.Rows {
	return sqlmock.NewRows(articleColumns).
		AddRow(42, "Graph Sparsification in Practice", strings.Repeat("a", 60), "en", 2, string(status), round, 9)
}

func TestChangeArticleStatusAppendsHistoryWithReason(t *testing.T) {
	mock := newMockDB(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `articles`").
		WillReturnRows(articleRow(models.StatusUnderReview, 1))
	mock.ExpectExec("UPDATE `articles`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `article_status_history`").
		WithArgs(42, "underReview", "accepted", 9, "looks good", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	// Reload of the article with its ordered history.
	mock.ExpectQuery("SELECT (.+) FROM `articles`").
		WillReturnRows(articleRow(models.StatusAccepted, 1))
	mock.ExpectQuery("SELECT (.+) FROM `article_status_history`").
		WillReturnRows(sqlmock.NewRows([]string{
			"history_id", "article_id", "old_status", "new_status", "changed_by", "reason", "round", "created_at",
		}).AddRow(5, 42, "underReview", "accepted", 9, "looks good", 1, now))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "user_fname", "user_lname", "email", "role_id"}).
			AddRow(9, "Edna", "Editor", "edna@example.org", models.RoleEditor))

	updated, err := ChangeArticleStatus(42, models.StatusAccepted, "looks good", 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.StatusAccepted {
		t.Fatalf("expected status accepted, got %s", updated.Status)
	}
	if len(updated.StatusHistory) != 1 {
		t.Fatalf("expected one history entry, got %d", len(updated.StatusHistory))
	}
	entry := updated.StatusHistory[0]
	if entry.NewStatus != models.StatusAccepted {
		t.Fatalf("expected history new status accepted, got %s", entry.NewStatus)
	}
	if entry.Reason == nil || *entry.Reason != "looks good" {
		t.Fatalf("expected history reason %q, got %v", "looks good", entry.Reason)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPublishToIssueRollsBackOnIllegalTransition(t *testing.T) {
	mock := newMockDB(t)

	// The article moved off accepted between the handler's check and the
	// transaction's re-read; nothing may be written.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `articles`").
		WillReturnRows(articleRow(models.StatusUnderReview, 1))
	mock.ExpectRollback()

	_, err := PublishToIssue(42, 3, "10.1234/jmx.42", 117, 133, 9)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// No UPDATE or INSERT may have reached the connection.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
