package realtime

import (
	"testing"

	"journal-management-api/config"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB backs config.DB with a sqlmock connection for the participant gate.
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

func participantCount(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

func TestTypingIgnoredForNonParticipants(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery("SELECT count(.+) FROM `discussion_participants`").
		WillReturnRows(participantCount(0))

	hub := NewHub()
	go hub.Run()

	receiver := newTestClient(2, hub)
	hub.Join(receiver, 10)

	outsider := newTestClient(1, hub)
	outsider.handleEvent(Event{Type: EventTyping, DiscussionID: 10})

	assertNoEvent(t, receiver)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTypingRelayedForParticipants(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery("SELECT count(.+) FROM `discussion_participants`").
		WillReturnRows(participantCount(1))

	hub := NewHub()
	go hub.Run()

	sender := newTestClient(1, hub)
	receiver := newTestClient(2, hub)
	hub.Join(sender, 10)
	hub.Join(receiver, 10)

	sender.handleEvent(Event{Type: EventTyping, DiscussionID: 10})

	event := receiveEvent(t, receiver)
	if event.Type != EventTyping || event.UserID != 1 {
		t.Fatalf("unexpected event: %+v", event)
	}
	assertNoEvent(t, sender)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
