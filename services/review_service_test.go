package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"journal-management-api/models"
)

func TestReviewResponseAndCompletionGuards(t *testing.T) {
	tests := []struct {
		status      models.ReviewStatus
		canRespond  bool
		canComplete bool
	}{
		{models.ReviewInvited, true, false},
		{models.ReviewAccepted, false, true},
		{models.ReviewDeclined, false, false},
		{models.ReviewCompleted, false, false},
		{models.ReviewExpired, false, false},
	}

	for _, tc := range tests {
		review := &models.Review{Status: tc.status}
		if got := RespondGuard(review); (got == nil) != tc.canRespond {
			t.Errorf("RespondGuard(%s) = %v, want allowed=%v", tc.status, got, tc.canRespond)
		}
		if got := CompleteGuard(review); (got == nil) != tc.canComplete {
			t.Errorf("CompleteGuard(%s) = %v, want allowed=%v", tc.status, got, tc.canComplete)
		}
	}
}

func TestGuardsReportClosedReviews(t *testing.T) {
	for _, status := range []models.ReviewStatus{
		models.ReviewDeclined, models.ReviewCompleted, models.ReviewExpired,
	} {
		review := &models.Review{Status: status}
		if err := RespondGuard(review); !errors.Is(err, ErrReviewClosed) {
			t.Errorf("RespondGuard(%s) = %v, want ErrReviewClosed", status, err)
		}
		if err := CompleteGuard(review); !errors.Is(err, ErrReviewClosed) {
			t.Errorf("CompleteGuard(%s) = %v, want ErrReviewClosed", status, err)
		}
	}

	// Non-terminal mismatches are rejected without being reported as closed.
	if err := RespondGuard(&models.Review{Status: models.ReviewAccepted}); err == nil || errors.Is(err, ErrReviewClosed) {
		t.Errorf("RespondGuard(accepted) = %v, want a non-closed rejection", err)
	}
	if err := CompleteGuard(&models.Review{Status: models.ReviewInvited}); err == nil || errors.Is(err, ErrReviewClosed) {
		t.Errorf("CompleteGuard(invited) = %v, want a non-closed rejection", err)
	}
}

func TestReviewTerminalStates(t *testing.T) {
	terminal := []models.ReviewStatus{models.ReviewDeclined, models.ReviewCompleted, models.ReviewExpired}
	for _, status := range terminal {
		review := &models.Review{Status: status}
		if !review.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}

	for _, status := range []models.ReviewStatus{models.ReviewInvited, models.ReviewAccepted} {
		review := &models.Review{Status: status}
		if review.IsTerminal() {
			t.Errorf("expected %s not to be terminal", status)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		review models.Review
		want   bool
	}{
		{
			name:   "invited past response deadline",
			review: models.Review{Status: models.ReviewInvited, ResponseDeadline: before, ReviewDeadline: after},
			want:   true,
		},
		{
			name:   "invited within response deadline",
			review: models.Review{Status: models.ReviewInvited, ResponseDeadline: after, ReviewDeadline: after},
			want:   false,
		},
		{
			name:   "accepted past review deadline",
			review: models.Review{Status: models.ReviewAccepted, ResponseDeadline: before, ReviewDeadline: before},
			want:   true,
		},
		{
			name:   "accepted within review deadline",
			review: models.Review{Status: models.ReviewAccepted, ResponseDeadline: before, ReviewDeadline: after},
			want:   false,
		},
		{
			name:   "completed never expires",
			review: models.Review{Status: models.ReviewCompleted, ResponseDeadline: before, ReviewDeadline: before},
			want:   false,
		},
		{
			name:   "declined never expires",
			review: models.Review{Status: models.ReviewDeclined, ResponseDeadline: before, ReviewDeadline: before},
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOverdue(&tc.review, now); got != tc.want {
				t.Fatalf("IsOverdue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsKnownRecommendation(t *testing.T) {
	for _, rec := range []string{
		models.RecommendAccept,
		models.RecommendMinorRevision,
		models.RecommendMajorRevision,
		models.RecommendReject,
	} {
		if !IsKnownRecommendation(rec) {
			t.Errorf("expected %q to be a known recommendation", rec)
		}
	}

	if IsKnownRecommendation("maybe") {
		t.Error("unexpected recommendation accepted")
	}
	if IsKnownRecommendation("") {
		t.Error("empty recommendation accepted")
	}
}

func TestReviewEmails(t *testing.T) {
	article := &models.Article{Title: "Graph Sparsification in Practice"}
	reviewer := &models.User{UserFname: "Grace", UserLname: "Hopper"}
	review := &models.Review{
		Round:            2,
		Status:           models.ReviewInvited,
		ResponseDeadline: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		ReviewDeadline:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	subject, html := ReviewInvitationEmail(review, article, reviewer)
	if !strings.Contains(subject, article.Title) {
		t.Fatalf("invitation subject missing title: %q", subject)
	}
	if !strings.Contains(html, "Grace Hopper") {
		t.Fatalf("invitation body missing reviewer name: %q", html)
	}
	if !strings.Contains(html, "1 April 2026") {
		t.Fatalf("invitation body missing response deadline: %q", html)
	}

	subject, html = ReviewReminderEmail(review, article, reviewer)
	if !strings.Contains(subject, "Reminder") {
		t.Fatalf("reminder subject unexpected: %q", subject)
	}
	// An invited reviewer is reminded of the response deadline.
	if !strings.Contains(html, "1 April 2026") {
		t.Fatalf("reminder body missing response deadline: %q", html)
	}

	review.Status = models.ReviewAccepted
	_, html = ReviewReminderEmail(review, article, reviewer)
	if !strings.Contains(html, "1 May 2026") {
		t.Fatalf("reminder body missing review deadline: %q", html)
	}
}
