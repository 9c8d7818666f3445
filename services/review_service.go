package services

import (
	"errors"
	"fmt"
	"journal-management-api/config"
	"journal-management-api/models"
	"log"
	"time"
)

// ErrReviewClosed is returned when an action is attempted on a review that
// already reached a terminal state.
var ErrReviewClosed = errors.New("review is already closed")

// RespondGuard reports why an invitation cannot be answered; nil when it can.
func RespondGuard(r *models.Review) error {
	if r.IsTerminal() {
		return ErrReviewClosed
	}
	if r.Status != models.ReviewInvited {
		return errors.New("invitation has already been answered")
	}
	return nil
}

// CompleteGuard reports why a review cannot receive its completion form.
func CompleteGuard(r *models.Review) error {
	if r.IsTerminal() {
		return ErrReviewClosed
	}
	if r.Status != models.ReviewAccepted {
		return errors.New("review has not been accepted yet")
	}
	return nil
}

// IsOverdue reports whether the review has lapsed its relevant deadline at the
// given instant. Invited reviews expire on the response deadline, accepted
// reviews on the review deadline; terminal reviews never expire.
func IsOverdue(r *models.Review, now time.Time) bool {
	switch r.Status {
	case models.ReviewInvited:
		return now.After(r.ResponseDeadline)
	case models.ReviewAccepted:
		return now.After(r.ReviewDeadline)
	default:
		return false
	}
}

// IsKnownRecommendation reports whether the value is an accepted recommendation.
func IsKnownRecommendation(rec string) bool {
	switch rec {
	case models.RecommendAccept, models.RecommendMinorRevision,
		models.RecommendMajorRevision, models.RecommendReject:
		return true
	}
	return false
}

// ExpireOverdueReviews marks invited reviews past their response deadline and
// accepted reviews past their review deadline as expired. It runs from the cron
// sweep and returns the number of rows it closed.
func ExpireOverdueReviews(now time.Time) (int64, error) {
	var total int64

	res := config.DB.Model(&models.Review{}).
		Where("status = ? AND response_deadline < ? AND delete_at IS NULL", models.ReviewInvited, now).
		Updates(map[string]interface{}{"status": models.ReviewExpired, "update_at": now})
	if res.Error != nil {
		return total, fmt.Errorf("failed to expire invited reviews: %w", res.Error)
	}
	total += res.RowsAffected

	res = config.DB.Model(&models.Review{}).
		Where("status = ? AND review_deadline < ? AND delete_at IS NULL", models.ReviewAccepted, now).
		Updates(map[string]interface{}{"status": models.ReviewExpired, "update_at": now})
	if res.Error != nil {
		return total, fmt.Errorf("failed to expire accepted reviews: %w", res.Error)
	}
	total += res.RowsAffected

	if total > 0 {
		log.Printf("Review expiry sweep closed %d overdue review(s)", total)
	}
	return total, nil
}

// ReviewInvitationEmail renders the invitation mail for a new review assignment.
func ReviewInvitationEmail(review *models.Review, article *models.Article, reviewer *models.User) (string, string) {
	subject := fmt.Sprintf("Review invitation: %s", article.Title)
	html := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>You have been invited to review the manuscript <strong>%s</strong> (round %d).</p>
<p>Please respond by <strong>%s</strong>. If you accept, the review is due by <strong>%s</strong>.</p>
<p>Log in to the editorial system to accept or decline this invitation.</p>`,
		reviewer.FullName(),
		article.Title,
		review.Round,
		review.ResponseDeadline.Format("2 January 2006"),
		review.ReviewDeadline.Format("2 January 2006"),
	)
	return subject, html
}

// ReviewReminderEmail renders the reminder mail sent from the editor desk.
func ReviewReminderEmail(review *models.Review, article *models.Article, reviewer *models.User) (string, string) {
	deadline := review.ReviewDeadline
	action := "submit your review"
	if review.Status == models.ReviewInvited {
		deadline = review.ResponseDeadline
		action = "respond to the invitation"
	}

	subject := fmt.Sprintf("Reminder: review of %s", article.Title)
	html := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>This is a reminder to %s for the manuscript <strong>%s</strong> (round %d).</p>
<p>The deadline is <strong>%s</strong>.</p>`,
		reviewer.FullName(),
		action,
		article.Title,
		review.Round,
		deadline.Format("2 January 2006"),
	)
	return subject, html
}
