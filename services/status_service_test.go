package services

import (
	"errors"
	"testing"

	"journal-management-api/models"
)

var allStatuses = []models.ArticleStatus{
	models.StatusDraft,
	models.StatusSubmitted,
	models.StatusUnderReview,
	models.StatusRevisionRequired,
	models.StatusResubmitted,
	models.StatusAccepted,
	models.StatusRejected,
	models.StatusPublished,
}

func TestCanTransitionAllowsWorkflowTable(t *testing.T) {
	allowed := []struct {
		from models.ArticleStatus
		to   models.ArticleStatus
	}{
		{models.StatusDraft, models.StatusSubmitted},
		{models.StatusSubmitted, models.StatusUnderReview},
		{models.StatusSubmitted, models.StatusRejected},
		{models.StatusUnderReview, models.StatusRevisionRequired},
		{models.StatusUnderReview, models.StatusAccepted},
		{models.StatusUnderReview, models.StatusRejected},
		{models.StatusRevisionRequired, models.StatusResubmitted},
		{models.StatusResubmitted, models.StatusUnderReview},
		{models.StatusResubmitted, models.StatusAccepted},
		{models.StatusResubmitted, models.StatusRejected},
		{models.StatusAccepted, models.StatusPublished},
		{models.StatusAccepted, models.StatusRejected},
	}

	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	// Every pair not in the table must be rejected.
	allowedSet := make(map[[2]models.ArticleStatus]bool, len(allowed))
	for _, tc := range allowed {
		allowedSet[[2]models.ArticleStatus{tc.from, tc.to}] = true
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowedSet[[2]models.ArticleStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionRejectsTerminalAndUnknown(t *testing.T) {
	for _, to := range allStatuses {
		if CanTransition(models.StatusRejected, to) {
			t.Errorf("rejected article must not move to %s", to)
		}
		if CanTransition(models.StatusPublished, to) {
			t.Errorf("published article must not move to %s", to)
		}
	}

	if CanTransition("", models.StatusSubmitted) {
		t.Error("empty current status must not transition")
	}
	if CanTransition(models.StatusDraft, "") {
		t.Error("empty target status must not transition")
	}
	if CanTransition("bogus", models.StatusSubmitted) {
		t.Error("unknown current status must not transition")
	}
	if CanTransition(models.StatusDraft, "bogus") {
		t.Error("unknown target status must not transition")
	}
}

func TestValidateTransitionError(t *testing.T) {
	if err := ValidateTransition(models.StatusUnderReview, models.StatusAccepted); err != nil {
		t.Fatalf("unexpected error for legal transition: %v", err)
	}

	err := ValidateTransition(models.StatusDraft, models.StatusPublished)
	if err == nil {
		t.Fatal("expected error for draft -> published")
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	first := AllowedTransitions(models.StatusUnderReview)
	if len(first) != 3 {
		t.Fatalf("expected 3 transitions from underReview, got %d", len(first))
	}

	first[0] = models.StatusPublished
	second := AllowedTransitions(models.StatusUnderReview)
	if second[0] == models.StatusPublished {
		t.Fatal("AllowedTransitions must not expose the internal table")
	}

	if got := AllowedTransitions(models.StatusRejected); len(got) != 0 {
		t.Fatalf("expected no transitions from rejected, got %v", got)
	}
}

func TestIsKnownStatus(t *testing.T) {
	for _, status := range allStatuses {
		if !IsKnownStatus(status) {
			t.Errorf("expected %s to be a known status", status)
		}
	}
	if IsKnownStatus("inReview") {
		t.Error("unexpected status accepted")
	}
	if IsKnownStatus("") {
		t.Error("empty status accepted")
	}
}
