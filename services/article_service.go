package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// AuthorInput is one author entry of a submission payload.
type AuthorInput struct {
	UserID          *int    `json:"user_id,omitempty"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Affiliation     *string `json:"affiliation,omitempty"`
	IsCorresponding bool    `json:"is_corresponding"`
}

// SubmissionInput carries the fields checked before an article is written.
type SubmissionInput struct {
	Title            string
	Abstract         string
	FieldID          int
	Keywords         []string
	Authors          []AuthorInput
	ManuscriptFileID *int
}

// Submission validation thresholds.
const (
	MinTitleLength    = 5
	MinAbstractLength = 50
)

// ValidateSubmission checks a submission payload and returns the list of
// problems. An empty result means the payload may be written. Nothing touches
// the database here; the checks run before any write is issued.
func ValidateSubmission(in SubmissionInput) []string {
	var problems []string

	// Length thresholds count characters, not bytes, so non-ASCII text is
	// measured the same as ASCII.
	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < MinTitleLength {
		problems = append(problems, fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	}

	if utf8.RuneCountInString(strings.TrimSpace(in.Abstract)) < MinAbstractLength {
		problems = append(problems, fmt.Sprintf("abstract must be at least %d characters", MinAbstractLength))
	}

	if in.FieldID <= 0 {
		problems = append(problems, "a primary research field must be selected")
	}

	keywords := 0
	for _, kw := range in.Keywords {
		if strings.TrimSpace(kw) != "" {
			keywords++
		}
	}
	if keywords == 0 {
		problems = append(problems, "at least one keyword is required")
	}

	if len(in.Authors) == 0 {
		problems = append(problems, "at least one author is required")
	} else {
		corresponding := 0
		for _, author := range in.Authors {
			if strings.TrimSpace(author.FullName) == "" {
				problems = append(problems, "every author needs a name")
				break
			}
			if author.IsCorresponding {
				corresponding++
			}
		}
		if corresponding != 1 {
			problems = append(problems, "exactly one author must be marked as corresponding")
		}
	}

	if in.ManuscriptFileID == nil {
		problems = append(problems, "a manuscript file must be attached")
	}

	return problems
}
