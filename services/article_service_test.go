package services

import (
	"strings"
	"testing"
)

func validSubmission() SubmissionInput {
	manuscriptID := 7
	return SubmissionInput{
		Title:    "Adaptive Mesh Refinement for Coastal Flood Models",
		Abstract: strings.Repeat("A sufficiently long abstract sentence. ", 3),
		FieldID:  2,
		Keywords: []string{"flooding", "mesh refinement"},
		Authors: []AuthorInput{
			{FullName: "Ada Lovelace", Email: "ada@example.org", IsCorresponding: true},
			{FullName: "Charles Babbage", Email: "charles@example.org"},
		},
		ManuscriptFileID: &manuscriptID,
	}
}

func TestValidateSubmissionAcceptsCompletePayload(t *testing.T) {
	if problems := ValidateSubmission(validSubmission()); len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}

func TestValidateSubmissionRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmissionInput)
		expect string
	}{
		{
			name:   "short title",
			mutate: func(in *SubmissionInput) { in.Title = "Hi" },
			expect: "title",
		},
		{
			name:   "whitespace title",
			mutate: func(in *SubmissionInput) { in.Title = "     " },
			expect: "title",
		},
		{
			name:   "short abstract",
			mutate: func(in *SubmissionInput) { in.Abstract = "Too short." },
			expect: "abstract",
		},
		{
			// Two characters even though the UTF-8 encoding spans six bytes.
			name:   "multibyte title counted in characters",
			mutate: func(in *SubmissionInput) { in.Title = "概要" },
			expect: "title",
		},
		{
			// Forty characters but well over fifty bytes.
			name:   "multibyte abstract counted in characters",
			mutate: func(in *SubmissionInput) { in.Abstract = strings.Repeat("研究", 20) },
			expect: "abstract",
		},
		{
			name:   "missing field",
			mutate: func(in *SubmissionInput) { in.FieldID = 0 },
			expect: "field",
		},
		{
			name:   "no keywords",
			mutate: func(in *SubmissionInput) { in.Keywords = nil },
			expect: "keyword",
		},
		{
			name:   "blank keywords only",
			mutate: func(in *SubmissionInput) { in.Keywords = []string{"  ", ""} },
			expect: "keyword",
		},
		{
			name:   "zero authors",
			mutate: func(in *SubmissionInput) { in.Authors = nil },
			expect: "author",
		},
		{
			name: "no corresponding author",
			mutate: func(in *SubmissionInput) {
				for i := range in.Authors {
					in.Authors[i].IsCorresponding = false
				}
			},
			expect: "corresponding",
		},
		{
			name: "two corresponding authors",
			mutate: func(in *SubmissionInput) {
				for i := range in.Authors {
					in.Authors[i].IsCorresponding = true
				}
			},
			expect: "corresponding",
		},
		{
			name:   "missing manuscript",
			mutate: func(in *SubmissionInput) { in.ManuscriptFileID = nil },
			expect: "manuscript",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validSubmission()
			tc.mutate(&in)

			problems := ValidateSubmission(in)
			if len(problems) == 0 {
				t.Fatal("expected validation problems, got none")
			}

			found := false
			for _, problem := range problems {
				if strings.Contains(problem, tc.expect) {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected a problem mentioning %q, got %v", tc.expect, problems)
			}
		})
	}
}

func TestValidateSubmissionCollectsAllProblems(t *testing.T) {
	problems := ValidateSubmission(SubmissionInput{})
	if len(problems) < 5 {
		t.Fatalf("expected problems for every missing field, got %v", problems)
	}
}
