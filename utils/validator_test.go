package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"reviewer@example.org",
		"first.last@dept.university.edu",
		"editor+journal@mail.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@missing-local.org",
		"missing-domain@",
		"spaces in@example.org",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Reviewer@Example.ORG ", "reviewer@example.org"},
		{"plain@mail.co", "plain@mail.co"},
		{"\tUPPER@CASE.EDU\n", "upper@case.edu"},
	}

	for _, tc := range tests {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("longenough"); !ok {
		t.Error("expected 10-char password to pass")
	}
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Error("expected short password to fail with a message")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  padded  ", "padded"},
		{"null\x00byte", "nullbyte"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := SanitizeInput(tc.in); got != tc.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
