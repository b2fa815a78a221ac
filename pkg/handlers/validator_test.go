package handlers

import "testing"

func newValidator(value string) *Validator {
	return &Validator{location: "body", field: "test_field", value: &value}
}

func TestValidatorRequired(t *testing.T) {
	v := &Validator{location: "body", field: "test_field"}
	if err := v.Required(); err == nil {
		t.Fatal("expected error for missing value")
	}

	if err := newValidator("x").Required(); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestValidatorEmpty(t *testing.T) {
	if err := newValidator("").Empty(); err == nil {
		t.Fatal("expected error for blank value")
	}
	if err := newValidator("x").Empty(); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestValidatorLengths(t *testing.T) {
	if err := newValidator("short").MinLength(8); err == nil {
		t.Fatal("expected error for short value")
	}
	if err := newValidator("long enough").MinLength(8); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := newValidator("way too long").MaxLength(5); err == nil {
		t.Fatal("expected error for long value")
	}
}

func TestValidatorOneOf(t *testing.T) {
	if err := newValidator("upvote").OneOf("upvote", "downvote"); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := newValidator("sidevote").OneOf("upvote", "downvote"); err == nil {
		t.Fatal("expected error for unknown value")
	}
}

func TestValidatorMatches(t *testing.T) {
	emailRe := `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	if err := newValidator("a@b.co").Matches(emailRe); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := newValidator("not-an-email").Matches(emailRe); err == nil {
		t.Fatal("expected error for malformed value")
	}
}

func TestMergeErrors(t *testing.T) {
	err := newValidator("").Empty()
	merged := mergeErrors(nil, err, nil)
	if len(merged) != 1 {
		t.Fatalf("expected 1 error, got %d", len(merged))
	}
}
