package user_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/userhub/userhub/internal/domain/user"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"first.last+tag@sub-domain.example.co", true},
		{"a_b-c@host.io", true},
		{"", false},
		{"no-at-sign", false},
		{"missing-domain@", false},
		{"@missing-local.com", false},
		{"nodot@example", false},
		{"spaces in@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := user.ValidEmail(tt.email)

			if got != tt.want {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	got := user.NormalizeEmail("  Alice@Example.COM ")

	if got != "alice@example.com" {
		t.Errorf("NormalizeEmail = %q, want %q", got, "alice@example.com")
	}
}

func TestParseBirthDate(t *testing.T) {
	d, err := user.ParseBirthDate("1990-06-15")

	if err != nil {
		t.Fatalf("ParseBirthDate returned error: %v", err)
	}

	if d.Year() != 1990 || d.Month() != time.June || d.Day() != 15 {
		t.Errorf("ParseBirthDate = %v", d)
	}

	for _, bad := range []string{"15-06-1990", "1990/06/15", "1990-13-01", "yesterday", ""} {
		if _, err := user.ParseBirthDate(bad); err == nil {
			t.Errorf("ParseBirthDate(%q) expected error", bad)
		}
	}
}

func TestProfileNeverExposesPasswordHash(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	phone := "+1-555-0100"
	now := time.Now().UTC()

	u := user.User{
		ID:           "id-1",
		Login:        "alice",
		Email:        "alice@example.com",
		PasswordHash: "bcrypt-hash-material",
		BirthDate:    &birth,
		Phone:        &phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	raw, err := json.Marshal(u.Profile())

	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}

	if strings.Contains(string(raw), "bcrypt-hash-material") || strings.Contains(string(raw), "password") {
		t.Errorf("profile JSON leaks the password hash: %s", raw)
	}

	if !strings.Contains(string(raw), `"birth_date":"1990-06-15"`) {
		t.Errorf("birth_date not formatted as YYYY-MM-DD: %s", raw)
	}
}

func TestProfileNilBirthDate(t *testing.T) {
	p := user.User{ID: "id-1", Login: "bob", Email: "bob@example.com"}.Profile()

	if p.BirthDate != nil {
		t.Errorf("expected nil birth_date, got %q", *p.BirthDate)
	}
}
