package user

import (
	"regexp"
	"strings"
	"time"
)

// BirthDateLayout is the only accepted wire format for birth dates.
const BirthDateLayout = "2006-01-02"

// Deliberately pragmatic: local part, domain, at least one dot.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string // never serialized outward
	FirstName    *string
	LastName     *string
	BirthDate    *time.Time
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection of a user. No password hash, ever.
type Profile struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	BirthDate *string   `json:"birth_date"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Profile() Profile {
	var birth *string

	if u.BirthDate != nil {
		s := u.BirthDate.Format(BirthDateLayout)
		birth = &s
	}

	return Profile{
		ID:        u.ID,
		Login:     u.Login,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: birth,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UpdateProfileRequest carries the mutable profile fields. The
// free-text fields are tri-state: absent leaves the stored value alone,
// an explicit null clears it. Email and birth date must be strings when
// present since both get validated. Login and password are not here on
// purpose: the update path never touches them.
type UpdateProfileRequest struct {
	Email     *string    `json:"email"`
	FirstName NullString `json:"first_name"`
	LastName  NullString `json:"last_name"`
	BirthDate *string    `json:"birth_date"`
	Phone     NullString `json:"phone"`
}

// NormalizeEmail lowercases and trims an address before any check or write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ParseBirthDate(s string) (time.Time, error) {
	return time.Parse(BirthDateLayout, s)
}
