// Package intake turns untrusted inquiry submissions into validated records.
package intake

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/salvex/salvex-api/internal/models"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
)

// Field names as they appear in the submitted JSON
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldBusinessName   = "businessName"
	FieldLocation       = "location"
	FieldCurrentWebsite = "currentWebsite"
	FieldGoogleReviews  = "googleReviews"
	FieldSubmittedAt    = "submittedAt"
)

// Storage caps, in characters
const (
	MaxNameLength           = 120
	MaxEmailLength          = 160
	MaxBusinessNameLength   = 160
	MaxLocationLength       = 160
	MaxCurrentWebsiteLength = 256
	MaxGoogleReviewsLength  = 256
)

// SubmittedAtLayout is the canonical form stored for submittedAt
const SubmittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidEmail is returned when the email does not look like local@domain.tld
var ErrInvalidEmail = fmt.Errorf("invalid email address: %w", apperrors.ErrInvalidInput)

// emailPart excludes @ and everything a browser regexp treats as \s,
// which is wider than RE2's ASCII-only \s
const emailPart = `[^\s\v\p{Z}\x{FEFF}@]+`

var emailPattern = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

var submittedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// MissingFieldError reports the first required field left blank
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// Unwrap lets callers match the broader invalid-input class
func (e *MissingFieldError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// Validator normalizes and validates raw submissions
type Validator struct {
	now func() time.Time
}

// NewValidator creates a validator using now as the fallback clock for submittedAt
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Normalize trims, caps and checks raw. It has no side effects.
func (v *Validator) Normalize(raw models.RawInquiry) (*models.NormalizedInquiry, error) {
	in := &models.NormalizedInquiry{
		Name:         sanitize(raw[FieldName], MaxNameLength),
		Email:        strings.ToLower(sanitize(raw[FieldEmail], MaxEmailLength)),
		BusinessName: sanitize(raw[FieldBusinessName], MaxBusinessNameLength),
		Location:     sanitize(raw[FieldLocation], MaxLocationLength),
		CurrentWebsite: optional(
			sanitize(raw[FieldCurrentWebsite], MaxCurrentWebsiteLength)),
		GoogleReviews: optional(
			sanitize(raw[FieldGoogleReviews], MaxGoogleReviewsLength)),
	}

	required := []struct {
		field string
		value string
	}{
		{FieldName, in.Name},
		{FieldEmail, in.Email},
		{FieldBusinessName, in.BusinessName},
		{FieldLocation, in.Location},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &MissingFieldError{Field: r.field}
		}
	}

	if !emailPattern.MatchString(in.Email) {
		return nil, ErrInvalidEmail
	}

	in.SubmittedAt = v.normalizeTimestamp(raw[FieldSubmittedAt])

	return in, nil
}

// normalizeTimestamp falls back to the current time for absent or unparsable values
func (v *Validator) normalizeTimestamp(value any) string {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s != "" {
		for _, layout := range submittedAtLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format(SubmittedAtLayout)
			}
		}
	}
	return v.now().UTC().Format(SubmittedAtLayout)
}

// sanitize coerces non-strings to "", trims, then truncates to max runes
func sanitize(value any, max int) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
