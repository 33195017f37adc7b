// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"skillswap/internal/models"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxNameLength     = 100
	MaxSkillName      = 100
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidatePassword checks the password length policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	first, last := username[0], username[len(username)-1]
	if first == '_' || first == '-' || last == '_' || last == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLength)
	}
	return nil
}

// ValidateSkillName checks the name of an offered or wanted skill.
func ValidateSkillName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("skill name is required")
	}
	if utf8.RuneCountInString(name) > MaxSkillName {
		return fmt.Errorf("skill name must not exceed %d characters", MaxSkillName)
	}
	return nil
}

// ValidateRating checks that a feedback rating is inside the inclusive range.
func ValidateRating(rating float64) bool {
	return rating >= models.MinRating && rating <= models.MaxRating
}

// ValidateAvailability checks an availability enum value.
func ValidateAvailability(a models.Availability) error {
	if !a.Valid() {
		return fmt.Errorf("availability must be one of weekdays, weekends, evenings, mornings, anytime")
	}
	return nil
}

// ValidateVisibility checks a profile visibility enum value.
func ValidateVisibility(v models.Visibility) error {
	if !v.Valid() {
		return fmt.Errorf("visibility must be public or private")
	}
	return nil
}
