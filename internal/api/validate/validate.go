// Package validate holds request-level field validators shared by the HTTP
// handlers. Validators return a plain error describing the first violated
// rule; handlers wrap them into 400 responses.
package validate

import (
	"fmt"
	"regexp"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Title validates a user-facing title: required, at most 200 bytes.
func Title(v string) error {
	if v == "" {
		return fmt.Errorf("title is required")
	}
	if len(v) > 200 {
		return fmt.Errorf("title exceeds 200 characters")
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// DateType accepts the supported date precisions.
func DateType(v string) error {
	switch v {
	case "exact", "day", "month", "year":
		return nil
	}
	return fmt.Errorf("dateType must be one of exact, day, month, year")
}

// MediaType accepts the supported media kinds.
func MediaType(v string) error {
	switch v {
	case "photo", "document":
		return nil
	}
	return fmt.Errorf("mediaType must be photo or document")
}

// EntityType accepts the attribute scopes.
func EntityType(v string) error {
	switch v {
	case "", "person", "event", "place", "all":
		return nil
	}
	return fmt.Errorf("entityType must be one of person, event, place, all")
}
