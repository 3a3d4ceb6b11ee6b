// Package validate checks user input collected by the CLI before it is sent
// to the backend. Validation here is a courtesy — the backend revalidates
// everything — but it turns a round-trip failure into an instant message.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required fails when value is empty after trimming.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("validate: %s is required", field)
	}
	return nil
}

// Email fails when value is not a plausible email address.
func Email(value string) error {
	if !emailRe.MatchString(value) {
		return fmt.Errorf("validate: %q is not a valid email address", value)
	}
	return nil
}

// MinLen fails when value is shorter than n characters.
func MinLen(field, value string, n int) error {
	if len(value) < n {
		return fmt.Errorf("validate: %s must be at least %d characters", field, n)
	}
	return nil
}

// Quantity parses a positive integer quantity from CLI input.
func Quantity(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("validate: quantity %q is not a number", value)
	}
	if n < 1 {
		return 0, fmt.Errorf("validate: quantity must be at least 1")
	}
	return n, nil
}

// OTP fails unless value is a 6-digit one-time code.
func OTP(value string) error {
	v := strings.TrimSpace(value)
	if len(v) != 6 {
		return fmt.Errorf("validate: the one-time code is 6 digits")
	}
	if _, err := strconv.Atoi(v); err != nil {
		return fmt.Errorf("validate: the one-time code is 6 digits")
	}
	return nil
}
