// Package validate holds the field validation policies applied at the API
// boundary. Every function is pure and fails on the first violated rule,
// returning a single user-facing error. Validation always runs before any
// hashing or persistence.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ratewell/store-ratings/internal/domain"
)

// FieldError is a policy violation with a user-facing message. Handlers map
// it to a 400 response; anything else is treated as unexpected.
type FieldError struct {
	msg string
}

func (e *FieldError) Error() string { return e.msg }

func failf(format string, args ...interface{}) error {
	return &FieldError{msg: fmt.Sprintf(format, args...)}
}

const (
	nameMinLen     = 20
	nameMaxLen     = 60
	addressMaxLen  = 400
	passwordMinLen = 8
	passwordMaxLen = 16
	commentMaxLen  = 500

	// passwordSpecials is the fixed special-character set a password must
	// draw at least one character from.
	passwordSpecials = "!@#$&*"
)

// emailPattern is a shallow syntax check, not RFC 5322: some
// non-whitespace-non-@ characters, an @, more of the same, a dot, a tail.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrSignupRoleRestricted rejects any public signup that asks for a role
// other than normal.
var ErrSignupRoleRestricted = &FieldError{msg: "only customer accounts can be created through signup"}

// Name requires 20-60 characters.
func Name(name string) error {
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return failf("name must be %d-%d characters", nameMinLen, nameMaxLen)
	}
	return nil
}

// Email requires a shallow user@host.tld shape.
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return failf("invalid email format")
	}
	return nil
}

// Address requires a non-empty value of at most 400 characters.
func Address(address string) error {
	if address == "" || len(address) > addressMaxLen {
		return failf("address must be 1-%d characters", addressMaxLen)
	}
	return nil
}

// Password requires 8-16 characters with at least one uppercase ASCII
// letter and at least one of !@#$&*.
func Password(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen ||
		!containsUpper(password) || !strings.ContainsAny(password, passwordSpecials) {
		return failf("password must be %d-%d characters with at least one uppercase letter and one special character",
			passwordMinLen, passwordMaxLen)
	}
	return nil
}

// Role requires membership in the closed role set. Only the admin user
// creation path accepts arbitrary roles; see SignupRole for public signup.
func Role(role domain.Role) error {
	if !role.IsValid() {
		return failf("invalid role")
	}
	return nil
}

// SignupRole enforces the public signup policy: the caller must request the
// normal role explicitly, anything else is rejected.
func SignupRole(role domain.Role) error {
	if role != domain.RoleNormal {
		return ErrSignupRoleRestricted
	}
	return nil
}

// RatingScore requires a score between 1 and 5 inclusive.
func RatingScore(score int) error {
	if score < domain.MinRatingScore || score > domain.MaxRatingScore {
		return failf("rating must be %d-%d", domain.MinRatingScore, domain.MaxRatingScore)
	}
	return nil
}

// Comment allows an empty comment but caps its length.
func Comment(comment string) error {
	if len(comment) > commentMaxLen {
		return failf("comment must be at most %d characters", commentMaxLen)
	}
	return nil
}

func containsUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return true
		}
	}
	return false
}
