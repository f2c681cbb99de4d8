package testutil

import (
	"fmt"

	"github.com/google/uuid"
)

// RandomEmail returns a unique email address for test fixtures.
func RandomEmail() string {
	return fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
}

// RandomName returns a unique user name long enough to pass name validation.
func RandomName(prefix string) string {
	name := fmt.Sprintf("%s %s", prefix, uuid.NewString())
	if len(name) < 20 {
		name += " test account"
	}
	if len(name) > 60 {
		name = name[:60]
	}
	return name
}
