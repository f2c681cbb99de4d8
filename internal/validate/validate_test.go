package validate

import (
	"strings"
	"testing"

	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestName_Boundaries(t *testing.T) {
	assert.Error(t, Name(""))
	assert.Error(t, Name(strings.Repeat("a", 19)))
	assert.NoError(t, Name(strings.Repeat("a", 20)))
	assert.NoError(t, Name(strings.Repeat("a", 60)))
	assert.Error(t, Name(strings.Repeat("a", 61)))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("user@example.com"))
	assert.NoError(t, Email("first.last@sub.example.org"))

	assert.Error(t, Email(""))
	assert.Error(t, Email("plainaddress"))
	assert.Error(t, Email("no-at.example.com"))
	assert.Error(t, Email("missing@tld"))
	assert.Error(t, Email("spaces in@example.com"))
	assert.Error(t, Email("two@@example.com"))
}

func TestAddress(t *testing.T) {
	assert.Error(t, Address(""))
	assert.NoError(t, Address("1 Main St"))
	assert.NoError(t, Address(strings.Repeat("a", 400)))
	assert.Error(t, Address(strings.Repeat("a", 401)))
}

func TestPassword(t *testing.T) {
	// 8 chars, one uppercase, one special: the minimal accepted shape.
	assert.NoError(t, Password("Abc!2345"))
	assert.NoError(t, Password("Abcdef#890123456")) // 16 chars

	assert.Error(t, Password(""))
	assert.Error(t, Password("abc!2345"))          // no uppercase
	assert.Error(t, Password("Abcd12345"))         // no special
	assert.Error(t, Password("Ab!4567"))           // 7 chars
	assert.Error(t, Password("Abcdefg#901234567")) // 17 chars
}

func TestPassword_AcceptsEachSpecialCharacter(t *testing.T) {
	for _, c := range "!@#$&*" {
		assert.NoError(t, Password("Abcd1234"+string(c)), "special %q", c)
	}
	// Specials outside the fixed set do not count.
	assert.Error(t, Password("Abcd1234%"))
	assert.Error(t, Password("Abcd1234?"))
}

func TestRole(t *testing.T) {
	assert.NoError(t, Role(domain.RoleAdmin))
	assert.NoError(t, Role(domain.RoleNormal))
	assert.NoError(t, Role(domain.RoleStoreOwner))
	assert.Error(t, Role("superuser"))
	assert.Error(t, Role(""))
}

func TestSignupRole_OnlyNormal(t *testing.T) {
	assert.NoError(t, SignupRole(domain.RoleNormal))
	assert.ErrorIs(t, SignupRole(domain.RoleAdmin), ErrSignupRoleRestricted)
	assert.ErrorIs(t, SignupRole(domain.RoleStoreOwner), ErrSignupRoleRestricted)
	assert.ErrorIs(t, SignupRole(""), ErrSignupRoleRestricted)
}

func TestRatingScore(t *testing.T) {
	assert.Error(t, RatingScore(0))
	assert.NoError(t, RatingScore(1))
	assert.NoError(t, RatingScore(5))
	assert.Error(t, RatingScore(6))
	assert.Error(t, RatingScore(-1))
}

func TestComment(t *testing.T) {
	assert.NoError(t, Comment(""))
	assert.NoError(t, Comment(strings.Repeat("a", 500)))
	assert.Error(t, Comment(strings.Repeat("a", 501)))
}
