//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/ratewell/store-ratings/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

// testPassword satisfies the password policy and is shared by all seeded
// accounts.
const testPassword = "Integr@tion1"

// seedUser inserts a user directly, bypassing the API, and returns its id.
func seedUser(t *testing.T, name, email, role string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	var id int64
	err = testDB.QueryRow(context.Background(),
		`INSERT INTO users (name, email, password_hash, address, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		name, email, string(hash), "1 Seeded Fixture Street", role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return id
}

// seedAdmin inserts an admin account and returns its id and email.
func seedAdmin(t *testing.T) (int64, string) {
	t.Helper()
	email := testutil.RandomEmail()
	id := seedUser(t, testutil.RandomName("Seeded Admin"), email, "admin")
	return id, email
}

// seedCustomer inserts a normal account and returns its id and email.
func seedCustomer(t *testing.T) (int64, string) {
	t.Helper()
	email := testutil.RandomEmail()
	id := seedUser(t, testutil.RandomName("Seeded Customer"), email, "normal")
	return id, email
}

// seedOwner inserts a store_owner account and returns its id and email.
func seedOwner(t *testing.T) (int64, string) {
	t.Helper()
	email := testutil.RandomEmail()
	id := seedUser(t, testutil.RandomName("Seeded Owner"), email, "store_owner")
	return id, email
}

// seedStore inserts a store directly and returns its id. ownerID may be nil.
func seedStore(t *testing.T, name string, ownerID *int64) int64 {
	t.Helper()

	var id int64
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO stores (name, email, address, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, testutil.RandomEmail(), "2 Seeded Market Square", ownerID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("seed store %s: %v", name, err)
	}
	return id
}

// seedRating inserts a rating directly.
func seedRating(t *testing.T, storeID, userID int64, score int, comment string) {
	t.Helper()

	_, err := testDB.Exec(context.Background(),
		`INSERT INTO ratings (store_id, user_id, score, comment)
		 VALUES ($1, $2, $3, $4)`,
		storeID, userID, score, comment,
	)
	if err != nil {
		t.Fatalf("seed rating: %v", err)
	}
}

// loginClient returns a validating client authenticated as the given email.
func loginClient(t *testing.T, email string) *testutil.Client {
	t.Helper()
	client := newTestClient(t)
	client.LoginAs(t, email, testPassword)
	return client
}

// dataEnvelope decodes a {"data": ...} response into the given pointer.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// errorMessage extracts the error message from an {"error": {...}} body.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// uniqueStoreName returns a store name unique across the suite.
func uniqueStoreName(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, testutil.RandomEmail())
}
