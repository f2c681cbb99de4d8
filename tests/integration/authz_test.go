//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoleGroups_Forbidden checks that each role group rejects the other two
// roles with 403 while the token itself is accepted.
func TestRoleGroups_Forbidden(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	_, customerEmail := seedCustomer(t)
	_, ownerEmail := seedOwner(t)

	adminClient := loginClient(t, adminEmail)
	customerClient := loginClient(t, customerEmail)
	ownerClient := loginClient(t, ownerEmail)

	tests := []struct {
		name   string
		client func() (string, func(string) (*http.Response, error))
		paths  []string
	}{
		{
			name: "customer blocked from admin and owner routes",
			client: func() (string, func(string) (*http.Response, error)) {
				return "customer", customerClient.GET
			},
			paths: []string{"/admin/users", "/admin/stores", "/admin/dashboard", "/storeowner/ratings"},
		},
		{
			name: "owner blocked from admin and customer routes",
			client: func() (string, func(string) (*http.Response, error)) {
				return "owner", ownerClient.GET
			},
			paths: []string{"/admin/users", "/admin/dashboard", "/customer/stores", "/customer/my-ratings"},
		},
		{
			name: "admin blocked from customer and owner routes",
			client: func() (string, func(string) (*http.Response, error)) {
				return "admin", adminClient.GET
			},
			paths: []string{"/customer/stores", "/customer/my-ratings", "/storeowner/ratings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, get := tt.client()
			for _, path := range tt.paths {
				resp, err := get(path)
				require.NoError(t, err)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s on %s", role, path)
				_ = resp.Body.Close()
			}
		})
	}
}

// TestProfile_OpenToAllRoles checks the shared authenticated route.
func TestProfile_OpenToAllRoles(t *testing.T) {
	for _, seed := range []func(*testing.T) (int64, string){seedAdmin, seedCustomer, seedOwner} {
		_, email := seed(t)
		client := loginClient(t, email)

		resp, err := client.GET("/profile")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}
}
