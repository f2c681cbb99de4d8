//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/identity"
	"github.com/ratewell/store-ratings/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminCreateUserBody(role string) map[string]string {
	return map[string]string{
		"name":     testutil.RandomName("Admin Created User"),
		"email":    testutil.RandomEmail(),
		"address":  "99 Provisioning Lane",
		"password": "Valid@Pass1",
		"role":     role,
	}
}

func TestAdminCreateUser_AllRoles(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail)

	for _, role := range []string{"admin", "normal", "store_owner"} {
		body := adminCreateUserBody(role)

		resp, err := client.POST("/admin/users", body)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "role %s", role)

		var created dataEnvelope[domain.User]
		testutil.DecodeJSON(t, resp, &created)
		assert.Equal(t, domain.Role(role), created.Data.Role)

		// Created account can log in.
		fresh := newTestClient(t)
		fresh.LoginAs(t, body["email"], body["password"])
	}
}

func TestAdminCreateUser_UnknownRole(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail)

	resp, err := client.POST("/admin/users", adminCreateUserBody("superuser"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAdminCreateUser_DuplicateEmail(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	_, existingEmail := seedCustomer(t)
	client := loginClient(t, adminEmail)

	body := adminCreateUserBody("normal")
	body["email"] = existingEmail

	resp, err := client.POST("/admin/users", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAdminListUsers_FilterAndSort(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	customerID, customerEmail := seedCustomer(t)
	client := loginClient(t, adminEmail)

	// Exact email filter pins down the seeded row.
	resp, err := client.GET("/admin/users?email=" + url.QueryEscape(customerEmail))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed dataEnvelope[[]domain.User]
	testutil.DecodeJSON(t, resp, &listed)
	require.Len(t, listed.Data, 1)
	assert.Equal(t, customerID, listed.Data[0].ID)
	assert.Equal(t, domain.RoleNormal, listed.Data[0].Role)

	// Sorted listing with role filter.
	resp, err = client.GET("/admin/users?role=admin&sort=" + url.QueryEscape("email desc"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	testutil.DecodeJSON(t, resp, &listed)
	for i, u := range listed.Data {
		assert.Equal(t, domain.RoleAdmin, u.Role)
		if i > 0 {
			assert.GreaterOrEqual(t, listed.Data[i-1].Email, u.Email)
		}
	}
}

func TestAdminListUsers_InvalidSort(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail)

	resp, err := client.GET("/admin/users?sort=" + url.QueryEscape("password_hash asc"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAdminListAdmins(t *testing.T) {
	adminID, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail)

	resp, err := client.GET("/admin/admins")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed dataEnvelope[[]domain.User]
	testutil.DecodeJSON(t, resp, &listed)

	found := false
	for _, u := range listed.Data {
		assert.Equal(t, domain.RoleAdmin, u.Role)
		if u.ID == adminID {
			found = true
		}
	}
	assert.True(t, found, "seeded admin missing from listing")
}

func TestAdminGetUserDetails_OwnerAverage(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail)

	ownerID, _ := seedOwner(t)
	storeID := seedStore(t, uniqueStoreName("Rated Store"), &ownerID)
	raterID, _ := seedCustomer(t)
	otherRaterID, _ := seedCustomer(t)
	seedRating(t, storeID, raterID, 5, "")
	seedRating(t, storeID, otherRaterID, 2, "")

	resp, err := client.GET(fmt.Sprintf("/admin/users/%d", ownerID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var details dataEnvelope[identity.UserDetails]
	testutil.DecodeJSON(t, resp, &details)
	require.NotNil(t, details.Data.AverageRating)
	assert.InDelta(t, 3.5, *details.Data.AverageRating, 0.001)
}

func TestAdminGetUserDetails_NotFound(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail)

	resp, err := client.GET("/admin/users/999999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAdminGetUserDetails_BadID(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail).WithoutValidation()

	resp, err := client.GET("/admin/users/not-a-number")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}
