//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/ratewell/store-ratings/internal/dashboard"
	"github.com/ratewell/store-ratings/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_CountsGrow(t *testing.T) {
	_, adminEmail := seedAdmin(t)
	client := loginClient(t, adminEmail)

	resp, err := client.GET("/admin/dashboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var before dataEnvelope[dashboard.Totals]
	testutil.DecodeJSON(t, resp, &before)

	customerID, _ := seedCustomer(t)
	storeID := seedStore(t, uniqueStoreName("Counted Store"), nil)
	seedRating(t, storeID, customerID, 4, "")

	resp, err = client.GET("/admin/dashboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after dataEnvelope[dashboard.Totals]
	testutil.DecodeJSON(t, resp, &after)

	assert.Equal(t, before.Data.TotalUsers+1, after.Data.TotalUsers)
	assert.Equal(t, before.Data.TotalStores+1, after.Data.TotalStores)
	assert.Equal(t, before.Data.TotalRatings+1, after.Data.TotalRatings)
}

func TestVersionEndpoint(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/version")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	testutil.DecodeJSON(t, resp, &body)
	assert.Contains(t, body, "version")
}
