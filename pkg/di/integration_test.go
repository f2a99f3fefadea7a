package di

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logitrack/logitrack/httpapi"
	"github.com/logitrack/logitrack/inventory"
	"github.com/logitrack/logitrack/orders"
)

// Full-stack test: requests travel through the router, middleware,
// services, cache, and a real in-memory SQLite store.

func newIntegrationServer(t *testing.T) *httptest.Server {
	t.Helper()

	container, err := NewContainer(testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	require.NoError(t, container.EnsureSchema(context.Background()))

	srv := httptest.NewServer(container.Server())
	t.Cleanup(srv.Close)
	return srv
}

func mintToken(t *testing.T, roles []string) string {
	t.Helper()
	claims := httpapi.Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "logitrack",
			Subject:   "integration-user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()

	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, payload)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestIntegration_InventoryLifecycle(t *testing.T) {
	srv := newIntegrationServer(t)
	user := mintToken(t, []string{httpapi.RoleUser})
	manager := mintToken(t, []string{httpapi.RoleUser, httpapi.RoleManager})

	quantity := 5
	var created inventory.ItemView
	resp := doJSON(t, http.MethodPost, srv.URL+"/inventory", user,
		inventory.CreateInput{Name: "Pallet Jack", Quantity: &quantity, Location: "Warehouse A"},
		&created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotZero(t, created.ItemID)

	// Read-after-write: the created item is visible immediately.
	var items []inventory.ItemView
	resp = doJSON(t, http.MethodGet, srv.URL+"/inventory", user, nil, &items)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, items, 1)
	assert.Equal(t, "Pallet Jack", items[0].Name)

	// Deletes require the Manager role.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/inventory/1", user, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/inventory/1", manager, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/inventory", user, nil, &items)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, items)
}

func TestIntegration_OrderLifecycle(t *testing.T) {
	srv := newIntegrationServer(t)
	user := mintToken(t, []string{httpapi.RoleUser})
	manager := mintToken(t, []string{httpapi.RoleManager})

	quantity := 2
	var created orders.OrderView
	resp := doJSON(t, http.MethodPost, srv.URL+"/orders", user,
		orders.CreateInput{
			CustomerName: "Acme Freight",
			Items: []inventory.CreateInput{
				{Name: "Shrink Wrap", Quantity: &quantity, Location: "Warehouse A"},
			},
		}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, created.Items, 1)

	var fetched orders.OrderView
	resp = doJSON(t, http.MethodGet, srv.URL+"/orders/1", user, nil, &fetched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme Freight", fetched.CustomerName)

	// Deleting the order removes its owned items from inventory too.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/orders/1", manager, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders/1", user, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var items []inventory.ItemView
	resp = doJSON(t, http.MethodGet, srv.URL+"/inventory", user, nil, &items)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, items)
}
