package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/models"
)

func seedOrder(t *testing.T, db *gorm.DB, buyer models.User, createdAt time.Time, products ...models.Product) models.Order {
	t.Helper()

	order := models.Order{
		BaseModel: models.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		BuyerID:   buyer.ID,
		Status:    models.StatusNotProcess,
		Payment:   json.RawMessage(`{"id":"txn_1"}`),
		Products:  products,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestGetOrdersScopedToBuyer(t *testing.T) {
	app, db, cfg := newTestApp(t)
	alice, aliceToken := createUser(t, db, cfg, "alice@example.com", models.RoleUser)
	bob, _ := createUser(t, db, cfg, "bob@example.com", models.RoleUser)

	product := seedProduct(t, db, "Chess Set", 49.99, nil, time.Now())
	seedOrder(t, db, alice, time.Now(), product)
	seedOrder(t, db, bob, time.Now())

	req := jsonRequest(http.MethodGet, "/api/v1/auth/orders", nil)
	req.Header.Set("Authorization", aliceToken)
	status, raw := rawResponse(t, app, req)
	require.Equal(t, http.StatusOK, status)

	// The endpoint responds with a bare array.
	var orders []models.Order
	require.NoError(t, json.Unmarshal(raw, &orders))
	require.Len(t, orders, 1)
	require.Equal(t, alice.ID, orders[0].BuyerID)
	require.Len(t, orders[0].Products, 1)
	require.NotNil(t, orders[0].Buyer)
	require.Equal(t, alice.Name, orders[0].Buyer.Name)
}

func TestGetOrdersEmpty(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := createUser(t, db, cfg, "alice@example.com", models.RoleUser)

	req := jsonRequest(http.MethodGet, "/api/v1/auth/orders", nil)
	req.Header.Set("Authorization", token)
	status, raw := rawResponse(t, app, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "[]", string(raw))
}

func TestGetAllOrdersSortedDesc(t *testing.T) {
	app, db, cfg := newTestApp(t)
	alice, _ := createUser(t, db, cfg, "alice@example.com", models.RoleUser)
	_, adminToken := createUser(t, db, cfg, "admin@example.com", models.RoleAdmin)

	base := time.Now().Add(-time.Hour)
	oldest := seedOrder(t, db, alice, base)
	newest := seedOrder(t, db, alice, base.Add(30*time.Minute))

	req := jsonRequest(http.MethodGet, "/api/v1/auth/all-orders", nil)
	req.Header.Set("Authorization", adminToken)
	status, raw := rawResponse(t, app, req)
	require.Equal(t, http.StatusOK, status)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(raw, &orders))
	require.Len(t, orders, 2)
	require.Equal(t, newest.ID, orders[0].ID)
	require.Equal(t, oldest.ID, orders[1].ID)
}

func TestGetAllOrdersRequiresAdmin(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, userToken := createUser(t, db, cfg, "alice@example.com", models.RoleUser)

	req := jsonRequest(http.MethodGet, "/api/v1/auth/all-orders", nil)
	req.Header.Set("Authorization", userToken)
	status, body := doJSON(t, app, req)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Unauthorized Access", body["message"])
}

func TestOrderStatusUpdate(t *testing.T) {
	app, db, cfg := newTestApp(t)
	alice, _ := createUser(t, db, cfg, "alice@example.com", models.RoleUser)
	_, adminToken := createUser(t, db, cfg, "admin@example.com", models.RoleAdmin)
	order := seedOrder(t, db, alice, time.Now())

	req := jsonRequest(http.MethodPut, "/api/v1/auth/order-status/"+order.ID.String(), map[string]string{
		"status": models.StatusShipped,
	})
	req.Header.Set("Authorization", adminToken)
	status, body := doJSON(t, app, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, models.StatusShipped, body["status"])

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	require.Equal(t, models.StatusShipped, stored.Status)
}

func TestOrderStatusUnknownID(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, adminToken := createUser(t, db, cfg, "admin@example.com", models.RoleAdmin)

	req := jsonRequest(http.MethodPut, "/api/v1/auth/order-status/00000000-0000-0000-0000-000000000001", map[string]string{
		"status": models.StatusShipped,
	})
	req.Header.Set("Authorization", adminToken)
	status, raw := rawResponse(t, app, req)

	// An unknown id yields a JSON null body, not a 404.
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "null", string(raw))
}
