package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/emporia/internal/models"
)

func TestUpdateProfileShortPassword(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createUser(t, db, cfg, "user@example.com", models.RoleUser)

	req := jsonRequest(http.MethodPut, "/api/v1/auth/profile", map[string]string{
		"password": "12345",
	})
	req.Header.Set("Authorization", token)
	status, body := doJSON(t, app, req)

	// A too-short password is a soft failure: 200 with an error body.
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Password is required and 6 character long", body["error"])

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestUpdateProfilePartial(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createUser(t, db, cfg, "user@example.com", models.RoleUser)

	req := jsonRequest(http.MethodPut, "/api/v1/auth/profile", map[string]string{
		"phone": "999888777",
	})
	req.Header.Set("Authorization", token)
	status, body := doJSON(t, app, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Profile Updated Successfully", body["message"])

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.Equal(t, "999888777", stored.Phone)
	require.Equal(t, user.Name, stored.Name)
	require.Equal(t, user.Address, stored.Address)
	require.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestUpdateProfilePassword(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := createUser(t, db, cfg, "user@example.com", models.RoleUser)

	req := jsonRequest(http.MethodPut, "/api/v1/auth/profile", map[string]string{
		"password": "changed123",
	})
	req.Header.Set("Authorization", token)
	status, _ := doJSON(t, app, req)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "changed123",
	}))
	require.Equal(t, http.StatusOK, status)
}

func TestUpdateProfileRequiresSignIn(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := doJSON(t, app, jsonRequest(http.MethodPut, "/api/v1/auth/profile", map[string]string{
		"phone": "999888777",
	}))
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Error in sign in verification", body["message"])
}
