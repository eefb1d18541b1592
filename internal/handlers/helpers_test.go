package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/config"
	"github.com/example/emporia/internal/database"
	"github.com/example/emporia/internal/models"
	"github.com/example/emporia/internal/routes"
	"github.com/example/emporia/internal/services"
	"github.com/example/emporia/internal/utils"
)

const testPassword = "secret123"

// fakeGateway satisfies services.Gateway without touching the network.
type fakeGateway struct {
	token      string
	saleErr    error
	lastAmount float64
	lastNonce  string
}

var _ services.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) ClientToken(ctx context.Context) (string, error) {
	return g.token, nil
}

func (g *fakeGateway) Sale(ctx context.Context, amount float64, nonce string) (json.RawMessage, string, error) {
	g.lastAmount = amount
	g.lastNonce = nonce
	if g.saleErr != nil {
		return nil, "", g.saleErr
	}
	return json.RawMessage(`{"id":"txn_1","status":"submitted_for_settlement"}`), "txn_1", nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	app, db, cfg, _ := newTestAppWithGateway(t, &fakeGateway{token: "fake-client-token"})
	return app, db, cfg
}

func newTestAppWithGateway(t *testing.T, gateway *fakeGateway) (*fiber.App, *gorm.DB, *config.Config, *fakeGateway) {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()
	app := fiber.New()
	routes.Register(app, db, cfg, gateway, nil)
	return app, db, cfg, gateway
}

func createUser(t *testing.T, db *gorm.DB, cfg *config.Config, email string, role int) (models.User, string) {
	t.Helper()

	passwordHash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)

	user := models.User{
		Name:           "Test User",
		Email:          email,
		PasswordHash:   passwordHash,
		Phone:          "100200300",
		Address:        "1 Main Street",
		SecurityAnswer: "blue",
		Role:           role,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.TokenExpires)
	require.NoError(t, err)

	return user, token
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &body))
	}
	return resp.StatusCode, body
}

func rawResponse(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// multipartProduct builds a product create/update form body.
func multipartProduct(t *testing.T, fields map[string]string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if photo != nil {
		part, err := writer.CreateFormFile("photo", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}
