package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/a6cars/backend/storage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Customer{}))
	storage.Use(db)

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/register", Register)
	api.Post("/login", Login)
	api.Post("/admin/login", AdminLogin)
	api.Get("/whoami", RequireAdmin, func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"admin_email": c.Locals("admin_email")})
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/api/register", map[string]string{
		"name": "Ravi Kumar", "email": "ravi@example.com", "phone": "9876543210", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Registration successful!", body["message"])

	// password is stored hashed, never in the clear
	var stored Customer
	require.NoError(t, storage.DB.First(&stored, "email = ?", "ravi@example.com").Error)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))

	status, body = postJSON(t, app, "/api/login", map[string]string{
		"email": "ravi@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "Ravi Kumar", body["name"])

	claims, err := ParseToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.CustomerID)
	assert.Empty(t, claims.Role)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	app := newTestApp(t)

	payload := map[string]string{
		"name": "Ravi Kumar", "email": "ravi@example.com", "phone": "9876543210", "password": "password123",
	}
	status, _ := postJSON(t, app, "/api/register", payload)
	require.Equal(t, http.StatusOK, status)

	status, body := postJSON(t, app, "/api/register", payload)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already registered.", body["message"])
}

func TestRegisterRequiresAllFields(t *testing.T) {
	app := newTestApp(t)

	status, _ := postJSON(t, app, "/api/register", map[string]string{
		"name": "Ravi", "email": "ravi@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)

	postJSON(t, app, "/api/register", map[string]string{
		"name": "Ravi Kumar", "email": "ravi@example.com", "phone": "9876543210", "password": "password123",
	})

	status, body := postJSON(t, app, "/api/login", map[string]string{
		"email": "ravi@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid email or password.", body["message"])

	status, _ = postJSON(t, app, "/api/login", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminLoginAndMiddleware(t *testing.T) {
	app := newTestApp(t)

	status, _ := postJSON(t, app, "/api/admin/login", map[string]string{
		"email": "admin@a6cars.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := postJSON(t, app, "/api/admin/login", map[string]string{
		"email": "admin@a6cars.com", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "admin@a6cars.com", out["admin_email"])
}

func TestMiddlewareRejectsCustomerTokens(t *testing.T) {
	app := newTestApp(t)

	postJSON(t, app, "/api/register", map[string]string{
		"name": "Ravi Kumar", "email": "ravi@example.com", "phone": "9876543210", "password": "password123",
	})
	_, body := postJSON(t, app, "/api/login", map[string]string{
		"email": "ravi@example.com", "password": "password123",
	})
	token := body["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
