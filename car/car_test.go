package car

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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/a6cars/backend/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Car{}, &CarImage{}))
	storage.Use(db)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/cars", List)
	api.Get("/cars/search", Search)
	api.Post("/cars", Add)
	return app, db
}

func TestAddAndListWithImages(t *testing.T) {
	app, _ := newTestApp(t)

	payload, _ := json.Marshal(AddCarRequest{
		Brand: "Hyundai", Model: "Creta", Year: 2024, DailyRate: 2800, Location: "Kochi",
		ImageURLs: []string{"https://img.example.com/creta-front.jpg", "https://img.example.com/creta-rear.jpg"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/cars", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/cars", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Hyundai", rows[0]["brand"])
	assert.Equal(t, "Creta", rows[0]["model"])
	assert.Equal(t, 2800.0, rows[0]["daily_rate"])
	images, ok := rows[0]["images"].([]any)
	require.True(t, ok)
	assert.Len(t, images, 2)
}

func TestAddRequiresFields(t *testing.T) {
	app, _ := newTestApp(t)

	payload, _ := json.Marshal(AddCarRequest{Brand: "Hyundai"})
	req := httptest.NewRequest(http.MethodPost, "/api/cars", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchFilters(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&Car{
		Brand: "Maruti", CarModel: "Swift", Year: 2023, DailyRate: 1800, Location: "Chennai",
		Images: []CarImage{{ImageURL: "https://img.example.com/swift.jpg"}},
	}).Error)
	require.NoError(t, db.Create(&Car{Brand: "Hyundai", CarModel: "Creta", Year: 2024, DailyRate: 2800, Location: "Kochi"}).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/cars/search?filter=brand&value=Maruti", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// search answers with the same flattened rows as the listing
	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Swift", rows[0]["model"])
	images, ok := rows[0]["images"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"https://img.example.com/swift.jpg"}, images)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/cars/search?filter=vin&value=x", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSeedIsIdempotent(t *testing.T) {
	_, db := newTestApp(t)

	require.NoError(t, Seed(db, "../data/cars.json"))
	var first int64
	db.Model(&Car{}).Count(&first)
	assert.Greater(t, first, int64(0))

	require.NoError(t, Seed(db, "../data/cars.json"))
	var second int64
	db.Model(&Car{}).Count(&second)
	assert.Equal(t, first, second, "seeding twice must not duplicate the fleet")
}
