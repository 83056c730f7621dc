package booking

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/a6cars/backend/auth"
	"github.com/a6cars/backend/car"
	"github.com/a6cars/backend/discount"
	"github.com/a6cars/backend/notification"
	"github.com/a6cars/backend/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&auth.Customer{},
		&car.Car{},
		&car.CarImage{},
		&Booking{},
		&Payment{},
		&Refund{},
		&BookingCancellation{},
		&discount.Discount{},
		&notification.Notification{},
	))

	storage.Use(db)
	return db
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/book", Book)
	api.Get("/mybookings/:customer_id", MyBookings)
	api.Get("/bookings/:car_id", CarBookings)
	api.Post("/bookings/batch", Batch)
	api.Get("/history/:customer_id", History)
	api.Get("/payment/status/:booking_id", PaymentStatus)
	api.Post("/payment/confirm", ConfirmPayment)
	api.Post("/verify-payment", VerifyPayment)
	api.Post("/cancel-booking", Cancel)

	admin := api.Group("/admin")
	admin.Post("/login", auth.AdminLogin)
	admin.Post("/cancel-booking", auth.RequireAdmin, AdminCancel)
	admin.Get("/refunds", auth.RequireAdmin, RefundList)
	admin.Get("/transactions", auth.RequireAdmin, Transactions)
	admin.Post("/process-refunds", auth.RequireAdmin, ProcessRefunds)
	admin.Get("/car-schedule/:car_id", auth.RequireAdmin, CarSchedule)
	admin.Post("/verify-qr", auth.RequireAdmin, VerifyQR)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := make(map[string]any)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}

	return resp.StatusCode, payload
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/admin/login", map[string]string{
		"email":    "admin@a6cars.com",
		"password": "admin123",
	}, "")
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func seedCustomer(t *testing.T, db *gorm.DB) auth.Customer {
	t.Helper()

	customer := auth.Customer{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Phone:    "9876543210",
		Password: "password123",
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func seedCar(t *testing.T, db *gorm.DB, rate float64) car.Car {
	t.Helper()

	c := car.Car{
		Brand:     "Maruti Suzuki",
		CarModel:  "Swift",
		Year:      2023,
		DailyRate: rate,
		Location:  "Hyderabad",
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format(time.DateOnly)
}
