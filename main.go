package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/a6cars/backend/auth"
	"github.com/a6cars/backend/booking"
	"github.com/a6cars/backend/car"
	"github.com/a6cars/backend/config"
	"github.com/a6cars/backend/discount"
	"github.com/a6cars/backend/notification"
	"github.com/a6cars/backend/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using system environment")
	}

	db, err := storage.ConnectDB(config.DatabaseURL())
	if err != nil {
		log.Fatal(err)
	}

	err = db.AutoMigrate(
		&auth.Customer{},
		&car.Car{},
		&car.CarImage{},
		&booking.Booking{},
		&booking.Payment{},
		&booking.Refund{},
		&booking.BookingCancellation{},
		&discount.Discount{},
		&notification.Notification{},
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := car.Seed(db, "data/cars.json"); err != nil {
		log.Printf("car seed skipped: %v", err)
	}

	app := fiber.New(fiber.Config{AppName: "A6CARS"})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("A6 Cars Rental API is running")
	})

	registerRoutes(app)

	if err := app.Listen(":" + config.Port()); err != nil {
		log.Fatal(err)
	}
}
