package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/a6cars/backend/config"
	"github.com/a6cars/backend/storage"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func Register(c fiber.Ctx) error {
	req := new(RegisterRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "All fields are required."})
	}

	var existing Customer
	storage.DB.Where("email = ?", req.Email).Limit(1).Find(&existing)
	if existing.ID != 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Email already registered."})
	}

	customer := Customer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if result := storage.DB.Create(&customer); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during registration."})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Registration successful!"})
}

func Login(c fiber.Ctx) error {
	req := make(map[string]string)
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req["email"] == "" || req["password"] == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Email and password required."})
	}

	var customer Customer
	storage.DB.Where("email = ?", req["email"]).Limit(1).Find(&customer)
	if customer.ID == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Invalid email or password."})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req["password"])); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Invalid email or password."})
	}

	token, err := issueToken(Claims{CustomerID: customer.ID, Email: customer.Email})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during login."})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":     "Login successful!",
		"token":       token,
		"customer_id": customer.ID,
		"name":        customer.Name,
		"email":       customer.Email,
	})
}

// AdminLogin checks the static admin credentials from the environment
// and issues a role-bearing token.
func AdminLogin(c fiber.Ctx) error {
	req := make(map[string]string)
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req["email"] != config.AdminEmail() || req["password"] != config.AdminPassword() {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid admin credentials"})
	}

	token, err := issueToken(Claims{Email: req["email"], Role: "admin"})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during admin login"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Admin login successful!",
		"token":   token,
	})
}
