package config

import "os"

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func Port() string {
	return getEnv("PORT", "10000")
}

func JWTSecret() []byte {
	return []byte(getEnv("JWT_SECRET", "secret123"))
}

func AdminEmail() string {
	return getEnv("ADMIN_EMAIL", "admin@a6cars.com")
}

func AdminPassword() string {
	return getEnv("ADMIN_PASS", "admin123")
}

// MerchantVPA is the UPI address payment QR codes point at.
func MerchantVPA() string {
	return getEnv("UPI_MERCHANT_VPA", "a6cars@upi")
}

func SMTPHost() string {
	return getEnv("SMTP_HOST", "smtp.gmail.com")
}

func SMTPPort() string {
	return getEnv("SMTP_PORT", "587")
}

func SMTPUser() string {
	return os.Getenv("SMTP_USER")
}

func SMTPPassword() string {
	return os.Getenv("SMTP_PASS")
}

func SMTPFrom() string {
	return getEnv("SMTP_FROM", "support@a6cars.com")
}
