package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Load() App {
	_ = godotenv.Load()

	cfg := App{
		Port:                 getenv("APP_PORT", "8080"),
		DatabaseURL:          must("DATABASE_URL"),
		JWTSecret:            getenv("JWT_SECRET", "local_dev_secret"),
		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:          getenv("SENDER_EMAIL", "noreply@kloudserver.com"),
		Env:                  getenv("APP_ENV", "dev"),
		InvoiceDueDays:       getint("INVOICE_DUE_DAYS", 7),
		RenewalLookaheadDays: getint("RENEWAL_LOOKAHEAD_DAYS", 7),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("bad int env, using default", "key", k, "value", v)
		return def
	}
	return n
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
