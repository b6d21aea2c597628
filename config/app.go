package config

type App struct {
	Port           string `env:"APP_PORT" default:"8080"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	JWTSecret      string `env:"JWT_SECRET,required"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SenderEmail    string `env:"SENDER_EMAIL" default:"noreply@kloudserver.com"`
	Env            string `env:"APP_ENV" default:"dev"`

	// Billing knobs, injected into the order and automation services.
	InvoiceDueDays       int `env:"INVOICE_DUE_DAYS" default:"7"`
	RenewalLookaheadDays int `env:"RENEWAL_LOOKAHEAD_DAYS" default:"7"`
}
