package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                   string
	Port                  string
	LogLevel              string
	DatabaseURL           string
	RedisURL              string
	NATSURL               string
	NATSSubject           string
	SendinblueAPIKey      string // SENDINBLUE_API_KEY for review notification emails (Brevo)
	MailFrom              string
	OperatorEmails        []string
	ReviewBaseURL         string // operator dashboard link prefix; the listing id is appended
	NotifyTemplateNew     string // text/template body for new listings; empty uses the built-in one
	NotifyTemplateUpdated string
	FrontendURLEndsWith   string
	DevPassword           string
	HealthAdminKey        string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("NATS_SUBJECT", "listings.review")
	viper.SetDefault("MAIL_FROM", "noreply@offerings.example")
	viper.SetDefault("REVIEW_BASE_URL", "http://localhost:3000/admin/listings")

	return &Config{
		Env:                   viper.GetString("APP_ENV"),
		Port:                  viper.GetString("PORT"),
		LogLevel:              viper.GetString("LOG_LEVEL"),
		DatabaseURL:           viper.GetString("DATABASE_URL"),
		RedisURL:              viper.GetString("REDIS_URL"),
		NATSURL:               viper.GetString("NATS_URL"),
		NATSSubject:           viper.GetString("NATS_SUBJECT"),
		SendinblueAPIKey:      viper.GetString("SENDINBLUE_API_KEY"),
		MailFrom:              viper.GetString("MAIL_FROM"),
		OperatorEmails:        splitList(viper.GetString("OPERATOR_EMAILS")),
		ReviewBaseURL:         strings.TrimRight(strings.TrimSpace(viper.GetString("REVIEW_BASE_URL")), "/"),
		NotifyTemplateNew:     viper.GetString("NOTIFY_TEMPLATE_NEW"),
		NotifyTemplateUpdated: viper.GetString("NOTIFY_TEMPLATE_UPDATED"),
		FrontendURLEndsWith:   viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:           viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:        viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
