package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded, when present, before the environment is read.
// Variables already set in the process environment win.
var dotenvFile = ".env"

// parseEnv overlays the mail relay secrets and a few deployment settings
// from environment variables:
//
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_SECURE, SMTP_FROM
//	SENDGRID_API_KEY, SENDGRID_FROM, CONTACT_RECIPIENT
//	DATABASE_DSN, JWT_SECRET, ADMIN_EMAILS (comma separated)
//
// Unset or unparsable variables leave the current value untouched.
func parseEnv(c *Config) {
	_ = godotenv.Load(dotenvFile)

	setString(&c.Mail.SMTPHost, "SMTP_HOST")
	setInt(&c.Mail.SMTPPort, "SMTP_PORT")
	setString(&c.Mail.SMTPUser, "SMTP_USER")
	setString(&c.Mail.SMTPPass, "SMTP_PASS")
	setBool(&c.Mail.SMTPSecure, "SMTP_SECURE")
	setString(&c.Mail.SMTPFrom, "SMTP_FROM")
	setString(&c.Mail.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.Mail.SendGridFrom, "SENDGRID_FROM")
	setString(&c.Mail.ContactRecipient, "CONTACT_RECIPIENT")

	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.SecretKey, "JWT_SECRET")
	if v, ok := os.LookupEnv("ADMIN_EMAILS"); ok {
		c.AdminEmails = splitList(v)
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = n
	}
}

func setBool(dst *bool, key string) {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		*dst = b
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
