package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Campus     CampusConfig
	Cloudinary CloudinaryConfig
	Push       PushConfig
	Gemini     GeminiConfig
	Mailgun    MailgunConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// CampusConfig restricts signups to a single campus e-mail domain.
type CampusConfig struct {
	EmailDomain string // e.g. "sastra.ac.in"
	Name        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// PushConfig selects the push provider: "onesignal", "fcm" or "" (disabled).
type PushConfig struct {
	Provider           string
	OneSignalAppID     string
	OneSignalAPIKey    string
	FirebaseCredential string // path to service account JSON
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type MailgunConfig struct {
	Domain     string
	APIKey     string
	From       string
	FeedbackTo string
}

func Load() *Config {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Printf("config: no .env loaded: %v", err)
		}
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8088"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			CORSOrigins:  []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			DSN:             getEnv("MYSQL_DSN", "root:@tcp(localhost:3306)/unimart?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "unimart",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Campus: CampusConfig{
			EmailDomain: getEnv("CAMPUS_EMAIL_DOMAIN", "sastra.ac.in"),
			Name:        getEnv("CAMPUS_NAME", "SASTRA"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Push: PushConfig{
			Provider:           getEnv("PUSH_PROVIDER", ""),
			OneSignalAppID:     getEnv("ONESIGNAL_APP_ID", ""),
			OneSignalAPIKey:    getEnv("ONESIGNAL_REST_API_KEY", ""),
			FirebaseCredential: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Mailgun: MailgunConfig{
			Domain:     getEnv("MG_DOMAIN", ""),
			APIKey:     getEnv("MG_API_KEY", ""),
			From:       getEnv("MG_EMAIL_FROM", ""),
			FeedbackTo: getEnv("MG_FEEDBACK_TO", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
