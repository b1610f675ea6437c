package utils

import (
	"os"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort  string `yaml:"APP_PORT"`
	AppURL   string `yaml:"APP_URL"`
	TimeZone string `yaml:"TIMEZONE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
	DetectLabels bool   `yaml:"DETECT_LABELS"`

	// Remote data gateway: "database" or "supabase"
	GatewayDriver string `yaml:"GATEWAY_DRIVER"`
	SupabaseURL   string `yaml:"SUPABASE_URL"`
	SupabaseKey   string `yaml:"SUPABASE_KEY"`

	// Preference store: "database" or "sqlite"
	PreferenceDriver     string `yaml:"PREFERENCE_DRIVER"`
	PreferenceSQLitePath string `yaml:"PREFERENCE_SQLITE_PATH"`
}

var (
	config     Config
	configOnce sync.Once
)

// LoadConfig reads .env and config.yaml once. Environment variables win
// over yaml values.
func LoadConfig() {
	configOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debugf("no .env file loaded: %v", err)
		}

		file, err := os.ReadFile("config.yaml")
		if err != nil {
			log.Warnf("Error reading YAML file: %s", err)
			return
		}

		if err := yaml.Unmarshal(file, &config); err != nil {
			log.Errorf("Error parsing YAML file: %s", err)
			return
		}
	})
}

func getBoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	switch key {
	case "APP_PORT":
		return withDefault(config.AppPort, "8080")
	case "APP_URL":
		return config.AppURL
	case "TIMEZONE":
		return withDefault(config.TimeZone, "Europe/Helsinki")
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "DETECT_LABELS":
		return getBoolString(config.DetectLabels)
	case "GATEWAY_DRIVER":
		return withDefault(config.GatewayDriver, "database")
	case "SUPABASE_URL":
		return config.SupabaseURL
	case "SUPABASE_KEY":
		return config.SupabaseKey
	case "PREFERENCE_DRIVER":
		return withDefault(config.PreferenceDriver, "database")
	case "PREFERENCE_SQLITE_PATH":
		return withDefault(config.PreferenceSQLitePath, "./data/preferences.db")
	default:
		return ""
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
