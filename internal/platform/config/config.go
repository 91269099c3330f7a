package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSecret     string
	Environment   string
	PDFFontPath   string
	PDFFontName   string
	BlobDir       string
	RunMigrations bool
	RunSeed       bool
	MaxBodyBytes  int64

	// Dispatch-source company record seeded on first boot.
	SeedCompanyName            string
	SeedCompanyCorporateNumber string
	SeedCompanyAddress         string
	SeedCompanyPhoneNumber     string
	SeedCompanyPermitNumber    string
	SeedCompanyTreatmentMethod string
}

func Load() Config {
	return Config{
		Addr:          getEnv("APP_ADDR", ":8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		Environment:   getEnv("APP_ENV", "development"),
		PDFFontPath:   getEnv("PDF_FONT_PATH", "fonts/ipagp.ttf"),
		PDFFontName:   getEnv("PDF_FONT_NAME", "IPAPGothic"),
		BlobDir:       getEnv("BLOB_DIR", "storage/prints"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:       getEnvBool("RUN_SEED", true),
		MaxBodyBytes:  int64(getEnvInt("MAX_BODY_BYTES", 1048576)),

		SeedCompanyName:            getEnv("SEED_COMPANY_NAME", ""),
		SeedCompanyCorporateNumber: getEnv("SEED_COMPANY_CORPORATE_NUMBER", ""),
		SeedCompanyAddress:         getEnv("SEED_COMPANY_ADDRESS", ""),
		SeedCompanyPhoneNumber:     getEnv("SEED_COMPANY_PHONE_NUMBER", ""),
		SeedCompanyPermitNumber:    getEnv("SEED_COMPANY_PERMIT_NUMBER", ""),
		SeedCompanyTreatmentMethod: getEnv("SEED_COMPANY_TREATMENT_METHOD", "agreement"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if strings.TrimSpace(c.PDFFontPath) == "" {
		return fmt.Errorf("PDF_FONT_PATH is required")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.SeedCompanyTreatmentMethod != "agreement" && c.SeedCompanyTreatmentMethod != "equal_balanced" {
		return fmt.Errorf("SEED_COMPANY_TREATMENT_METHOD must be agreement or equal_balanced")
	}
	return nil
}
