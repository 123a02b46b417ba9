package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	MongoURI             string
	Port                 string
	DBName               string
	RolesCollection      string
	PrincipalsCollection string
	AuditCollection      string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	// CheckTimeout bounds permission-store reads during an authorization
	// check; on expiry the gate fails closed.
	CheckTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := &Config{
		MongoURI:             mongoURI,
		Port:                 port,
		DBName:               getEnv("DB_NAME", "authcore_db"),
		RolesCollection:      getEnv("COLLECTION_ROLES", "roles"),
		PrincipalsCollection: getEnv("COLLECTION_PRINCIPALS", "principals"),
		AuditCollection:      getEnv("COLLECTION_AUDIT", "audit_records"),
		ReadTimeout:          getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:         getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		CheckTimeout:         getEnvDuration("PERMISSION_CHECK_TIMEOUT", 3*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.CheckTimeout <= 0 {
		return fmt.Errorf("PERMISSION_CHECK_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		if d, err := time.ParseDuration(valStr); err == nil {
			return d
		}
		return fallback
	}
	return time.Duration(val) * time.Second
}
