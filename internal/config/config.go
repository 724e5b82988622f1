package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	ImageStoreLocal = "local"
	ImageStoreHDFS  = "hdfs"
)

type Config struct {
	ServerPort    string
	StorageDriver string

	MongoURL string
	MongoDB  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret      string
	JWTExpiryHours int

	ImageStore  string
	ImageDir    string
	HDFSAddr    string
	HDFSDir     string
	PublicURL   string
	MaxUploadMB int

	LogLevel string
	GinMode  string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		StorageDriver:  getEnv("STORAGE_DRIVER", DriverMongo),
		MongoURL:       getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "todo"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "taskboard_user"),
		DBPassword:     getEnv("DB_PASSWORD", "taskboard_pass"),
		DBName:         getEnv("DB_NAME", "taskboard_db"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 0),
		ImageStore:     getEnv("IMAGE_STORE", ImageStoreLocal),
		ImageDir:       getEnv("IMAGE_DIR", "./uploads"),
		HDFSAddr:       getEnv("HDFS_ADDR", "namenode:9000"),
		HDFSDir:        getEnv("HDFS_DIR", "/taskboard/images"),
		PublicURL:      getEnv("PUBLIC_URL", "http://localhost:8080"),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 5),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		GinMode:        getEnv("GIN_MODE", "release"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, raw, defaultVal)
		return defaultVal
	}
	return n
}
