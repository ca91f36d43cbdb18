package configs

import "os"

var Envs = struct {
	PORT            string
	FRONTEND_ORIGIN string
	POSTGRES_URL    string
	GIN_MODE        string
}{
	PORT:            getEnv("PORT", "5000"),
	FRONTEND_ORIGIN: getEnv("FRONTEND_ORIGIN", "localhost:5173"),
	POSTGRES_URL:    os.Getenv("POSTGRES_URL"),
	GIN_MODE:        os.Getenv("GIN_MODE"),
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
