package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	JwtSecret      []byte
	ConflictScope  string
	RequestTimeout time.Duration
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) Config {
	c := Config{
		Port:           getenv("PORT"),
		MongoURI:       getenv("MONGO_URI"),
		MongoDB:        getenv("MONGO_DB"),
		RedisAddr:      getenv("REDIS_ADDR"),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		JwtSecret:      []byte(getenv("JWT_SECRET")),
		ConflictScope:  getenv("CONFLICT_SCOPE"),
		RequestTimeout: 5 * time.Second,
	}
	if c.Port == "" {
		c.Port = ":8080"
	} else if c.Port[0] != ':' {
		c.Port = ":" + c.Port
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://localhost:27017"
	}
	if c.MongoDB == "" {
		c.MongoDB = "studiodb"
	}
	if c.ConflictScope == "" {
		c.ConflictScope = "booking"
	}
	if secs, err := strconv.Atoi(getenv("REQUEST_TIMEOUT")); err == nil && secs > 0 {
		c.RequestTimeout = time.Duration(secs) * time.Second
	}
	return c
}
