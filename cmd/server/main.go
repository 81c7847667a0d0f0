package main

import (
	"log"
	"os"
	"updoot/internal/db"
	"updoot/internal/repository"
	"updoot/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	conn := db.Init()
	store := repository.NewGormStore(conn)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	r.Use(sessions.Sessions("updoot_session", sessionStore()))

	router.RegisterRoutes(r, store)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("updoot server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// sessionStore prefers a Redis-backed session store when REDIS_URL is
// set, so sessions survive restarts and multiple instances; otherwise
// falls back to an encrypted cookie store.
func sessionStore() sessions.Store {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}

	if addr := os.Getenv("REDIS_URL"); addr != "" {
		store, err := redis.NewStore(10, "tcp", addr, os.Getenv("REDIS_PASSWORD"), []byte(secret))
		if err != nil {
			log.Printf("Redis session store unavailable (%v), using cookie store", err)
		} else {
			log.Println("Using Redis session store")
			return store
		}
	}
	return cookie.NewStore([]byte(secret))
}
