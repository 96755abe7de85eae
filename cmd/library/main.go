package main

import (
	"log"
	"time"

	"github.com/Astemirdum/book-management/library/app"
	"github.com/Astemirdum/book-management/library/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// @title Book Management Service
// @version 1.0
// @description book catalog, readers and borrow lifecycle service.

// @host localhost:8080
// @BasePath /

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file: %v", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app run: %v", err)
	}
}
