// Package main runs the background notification delivery worker.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fundly/internal/services"
	"fundly/internal/worker"
	"fundly/pkg/queue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	logger := newLogger()
	defer logger.Sync()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Fatal("REDIS_ADDR is required for the worker")
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer client.Close()

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	mail, err := services.NewSMTPMailService(services.SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       smtpPort,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("SMTP_FROM"),
		FromName:   os.Getenv("SMTP_FROM_NAME"),
		UseSSL:     os.Getenv("SMTP_USE_SSL") == "true",
		AppName:    "Fundly",
		AppBaseURL: os.Getenv("APP_BASE_URL"),
	})
	if err != nil {
		logger.Fatal("mail service", zap.Error(err))
	}

	jobQueue := queue.NewQueue(client, logger)
	processor := worker.NewNotificationProcessor(mail, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
