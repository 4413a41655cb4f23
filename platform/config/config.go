// Package config centralizes the environment-driven infrastructure bootstrap every service
// needs (spec §6 Configuration). Adapted from the teacher's config.MustInitPostgres/MustInitRedis
// /NewKafkaReader/NewKafkaWriter — the difference here is that every service actually imports it.
package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustInitPostgres opens and pings the database named by DATABASE_URL, or dies trying.
func MustInitPostgres() *sql.DB {
	dsn := os.Getenv("DATABASE_URL")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("config: failed to open database: ", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal("config: failed to ping database: ", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

// MustInitRedis connects to REDIS_HOST:REDIS_PORT, or dies trying.
func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: Getenv("REDIS_HOST", "localhost") + ":" + Getenv("REDIS_PORT", "6379"),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("config: failed to connect to redis: ", err)
	}
	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

// HTTPPort resolves the service's listen port, defaulting per spec §6.
func HTTPPort(fallback string) string {
	return Getenv("HTTP_PORT", fallback)
}
