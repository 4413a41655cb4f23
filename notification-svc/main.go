package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodcourt-platform/notification-svc/internal/notify"
	"github.com/foodcourt-platform/notification-svc/internal/service"
	"github.com/foodcourt-platform/notification-svc/internal/storage"
	"github.com/foodcourt-platform/platform/config"
)

func main() {
	rdb := config.MustInitRedis()
	markers := storage.NewMarkerStore(rdb, 24*time.Hour)

	reader := config.NewKafkaReader(config.Getenv("DOMAIN_EVENTS_TOPIC", "domain-events"), "notification-svc-consumer")
	defer reader.Close()

	consumer := service.NewConsumer(reader, markers, notify.LogSender{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("[notification-svc] starting")
	consumer.Start(ctx)
}
