package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/foodcourt-platform/core-svc/internal/api/http"
	"github.com/foodcourt-platform/core-svc/internal/catalog"
	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/core-svc/internal/ordering"
	"github.com/foodcourt-platform/core-svc/internal/payments"
	"github.com/foodcourt-platform/core-svc/internal/storage"
	"github.com/foodcourt-platform/core-svc/internal/workforce"
	"github.com/foodcourt-platform/platform/config"
	"github.com/foodcourt-platform/platform/eventbus"
	"github.com/foodcourt-platform/platform/identity"
)

// Services bundles every constructed dependency core-svc needs. One value, built once in main
// and passed explicitly into the HTTP layer — no ambient globals.
type Services struct {
	Repo       *storage.PostgresRepository
	Oracle     *identity.Oracle
	Orders     *ordering.Engine
	Payments   *payments.Broker
	Workforce  *workforce.Ledger
	Dispatcher *eventbus.Dispatcher
}

func buildServices() *Services {
	db := config.MustInitPostgres()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatal("core-svc: failed to ensure schema: ", err)
	}
	if err := eventbus.EnsureSchema(db); err != nil {
		log.Fatal("core-svc: failed to ensure outbox schema: ", err)
	}

	principals := storage.NewPrincipalStore(db)
	oracle := identity.NewOracle(config.Getenv("SESSION_SIGNING_SECRET", ""), principals, repo)
	catalogClient := catalog.NewHTTPClient(config.Getenv("CATALOG_SVC_URL", "http://catalog-svc:8080"))

	hostname, _ := os.Hostname()
	dispatcher := eventbus.NewDispatcher(db, "core-svc-dispatcher", hostname, 2*time.Second)

	if brokerAddr := config.Getenv("KAFKA_BROKER", ""); brokerAddr != "" {
		writer := config.NewKafkaWriter(config.Getenv("DOMAIN_EVENTS_TOPIC", "domain-events"))
		dispatcher.Subscribe("kafka-forward", eventbus.NewKafkaForwarder(writer).Forward)
	}

	orders := ordering.NewEngine(db, catalogClient, dispatcher)

	providers := map[domain.PaymentMethod]payments.Provider{
		domain.CardPSPA: payments.NewCardPSPA(config.Getenv("PSP_A_SECRET", ""), config.Getenv("PUBLIC_BASE_URL", "")),
		domain.CardPSPB: payments.NewCardPSPB(config.Getenv("PSP_B_SECRET", ""), config.Getenv("PUBLIC_BASE_URL", "")),
		domain.Cash:     payments.NewCash(),
		domain.Terminal: payments.NewTerminal(),
	}
	broker := payments.NewBroker(db, providers)

	var rdb *redis.Client
	if config.Getenv("REDIS_HOST", "") != "" {
		rdb = config.MustInitRedis()
	}
	ledger := workforce.NewLedger(db, repo, rdb, principals)

	return &Services{
		Repo:       repo,
		Oracle:     oracle,
		Orders:     orders,
		Payments:   broker,
		Workforce:  ledger,
		Dispatcher: dispatcher,
	}
}

func main() {
	svc := buildServices()

	handler := httpapi.NewHandler(svc.Oracle, svc.Orders, svc.Payments, svc.Workforce, svc.Repo, config.Getenv("PUBLIC_BASE_URL", ""))
	router := httpapi.NewRouter(handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Dispatcher.Run(ctx)
	go svc.Workforce.Sweep(ctx, time.Minute)

	port := config.HTTPPort("8080")
	log.Printf("[core-svc] listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
