package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/rs/cors"

	"github.com/foodcourt-platform/api-gateway/internal/gateway"
	"github.com/foodcourt-platform/platform/config"
	"github.com/foodcourt-platform/platform/ratelimit"
)

func main() {
	cfg := gateway.Config{
		CoreSvcURL:     config.Getenv("CORE_SVC_URL", "http://localhost:8080"),
		ProviderSecret: config.Getenv("SESSION_SIGNING_SECRET", ""),
	}

	var limiter *ratelimit.Limiter
	if perMinute, err := strconv.Atoi(config.Getenv("RATE_LIMIT_PER_MINUTE", "0")); err == nil && perMinute > 0 {
		limiter = ratelimit.New(config.MustInitRedis(), perMinute)
	}

	gw := gateway.NewGateway(cfg, &http.Client{}, limiter)
	r := gw.SetupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	port := config.HTTPPort("8000")
	log.Printf("[api-gateway] listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
