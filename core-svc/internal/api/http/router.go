package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/foodcourt-platform/platform/httpmw"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	wrapped := httpmw.Recover("core-svc")(httpmw.RequestLogger("core-svc")(r))
	return cors.Default().Handler(wrapped)
}
