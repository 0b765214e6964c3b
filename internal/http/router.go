package httpapi

import (
	"expvar"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/catalog", app.listCatalogHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog", app.submitProductFormHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/catalog/edit/cancel", app.cancelEditHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/catalog/{id}/edit", app.beginEditHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/catalog/{id}", app.deleteProductHandler).Methods(http.MethodDelete)

	r.HandleFunc("/api/cart/items", app.addCartItemHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/cart", app.getCartHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", app.clearCartHandler).Methods(http.MethodDelete)
	r.HandleFunc("/api/checkout", app.checkoutHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions", app.listTransactionsHandler).Methods(http.MethodGet)

	r.HandleFunc("/healthz", app.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/debug/metrics", app.metricsHandler).Methods(http.MethodGet)
	r.Handle("/debug/vars", expvar.Handler())
	r.HandleFunc("/openapi.yaml", app.openapiHandler).Methods(http.MethodGet)
	r.HandleFunc("/docs", app.docsHandler).Methods(http.MethodGet)

	return WithRequestID(WithLogging(r))
}
