package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/justindrp/middlemanPOS/internal/cart"
	"github.com/justindrp/middlemanPOS/internal/catalog"
	"github.com/justindrp/middlemanPOS/internal/config"
	"github.com/justindrp/middlemanPOS/internal/currency"
	httpopenapi "github.com/justindrp/middlemanPOS/internal/http/openapi"
	"github.com/justindrp/middlemanPOS/internal/ledger"
	"github.com/justindrp/middlemanPOS/internal/model"
	"github.com/justindrp/middlemanPOS/internal/obs"
	"github.com/justindrp/middlemanPOS/internal/session"
)

// App wires the engine components behind the HTTP handlers.
type App struct {
	Cfg     config.Config
	Catalog *catalog.Catalog
	Cart    *cart.Cart
	Ledger  *ledger.Ledger
	Session *session.EditSession
	started time.Time
}

// NewApp constructs an App over the given engine components.
func NewApp(cfg config.Config, cat *catalog.Catalog, ct *cart.Cart, led *ledger.Ledger, ses *session.EditSession) *App {
	return &App{Cfg: cfg, Catalog: cat, Cart: ct, Ledger: led, Session: ses, started: time.Now()}
}

// productView is a catalog entry with display-unit pricing for rendering.
type productView struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	DisplayPrice   float64 `json:"display_price"`
	FormattedPrice string  `json:"formatted_price"`
	Stock          int64   `json:"stock"`
	Position       int     `json:"position"`
}

func viewOf(p model.Product, position int, unit currency.Unit) productView {
	return productView{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		DisplayPrice:   currency.ToDisplay(p.Price, unit),
		FormattedPrice: currency.Format(p.Price, unit),
		Stock:          p.Stock,
		Position:       position,
	}
}

func (a *App) displayUnit(r *http.Request) (currency.Unit, error) {
	q := r.URL.Query().Get("currency")
	if q == "" {
		q = a.Cfg.DefaultCurrency
	}
	return currency.ParseUnit(q)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (a *App) listCatalogHandler(w http.ResponseWriter, r *http.Request) {
	unit, err := a.displayUnit(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	products := a.Catalog.List()
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = viewOf(p, i, unit)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currency": unit,
		"symbol":   unit.Symbol(),
		"products": views,
	})
}

// productForm mirrors the add/update product form: the submitted price is
// in the operator's current display currency and is converted to the
// canonical unit before storage.
type productForm struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int64   `json:"stock"`
	Currency string  `json:"currency,omitempty"`
}

func (a *App) submitProductFormHandler(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if !decodeJSONBody(w, r, &form) {
		return
	}
	unit, err := currency.ParseUnit(form.Currency)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	price := currency.ToCanonical(form.Price, unit)

	if id, editing := a.Session.Active(); editing {
		p, err := a.Catalog.Update(id, form.Name, price, form.Stock)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		a.Session.End()
		obs.Logger.Info("product_updated", "product_id", p.ID, "name", p.Name,
			"request_id", RequestIDFromContext(r.Context()))
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "updated",
			"product": viewOf(p, a.Catalog.PositionOf(p.ID), unit),
		})
		return
	}

	p, err := a.Catalog.Add(form.Name, price, form.Stock)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	obs.Logger.Info("product_added", "product_id", p.ID, "name", p.Name,
		"request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "added",
		"product": viewOf(p, a.Catalog.PositionOf(p.ID), unit),
	})
}

func (a *App) beginEditHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	unit, err := a.displayUnit(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	p, ok := a.Catalog.Get(id)
	if !ok {
		WriteDomainError(w, catalog.ErrNotFound)
		return
	}
	a.Session.Begin(id)
	// The product comes back with display-unit pricing to prefill the form.
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "editing",
		"product": viewOf(p, a.Catalog.PositionOf(id), unit),
	})
}

func (a *App) cancelEditHandler(w http.ResponseWriter, r *http.Request) {
	a.Session.End()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (a *App) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.Catalog.Delete(id); err != nil {
		WriteDomainError(w, err)
		return
	}
	// Drop every reference the deleted product may still have.
	a.Session.Invalidate(id)
	a.Cart.Remove(id)
	obs.Logger.Info("product_deleted", "product_id", id,
		"request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type cartAddRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (a *App) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := a.Cart.Add(req.ProductID, req.Quantity); err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeCart(w, r, http.StatusOK)
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	a.writeCart(w, r, http.StatusOK)
}

type cartLineView struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

func (a *App) writeCart(w http.ResponseWriter, r *http.Request, status int) {
	unit, err := a.displayUnit(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	lines := a.Cart.Lines()
	views := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		p, ok := a.Catalog.Get(line.ProductID)
		if !ok {
			continue
		}
		unitPrice := currency.ToDisplay(p.Price, unit)
		views = append(views, cartLineView{
			ProductID: line.ProductID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			LineTotal: unitPrice * float64(line.Quantity),
		})
	}
	totalCanonical := a.Cart.Total(currency.USD)
	writeJSON(w, status, map[string]any{
		"currency":        unit,
		"symbol":          unit.Symbol(),
		"lines":           views,
		"total":           currency.ToDisplay(totalCanonical, unit),
		"formatted_total": currency.Format(totalCanonical, unit),
	})
}

func (a *App) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	a.Cart.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (a *App) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := a.Cart.Commit()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	obs.Logger.Info("transaction_committed",
		"transaction_id", rec.ID,
		"sequence", rec.Sequence,
		"total", rec.Total,
		"items", len(rec.Items),
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":      "complete",
		"transaction": rec,
	})
}

func (a *App) listTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": a.Ledger.List(),
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := map[string]any{
		"products":     a.Catalog.Len(),
		"transactions": a.Ledger.Len(),
		"cart_lines":   len(a.Cart.Lines()),
		"uptime_sec":   time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
