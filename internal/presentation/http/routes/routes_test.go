package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/pedidos-api/internal/application/service"
	"github.com/sangkips/pedidos-api/internal/config"
	"github.com/sangkips/pedidos-api/internal/infrastructure/cache"
	"github.com/sangkips/pedidos-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pedidos-api/internal/infrastructure/storage"
	"github.com/sangkips/pedidos-api/internal/presentation/http/handler"
	"github.com/sangkips/pedidos-api/pkg/metrics"
	"github.com/sangkips/pedidos-api/pkg/orderview"
	"github.com/sangkips/pedidos-api/pkg/utils"
)

type testServer struct {
	router *Router
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	store := memory.NewStore()
	m := metrics.New("pedidos")
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	cfg := &config.Config{
		App:        config.AppConfig{Name: "pedidos-api"},
		RateLimit:  config.RateLimitConfig{Requests: 1000, Duration: 60},
		LoginLimit: config.RateLimitConfig{Requests: 3, Duration: 60},
	}

	archive, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	authService := service.NewAuthService(store.Users(), jwtManager, log)
	orderService := service.NewOrderService(store.Orders(), log)
	summaryService := service.NewSummaryService(store.Summaries(), m, log)
	dashboardService := service.NewDashboardService(orderService, summaryService, cache.NoopViewCache{}, time.Minute, service.ReceiptSettings{
		Formatter:  orderview.DefaultReceiptFormatter(),
		SharePhone: "5512345678",
	}, m, log)
	exportService := service.NewExportService(summaryService, archive, m, log)

	_, err = authService.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	router := Setup(&Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Order:     handler.NewOrderHandler(orderService),
		Summary:   handler.NewSummaryHandler(summaryService, exportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: store.Idempotency(),
		Log:             log,
		Metrics:         m,
	})
	t.Cleanup(router.Close)

	s := &testServer{router: router}
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "admin123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	s.token = login.Token
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = s.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pedidos_http_requests_total")
}

func TestLoginFailureAndRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[envelope[any]](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Usuario o contraseña incorrectos", body.Message)

	// the successful login in newTestServer plus this one used two of three slots
	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "admin123"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec := s.do(t, http.MethodGet, "/api/v1/pedidos", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.token = "garbage"
	rec = s.do(t, http.MethodGet, "/api/v1/pedidos", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderCRUD(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/pedidos", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/pedidos", map[string]any{
		"pedido": "P-1", "cliente": "Ana", "costo": "150.5", "envio": 10, "costoCompra": 90,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[orderview.Record](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 150.5, created.Cost)

	rec = s.do(t, http.MethodPut, "/api/v1/pedidos/"+created.ID, map[string]any{
		"pedido": "P-1", "cliente": "Ana María", "costo": 160, "envio": 10, "costoCompra": 90,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana María", decode[orderview.Record](t, rec).Customer)

	rec = s.do(t, http.MethodGet, "/api/v1/pedidos", nil, nil)
	list := decode[[]orderview.Record](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, 160.0, list[0].Cost)

	rec = s.do(t, http.MethodGet, "/api/v1/pedidos/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/pedidos/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/v1/pedidos/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func seedOrders(t *testing.T, s *testServer) {
	t.Helper()
	for _, o := range []map[string]any{
		{"pedido": "P-1", "cliente": "Ana", "tienda": "Shein", "costo": 100, "envio": 10, "costoCompra": 60},
		{"pedido": "P-2", "cliente": "Luis", "tienda": "Amazon", "costo": 200, "envio": 0, "costoCompra": 140},
		{"pedido": "P-3", "cliente": "Ana", "tienda": "Amazon", "costo": 50, "envio": 5, "costoCompra": 0},
	} {
		rec := s.do(t, http.MethodPost, "/api/v1/pedidos", o, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestDashboardView(t *testing.T) {
	s := newTestServer(t)
	seedOrders(t, s)

	rec := s.do(t, http.MethodPost, "/api/v1/dashboard/view", map[string]any{
		"columnFilters": map[string]string{"tienda": "amazon"},
		"sort":          map[string]string{"column": "costo", "direction": "desc"},
		"ajustes":       map[string]any{"impuestosProveedor": "28", "comision": 15},
		"pageSize":      1,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[envelope[orderview.View]](t, rec)
	assert.True(t, body.Success)
	view := body.Data
	require.Len(t, view.Visible, 2)
	assert.Equal(t, "P-2", view.Visible[0].OrderLabel)
	assert.Equal(t, 250.0, view.Totals.SubtotalSales)
	assert.Equal(t, 270.0, view.Totals.CustomerTotal)
	require.NotNil(t, view.Page)
	assert.Len(t, view.Page.Items, 1)
	assert.InDelta(t, 28.0, view.Allocation.Rows[0].AllocatedTax, 0.001)

	rec = s.do(t, http.MethodPost, "/api/v1/dashboard/view", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[envelope[orderview.View]](t, rec).Data.Visible, 3)
}

func TestDashboardReceipt(t *testing.T) {
	s := newTestServer(t)
	seedOrders(t, s)

	rec := s.do(t, http.MethodPost, "/api/v1/dashboard/receipt", map[string]any{"globalFilter": "luis"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[envelope[service.Receipt]](t, rec)
	assert.Contains(t, body.Data.Text, "🚚 Envío: GRATIS")
	assert.Contains(t, body.Data.Text, "TOTAL A PAGAR: $200.00")
	assert.True(t, strings.HasPrefix(body.Data.ShareURL, "https://wa.me/5512345678?text="))
}

func TestSummariesFlow(t *testing.T) {
	s := newTestServer(t)
	seedOrders(t, s)

	rec := s.do(t, http.MethodPost, "/api/v1/dashboard/resumen", map[string]any{
		"ajustes": map[string]any{"impuestosProveedor": 40},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	fromView := decode[envelope[orderview.SavedSummary]](t, rec).Data
	require.NotEmpty(t, fromView.ID)
	assert.Len(t, fromView.Details, 3)

	payload := orderview.SavedSummary{
		Adjustments: orderview.Adjustments{ImportTaxSupplier: 10},
		Totals:      orderview.Totals{SubtotalSales: 30},
		Details:     []orderview.SummaryDetail{{OrderLabel: "X-1", Customer: "Eva", Sale: 30, Cost: 20}},
	}
	headers := map[string]string{"Idempotency-Key": "save-1"}
	rec = s.do(t, http.MethodPost, "/api/v1/resumenes", payload, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[orderview.SavedSummary](t, rec)

	rec = s.do(t, http.MethodPost, "/api/v1/resumenes", payload, headers)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.ID, decode[orderview.SavedSummary](t, rec).ID)

	rec = s.do(t, http.MethodGet, "/api/v1/resumenes", nil, nil)
	list := decode[[]orderview.SavedSummary](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	rec = s.do(t, http.MethodGet, "/api/v1/resumenes/ganancias", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[envelope[orderview.ProfitReport]](t, rec).Data
	assert.Len(t, report.Rows, 4)
	assert.InDelta(t, 50.0, report.Totals.AllocatedTaxes, 0.001)

	rec = s.do(t, http.MethodGet, "/api/v1/resumenes/ganancias/export", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"ganancias-")
	assert.NotEmpty(t, rec.Header().Get("X-Archive-Key"))
	assert.NotZero(t, rec.Body.Len())

	rec = s.do(t, http.MethodGet, "/api/v1/resumenes/"+first.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "X-1", decode[orderview.SavedSummary](t, rec).Details[0].OrderLabel)

	rec = s.do(t, http.MethodDelete, "/api/v1/resumenes/"+first.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/resumenes/"+first.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
