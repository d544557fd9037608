package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sangkips/pedidos-api/internal/infrastructure/cache"
	"github.com/sangkips/pedidos-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pedidos-api/internal/infrastructure/storage"
	"github.com/sangkips/pedidos-api/pkg/apperror"
	"github.com/sangkips/pedidos-api/pkg/metrics"
	"github.com/sangkips/pedidos-api/pkg/orderview"
	"github.com/sangkips/pedidos-api/pkg/utils"
)

type fixture struct {
	store     *memory.Store
	metrics   *metrics.Metrics
	auth      *AuthService
	orders    *OrderService
	summaries *SummaryService
	dashboard *DashboardService
	cache     *cache.LRUViewCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	store := memory.NewStore()
	m := metrics.New("test")

	lru, err := cache.NewLRUViewCache(16)
	require.NoError(t, err)

	auth := NewAuthService(store.Users(), utils.NewJWTManager("secret", time.Hour), log)
	auth.hashCost = bcrypt.MinCost

	orders := NewOrderService(store.Orders(), log)
	summaries := NewSummaryService(store.Summaries(), m, log)
	dashboard := NewDashboardService(orders, summaries, lru, time.Minute, ReceiptSettings{
		Formatter:    orderview.DefaultReceiptFormatter(),
		ShareBaseURL: orderview.DefaultShareBaseURL,
		SharePhone:   "5215512345678",
	}, m, log)
	dashboard.now = func() time.Time { return time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC) }

	return &fixture{
		store:     store,
		metrics:   m,
		auth:      auth,
		orders:    orders,
		summaries: summaries,
		dashboard: dashboard,
		cache:     lru,
	}
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	user := uuid.New()
	for _, raw := range []map[string]any{
		{"pedido": "P-1", "cliente": "Ana", "tienda": "Shein", "costo": 100, "envio": 10, "costoCompra": 60},
		{"pedido": "P-2", "cliente": "Luis", "tienda": "Amazon", "costo": "200", "envio": 0, "costoCompra": 140},
		{"pedido": "P-3", "cliente": "Ana", "tienda": "Amazon", "costo": 50, "envio": 5, "costoCompra": 0},
	} {
		_, err := f.orders.CreateOrder(ctx, user, raw)
		require.NoError(t, err)
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.auth.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.EnsureAdmin(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)

	out, err := f.auth.Login(ctx, &LoginInput{Username: " admin ", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, "admin", out.User.Username)

	claims, err := utils.NewJWTManager("secret", time.Hour).ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)

	for _, in := range []LoginInput{
		{Username: "admin", Password: "wrong"},
		{Username: "nadie", Password: "admin123"},
		{Username: "", Password: ""},
	} {
		_, err := f.auth.Login(ctx, &in)
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	}
}

func TestOrderCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.CreateOrder(ctx, uuid.New(), map[string]any{
		"pedido": "P-9", "costo": "1234.567", "envio": -5, "costoCompra": "abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "1234.57", order.Cost.StringFixed(2))
	assert.True(t, order.ShippingCost.IsZero())
	assert.True(t, order.PurchaseCost.IsZero())

	updated, err := f.orders.UpdateOrder(ctx, order.ID, map[string]any{"pedido": "P-9b", "cliente": "Eva"})
	require.NoError(t, err)
	assert.Equal(t, "P-9b", updated.OrderLabel)
	assert.Equal(t, "Eva", updated.Customer)
	assert.True(t, updated.Cost.IsZero())

	require.NoError(t, f.orders.DeleteOrder(ctx, order.ID))

	_, err = f.orders.GetOrder(ctx, order.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, http.StatusNotFound, statusOf(t, f.orders.DeleteOrder(ctx, order.ID)))
	_, err = f.orders.UpdateOrder(ctx, uuid.New(), map[string]any{})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDashboardViewUsesCache(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	state := orderview.NewViewState().WithColumnFilter(orderview.ColumnCustomer, "ana")
	view, err := f.dashboard.View(ctx, state)
	require.NoError(t, err)
	require.Len(t, view.Visible, 2)
	assert.Equal(t, 150.0, view.Totals.SubtotalSales)
	assert.Equal(t, 15.0, view.Totals.TotalShipping)
	assert.Equal(t, 1, f.cache.Len())

	again, err := f.dashboard.View(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, view.Totals, again.Totals)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ViewCacheHits.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ViewCacheHits.WithLabelValues("miss")))

	_, err = f.orders.CreateOrder(ctx, uuid.New(), map[string]any{"pedido": "P-4", "cliente": "Ana", "costo": 1})
	require.NoError(t, err)
	fresh, err := f.dashboard.View(ctx, state)
	require.NoError(t, err)
	assert.Len(t, fresh.Visible, 3)
}

func TestDashboardReceipt(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	state := orderview.NewViewState().
		WithGlobalFilter("luis").
		WithAdjustments(orderview.Adjustments{Commission: 20, Deposit: 50})
	receipt, err := f.dashboard.Receipt(context.Background(), state)
	require.NoError(t, err)

	assert.Contains(t, receipt.Text, "📅 Fecha: 05/03/2024 14:07")
	assert.Contains(t, receipt.Text, "🚚 Envío: GRATIS")
	assert.Contains(t, receipt.Text, "✅ *TOTAL A PAGAR: $170.00*")
	assert.Equal(t, 170.0, receipt.Totals.FinalTotal)
	assert.Contains(t, receipt.ShareURL, "https://wa.me/5215512345678?text=")
}

func TestSummariesAndProfitReport(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	user := uuid.New()

	state := orderview.NewViewState().WithAdjustments(orderview.Adjustments{ImportTaxSupplier: 40})
	saved, err := f.dashboard.SaveCurrentSummary(ctx, user, state)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.NotNil(t, saved.CreatedAt)
	assert.Len(t, saved.Details, 3)
	assert.Equal(t, 40.0, saved.ImportTaxSupplier)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SummariesSaved))

	list, err := f.summaries.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	report, err := f.summaries.ProfitReport(ctx)
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)
	assert.InDelta(t, 40.0, report.Totals.AllocatedTaxes, 0.001)
	assert.InDelta(t, 350.0, report.Totals.Sales, 0.001)

	id, err := uuid.Parse(saved.ID)
	require.NoError(t, err)
	got, err := f.summaries.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	require.NoError(t, f.summaries.DeleteSummary(ctx, id))
	_, err = f.summaries.GetSummary(ctx, id)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, http.StatusNotFound, statusOf(t, f.summaries.DeleteSummary(ctx, id)))
}

type failingArchive struct{}

func (failingArchive) Driver() string { return "broken" }

func (failingArchive) Put(context.Context, string, string, []byte) (storage.Object, error) {
	return storage.Object{}, errors.New("disk full")
}

func TestProfitWorkbook(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	_, err := f.dashboard.SaveCurrentSummary(ctx, uuid.New(), orderview.NewViewState())
	require.NoError(t, err)

	archive, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(f.summaries, archive, f.metrics, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC) }

	export, err := svc.ProfitWorkbook(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ganancias-20240305-140700.xlsx", export.Filename)
	require.NotNil(t, export.Archived)
	assert.Equal(t, "fs", export.Archived.Driver)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Exports))

	wb, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Ganancias")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Resumen", rows[0][0])
	assert.Equal(t, "P-1", rows[1][2])
	assert.Equal(t, "TOTAL", rows[4][0])
	assert.Equal(t, "350", rows[4][3])
}

func TestProfitWorkbookSurvivesArchiveFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewExportService(f.summaries, failingArchive{}, nil, zap.NewNop())

	export, err := svc.ProfitWorkbook(context.Background())
	require.NoError(t, err)
	assert.Nil(t, export.Archived)
	assert.NotEmpty(t, export.Data)
}
