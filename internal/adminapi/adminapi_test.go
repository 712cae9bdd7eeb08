package adminapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/app"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/sale"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/internal/testutil"
	"github.com/talkincode/stockledger/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	Data      jsoniter.RawMessage `json:"data"`
	Meta      *Meta               `json:"meta"`
	Error     string              `json:"error"`
	Message   string              `json:"message"`
	Retryable bool                `json:"retryable"`
	Details   jsoniter.RawMessage `json:"details"`
}

type testServer struct {
	t   *testing.T
	e   *echo.Echo
	app *app.Application
}

func newTestServer(t *testing.T) *testServer {
	cfg := *config.DefaultAppConfig
	cfg.Notify = config.NotifyConfig{}
	cfg.Web.Secret = "test-secret"
	a, err := app.NewWithDB(&cfg, testutil.OpenSQLite(t))
	require.NoError(t, err)
	t.Cleanup(a.Release)
	Init()
	return &testServer{t: t, e: webserver.NewAdminServer(&cfg, a).Echo(), app: a}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) decode(rec *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(s.t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) product(name string) domain.Product {
	rows, err := s.app.Catalog().ListProducts(context.Background(), store.ProductFilter{Search: name})
	require.NoError(s.t, err)
	require.Len(s.t, rows, 1)
	return rows[0]
}

func idStr(v int64) string { return strconv.FormatInt(v, 10) }

func TestCreateSale(t *testing.T) {
	s := newTestServer(t)
	mouse := s.product("Wireless Mouse")

	rec := s.do(http.MethodPost, "/sales", map[string]interface{}{
		"product_id":     idStr(mouse.ID),
		"quantity":       2,
		"customer_name":  "Kamal",
		"payment_method": "card",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var record domain.Sale
	s.decode(rec, &record)
	assert.Equal(t, "4998.00", record.SubtotalAmount.StringFixed(2))
	assert.Equal(t, "149.94", record.SurchargeAmount.StringFixed(2))
	assert.Equal(t, "5147.94", record.FinalAmount.StringFixed(2))
	assert.Equal(t, domain.PaymentCompleted, record.PaymentStatus)

	assert.Equal(t, mouse.Quantity-2, s.product("Wireless Mouse").Quantity)

	rec = s.do(http.MethodGet, "/sales/"+idStr(record.ID)+"/receipt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Receipt #"+idStr(record.ID))
	assert.Contains(t, rec.Body.String(), "Card surcharge")
}

func TestCreateSaleRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	notebook := s.product("A4 Notebook")

	cases := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"zero quantity", map[string]interface{}{"product_id": idStr(notebook.ID), "quantity": 0}, ""},
		{"above stock", map[string]interface{}{"product_id": idStr(notebook.ID), "quantity": 9}, "quantity"},
		{"unknown method", map[string]interface{}{"product_id": idStr(notebook.ID), "quantity": 1, "payment_method": "cheque"}, "payment_method"},
		{"bad email", map[string]interface{}{"product_id": idStr(notebook.ID), "quantity": 1, "customer_email": "nope"}, "customer.email"},
		{"missing product", map[string]interface{}{"product_id": "99999", "quantity": 1}, "product_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/sales", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			env := s.decode(rec, nil)
			assert.Equal(t, sale.CodeValidation, env.Error)
			if tc.field != "" {
				assert.Contains(t, string(env.Details), tc.field)
			}
		})
	}

	n, err := s.app.Ledger().CountSales(context.Background(), store.SaleFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, notebook.Quantity, s.product("A4 Notebook").Quantity)
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	tea := s.product("Ceylon Tea")

	rec := s.do(http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view draftView
	s.decode(rec, &view)
	require.NotEmpty(t, view.ID)
	assert.Equal(t, sale.StepSelectingProduct, view.Step)
	base := "/checkout/" + view.ID

	rec = s.do(http.MethodPut, base+"/product", map[string]interface{}{"product_id": idStr(tea.ID), "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &view)
	assert.Equal(t, sale.StepEnteringCustomerInfo, view.Step)

	rec = s.do(http.MethodPut, base+"/customer", map[string]interface{}{"name": "Nimali", "email": "nimali@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &view)
	assert.Equal(t, sale.StepReviewingPayment, view.Step)
	require.NotNil(t, view.Quote)
	assert.Equal(t, "3450.00", view.Quote.Final.StringFixed(2))

	rec = s.do(http.MethodPut, base+"/payment", map[string]interface{}{"payment_method": "card", "discount": "50"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &view)
	assert.Equal(t, "3503.50", view.Quote.Final.StringFixed(2))

	// same product during review only changes the quantity
	rec = s.do(http.MethodPut, base+"/product", map[string]interface{}{"product_id": idStr(tea.ID), "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &view)
	assert.Equal(t, sale.StepReviewingPayment, view.Step)
	assert.Equal(t, 2, view.Quantity)

	rec = s.do(http.MethodPost, base+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &view)
	assert.Equal(t, sale.StepCompleted, view.Step)
	require.NotNil(t, view.Sale)
	assert.Equal(t, "Nimali", view.Sale.CustomerName)
	assert.Equal(t, tea.Quantity-2, s.product("Ceylon Tea").Quantity)

	rec = s.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, sale.CodeInvalidTransition, s.decode(rec, nil).Error)
}

func TestCheckoutStockChangedBeforeConfirm(t *testing.T) {
	s := newTestServer(t)
	notebook := s.product("A4 Notebook")

	var view draftView
	s.decode(s.do(http.MethodPost, "/checkout", nil), &view)
	base := "/checkout/" + view.ID
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, base+"/product", map[string]interface{}{"product_id": idStr(notebook.ID), "quantity": 8}).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, base+"/customer", map[string]interface{}{}).Code)

	require.NoError(t, s.app.Catalog().UpdateProductQuantity(context.Background(), notebook.ID, 3))

	rec := s.do(http.MethodPost, base+"/confirm", nil)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	env := s.decode(rec, nil)
	assert.Equal(t, sale.CodeInsufficientStock, env.Error)
	assert.True(t, env.Retryable)
	assert.JSONEq(t, `{"requested":8,"available":3}`, string(env.Details))

	rec = s.do(http.MethodGet, base, nil)
	s.decode(rec, &view)
	assert.Equal(t, sale.StepReviewingPayment, view.Step)
	assert.Equal(t, 3, view.Product.Quantity)

	n, err := s.app.Ledger().CountSales(context.Background(), store.SaleFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckoutBackAndCancel(t *testing.T) {
	s := newTestServer(t)
	mouse := s.product("Wireless Mouse")

	var view draftView
	s.decode(s.do(http.MethodPost, "/checkout", nil), &view)
	base := "/checkout/" + view.ID

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, base+"/back", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, base+"/confirm", nil).Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, base+"/product", map[string]interface{}{"product_id": idStr(mouse.ID), "quantity": 1}).Code)
	rec := s.do(http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s.decode(rec, &view)
	assert.Equal(t, sale.StepSelectingProduct, view.Step)
	require.NotNil(t, view.Product)
	assert.Equal(t, mouse.ID, view.Product.ID)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base, nil).Code)
	assert.Equal(t, mouse.Quantity, s.product("Wireless Mouse").Quantity)
}

func TestCategoryInUse(t *testing.T) {
	s := newTestServer(t)
	mouse := s.product("Wireless Mouse")

	rec := s.do(http.MethodDelete, "/catalog/categories/"+idStr(mouse.CategoryID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	env := s.decode(rec, nil)
	assert.Equal(t, "CATEGORY_IN_USE", env.Error)

	rec = s.do(http.MethodPost, "/catalog/categories", map[string]interface{}{"name": "Electronics"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/catalog/products?sort=-price&pageSize=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []domain.Product
	env := s.decode(rec, &rows)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 3, env.Meta.Total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Wireless Mouse", rows[0].Name)
	assert.Equal(t, "Ceylon Tea 400g", rows[1].Name)

	rec = s.do(http.MethodGet, "/catalog/products?stock=low_stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s.decode(rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "A4 Notebook", rows[0].Name)
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestServer(t)
	mouse := s.product("Wireless Mouse")

	rec := s.do(http.MethodPost, "/catalog/products", map[string]interface{}{
		"name":        "USB Cable",
		"category_id": idStr(mouse.CategoryID),
		"price":       "-1",
		"quantity":    5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/catalog/products", map[string]interface{}{
		"name":        "USB Cable",
		"category_id": idStr(mouse.CategoryID),
		"price":       "450",
		"quantity":    5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p domain.Product
	s.decode(rec, &p)
	assert.Equal(t, domain.DefaultMinStockLevel, p.MinStockLevel)
	assert.True(t, p.IsActive)
}

func TestSalesExportAndSummary(t *testing.T) {
	s := newTestServer(t)
	mouse := s.product("Wireless Mouse")
	for _, method := range []string{"cash", "card"} {
		rec := s.do(http.MethodPost, "/sales", map[string]interface{}{
			"product_id": idStr(mouse.ID), "quantity": 1, "payment_method": method,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := s.do(http.MethodGet, "/sales?range=today&payment_method=card", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []domain.Sale
	env := s.decode(rec, &rows)
	assert.EqualValues(t, 1, env.Meta.Total)

	rec = s.do(http.MethodGet, "/sales/export?format=csv&range=today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "sales-report-")
	assert.Equal(t, 3, strings.Count(strings.TrimSpace(rec.Body.String()), "\n")+1)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/sales/export?format=pdf", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/sales?range=decade", nil).Code)

	rec = s.do(http.MethodGet, "/sales/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum struct {
		Count     int `json:"count"`
		Completed int `json:"completed"`
	}
	s.decode(rec, &sum)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, 2, sum.Completed)
}

func TestSettings(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/system/settings", map[string]string{"sale.card_surcharge_rate": "0.05"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []settingItem
	s.decode(rec, &items)
	assert.Len(t, items, 4)
	assert.Equal(t, "0.05", s.app.Guard().Calculator().SurchargeRate.String())

	rec = s.do(http.MethodPut, "/system/settings", map[string]string{"sale.card_surcharge_rate": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPut, "/system/settings", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcileEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/reconcile/run", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/reconcile/entries?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/reconcile/entries/12345/resolve", map[string]string{"note": "counted shelf"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalProducts int64 `json:"total_products"`
		LowStock      int64 `json:"low_stock"`
	}
	s.decode(rec, &stats)
	assert.EqualValues(t, 3, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.LowStock)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/metrics/nope", nil).Code)
}

func TestPartialCommitResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	record := &domain.Sale{ID: 42, ProductName: "Wireless Mouse"}
	require.NoError(t, partial(c, record))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), sale.CodePartialCommit)
	assert.Contains(t, rec.Body.String(), `"id":"42"`)
}

func TestSystemInfoAndBackup(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/checkout", nil)

	rec := s.do(http.MethodGet, "/system/info", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var info SystemInfo
	s.decode(rec, &info)
	assert.Equal(t, "sqlite", info.DatabaseType)
	assert.EqualValues(t, 3, info.Tables["product"])
	assert.EqualValues(t, 3, info.Tables["category"])
	assert.Equal(t, 1, info.OpenDrafts)

	rec = s.do(http.MethodGet, "/system/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `INSERT INTO "product"`)
	assert.Contains(t, body, "'Wireless Mouse'")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "stockledger_backup_")
}

func TestSQLLiteral(t *testing.T) {
	assert.Equal(t, "NULL", sqlLiteral(nil))
	assert.Equal(t, "'O''Brien'", sqlLiteral("O'Brien"))
	assert.Equal(t, "42", sqlLiteral(int64(42)))
	assert.Equal(t, "TRUE", sqlLiteral(true))
	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES (1, 'x');`+"\n",
		insertStatement("t", map[string]interface{}{"b": "x", "a": 1}))
}
