package adminapi

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/report"
	"github.com/talkincode/stockledger/internal/sale"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/internal/webserver"
)

type salePayload struct {
	ProductID     int64                `json:"product_id,string" validate:"required"`
	Quantity      int                  `json:"quantity" validate:"required,gte=1"`
	CustomerName  string               `json:"customer_name" validate:"max=200"`
	CustomerEmail string               `json:"customer_email" validate:"max=200"`
	CustomerPhone string               `json:"customer_phone" validate:"max=64"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" swaggertype:"string"`
	PaymentStatus domain.PaymentStatus `json:"payment_status" swaggertype:"string"`
	Discount      decimal.Decimal      `json:"discount" swaggertype:"string"`
	Notes         string               `json:"notes" validate:"max=1000"`
}

func registerSaleRoutes() {
	webserver.ApiGET("/sales", listSales)
	webserver.ApiGET("/sales/export", exportSales)
	webserver.ApiGET("/sales/summary", summarizeSales)
	webserver.ApiGET("/sales/:id", getSale)
	webserver.ApiGET("/sales/:id/receipt", getReceipt)
	webserver.ApiPOST("/sales", createSale)
}

// saleFilter reads range, from, to, payment_method and payment_status.
// An explicit from or to wins over range; a date-only "to" covers that day.
func saleFilter(c echo.Context, loc *time.Location) (store.SaleFilter, error) {
	var f store.SaleFilter
	from, err := report.ResolveRange(c.QueryParam("range"), time.Now().In(loc))
	if err != nil {
		return f, err
	}
	f.From = from
	if v := c.QueryParam("from"); strings.TrimSpace(v) != "" {
		if f.From, err = report.ParseBound(v, loc); err != nil {
			return f, err
		}
	}
	if v := c.QueryParam("to"); strings.TrimSpace(v) != "" {
		to, err := report.ParseBound(v, loc)
		if err != nil {
			return f, err
		}
		if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 && to.Nanosecond() == 0 {
			next := to.AddDate(0, 0, 1)
			to = &next
		}
		f.To = to
	}
	if m := domain.PaymentMethod(strings.TrimSpace(c.QueryParam("payment_method"))); m != "" {
		if !m.Valid() {
			return f, errors.New("unknown payment method " + string(m))
		}
		f.PaymentMethod = m
	}
	if s := domain.PaymentStatus(strings.TrimSpace(c.QueryParam("payment_status"))); s != "" {
		if !s.Valid() {
			return f, errors.New("unknown payment status " + string(s))
		}
		f.PaymentStatus = s
	}
	return f, nil
}

// listSales lists recorded sales, most recent first
// @Summary list sales
// @Tags Sales
// @Param page query int false "Page number"
// @Param perPage query int false "Items per page"
// @Param range query string false "today, week, month, quarter or all"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param payment_method query string false "Payment method"
// @Param payment_status query string false "Payment status"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/sales [get]
func listSales(c echo.Context) error {
	appCtx := GetAppContext(c)
	filter, err := saleFilter(c, appCtx.Location())
	if err != nil {
		return fail(c, http.StatusBadRequest, sale.CodeValidation, err.Error(), nil)
	}
	page, pageSize := parsePagination(c)
	ctx := c.Request().Context()
	total, err := appCtx.Ledger().CountSales(ctx, filter)
	if err != nil {
		return failErr(c, err, "Failed to query sales")
	}
	filter.Offset, filter.Limit = (page-1)*pageSize, pageSize
	rows, err := appCtx.Ledger().ListSales(ctx, filter)
	if err != nil {
		return failErr(c, err, "Failed to query sales")
	}
	return paged(c, rows, total, page, pageSize)
}

// getSale returns one sale
// @Summary get sale detail
// @Tags Sales
// @Param id path int true "Sale ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sales/{id} [get]
func getSale(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	s, err := GetAppContext(c).Ledger().GetSale(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Sale not found")
	}
	return ok(c, s)
}

// getReceipt renders the plain text receipt of a sale
// @Summary get sale receipt
// @Tags Sales
// @Param id path int true "Sale ID"
// @Success 200 {string} string "Receipt text"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sales/{id}/receipt [get]
func getReceipt(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	appCtx := GetAppContext(c)
	s, err := appCtx.Ledger().GetSale(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Sale not found")
	}
	var buf bytes.Buffer
	r := report.Receipt{
		ShopName: appCtx.Config().System.Appid,
		Currency: appCtx.Config().System.Currency,
		Location: appCtx.Location(),
	}
	if err := r.Write(&buf, s); err != nil {
		return failErr(c, err, "Failed to render receipt")
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
}

// exportSales downloads the filtered sales as CSV or XLSX
// @Summary export sales
// @Tags Sales
// @Param format query string false "csv or xlsx"
// @Param range query string false "today, week, month, quarter or all"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/sales/export [get]
func exportSales(c echo.Context) error {
	appCtx := GetAppContext(c)
	format := report.NormalizeFormat(c.QueryParam("format"))
	if format != report.FormatCSV && format != report.FormatXLSX {
		return fail(c, http.StatusBadRequest, sale.CodeValidation, "Unsupported export format", format)
	}
	filter, err := saleFilter(c, appCtx.Location())
	if err != nil {
		return fail(c, http.StatusBadRequest, sale.CodeValidation, err.Error(), nil)
	}
	rows, err := appCtx.Ledger().ListSales(c.Request().Context(), filter)
	if err != nil {
		return failErr(c, err, "Failed to query sales")
	}
	var buf bytes.Buffer
	if err := report.Export(&buf, format, rows, appCtx.Location()); err != nil {
		return failErr(c, err, "Failed to export sales")
	}
	filename := report.ExportFilename(format, time.Now().In(appCtx.Location()))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, report.ContentType(format), buf.Bytes())
}

// summarizeSales aggregates the filtered sales
// @Summary summarize sales
// @Tags Sales
// @Param range query string false "today, week, month, quarter or all"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/sales/summary [get]
func summarizeSales(c echo.Context) error {
	appCtx := GetAppContext(c)
	filter, err := saleFilter(c, appCtx.Location())
	if err != nil {
		return fail(c, http.StatusBadRequest, sale.CodeValidation, err.Error(), nil)
	}
	rows, err := appCtx.Ledger().ListSales(c.Request().Context(), filter)
	if err != nil {
		return failErr(c, err, "Failed to query sales")
	}
	return ok(c, report.Summarize(rows))
}

// createSale runs the whole composer flow in one request.
//
// @Summary record a sale
// @Tags Sales
// @Param sale body salePayload true "Sale information"
// @Success 200 {object} Response
// @Success 202 {object} PartialResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/sales [post]
func createSale(c echo.Context) error {
	var payload salePayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	appCtx := GetAppContext(c)
	ctx := c.Request().Context()

	product, err := appCtx.Catalog().GetProduct(ctx, payload.ProductID)
	if err != nil {
		if store.Kind(err) == store.ErrNotFound {
			return fail(c, http.StatusBadRequest, sale.CodeValidation, "Product does not exist", map[string]string{"field": "product_id"})
		}
		return failErr(c, err, "Failed to read product")
	}

	composer := sale.NewComposer(appCtx.Guard())
	steps := []func() error{
		func() error { return composer.SelectProduct(*product, payload.Quantity) },
		func() error {
			return composer.SetCustomer(sale.Customer{
				Name:  payload.CustomerName,
				Email: payload.CustomerEmail,
				Phone: payload.CustomerPhone,
			})
		},
		func() error {
			return composer.UpdatePayment(sale.Payment{
				Method:   payload.PaymentMethod,
				Status:   payload.PaymentStatus,
				Discount: payload.Discount,
				Notes:    payload.Notes,
			})
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return failErr(c, err, "Sale rejected")
		}
	}

	record, err := composer.Confirm(ctx)
	if errors.Is(err, sale.ErrPartialCommit) {
		return partial(c, record)
	}
	if err != nil {
		return failErr(c, err, "Sale failed")
	}
	return ok(c, record)
}
