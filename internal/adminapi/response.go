package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockledger/internal/app"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/sale"
	"github.com/talkincode/stockledger/internal/webserver"
	"github.com/talkincode/stockledger/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Response is the success envelope.
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// Meta carries paging information.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// PartialResponse is returned with 202 when a sale was recorded but the stock
// decrement is still owed.
type PartialResponse struct {
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: &Meta{Total: total, Page: page, PageSize: pageSize},
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

func partial(c echo.Context, record *domain.Sale) error {
	return c.JSON(http.StatusAccepted, PartialResponse{
		Data:    record,
		Error:   sale.CodePartialCommit,
		Message: sale.ErrPartialCommit.Error(),
	})
}

var codeStatus = map[string]int{
	sale.CodeValidation:        http.StatusBadRequest,
	sale.CodeInsufficientStock: http.StatusConflict,
	sale.CodeStoreUnavailable:  http.StatusServiceUnavailable,
	sale.CodeConstraint:        http.StatusConflict,
	sale.CodePartialCommit:     http.StatusAccepted,
	sale.CodePermission:        http.StatusForbidden,
	sale.CodeNotFound:          http.StatusNotFound,
	sale.CodeInFlight:          http.StatusConflict,
	sale.CodeInvalidTransition: http.StatusConflict,
	sale.CodeInternal:          http.StatusInternalServerError,
}

// failErr maps a store or sale error onto the error taxonomy.
func failErr(c echo.Context, err error, message string) error {
	code := sale.Code(err)
	status := codeStatus[code]
	resp := ErrorResponse{Error: code, Message: message, Retryable: sale.Retryable(err)}

	var ve *sale.ValidationError
	var se *sale.StockError
	switch {
	case errors.As(err, &ve):
		resp.Message = ve.Error()
		resp.Details = map[string]string{"field": ve.Field}
	case errors.As(err, &se):
		resp.Message = se.Error()
		resp.Details = map[string]int{"requested": se.Requested, "available": se.Available}
	case status >= http.StatusInternalServerError:
		resp.Details = err.Error()
		zap.L().Error(message, zap.Error(err), zap.String("namespace", "api"))
	default:
		resp.Details = err.Error()
	}
	return c.JSON(status, resp)
}

// handleValidationError turns validator failures into a field list.
func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fail(c, http.StatusBadRequest, sale.CodeValidation, err.Error(), nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[strings.ToLower(fe.Field())] = rule
	}
	return fail(c, http.StatusBadRequest, sale.CodeValidation, "Request validation failed", fields)
}

type normalizer interface {
	normalize()
}

// bindAndValidate binds the body, trims it when the payload knows how, and
// runs struct validation. When valid is false the error response has already
// been written and err is what the handler should return.
func bindAndValidate(c echo.Context, payload interface{}) (valid bool, err error) {
	if err := c.Bind(payload); err != nil {
		return false, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request body", err.Error())
	}
	if n, ok := payload.(normalizer); ok {
		n.normalize()
	}
	if err := c.Validate(payload); err != nil {
		return false, handleValidationError(c, err)
	}
	return true, nil
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	size := c.QueryParam("pageSize")
	if size == "" {
		size = c.QueryParam("perPage")
	}
	pageSize := 20
	if ps, err := strconv.Atoi(size); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// GetAppContext returns the application bound to the request.
func GetAppContext(c echo.Context) app.AppContext {
	appCtx, _ := c.Get(webserver.AppContextKey).(app.AppContext)
	return appCtx
}

func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB().WithContext(c.Request().Context())
}

// writeOprLog records an operator action; failures are only logged.
func writeOprLog(c echo.Context, action, desc string) {
	entry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   "admin",
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := GetDB(c).Create(&entry).Error; err != nil {
		zap.L().Warn("write operator log failed", zap.String("action", action), zap.Error(err))
	}
}
