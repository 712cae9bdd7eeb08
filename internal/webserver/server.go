// Package webserver hosts the admin HTTP API.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/talkincode/stockledger/config"
	_ "github.com/talkincode/stockledger/docs"
	"github.com/talkincode/stockledger/pkg/common"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AppContextKey is where the application context is stored on each request.
const AppContextKey = "appCtx"

// SessionName is the cookie session used by the admin UI.
const SessionName = "stockledger_session"

type AdminServer struct {
	root *echo.Echo
	api  *echo.Group
	addr string
}

// NewAdminServer builds the echo instance and mounts every registered route.
func NewAdminServer(cfg *config.AppConfig, appCtx interface{}) *AdminServer {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("namespace", "web"),
			)
			return nil
		},
	}))

	secret := common.IfEmptyStr(cfg.Web.Secret, random.String(32))
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	s := &AdminServer{
		root: e,
		api:  e.Group("/api/v1"),
		addr: fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
	}
	for _, r := range registeredRoutes() {
		s.api.Add(r.method, r.path, r.handler)
	}
	return s
}

// Echo exposes the router, mainly for tests.
func (s *AdminServer) Echo() *echo.Echo {
	return s.root
}

// Start serves until Shutdown is called.
func (s *AdminServer) Start() error {
	zap.S().Infof("admin api listening on %s", s.addr)
	err := s.root.Start(s.addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *AdminServer) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.root.Shutdown(ctx)
}

// JSONSerializer uses json-iterator for request and response bodies.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body: "+err.Error()).SetInternal(err)
	}
	return nil
}

// Validator adapts go-playground/validator to echo.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("unhandled api error", zap.Error(err), zap.String("namespace", "web"))
	}
	code := "HTTP_ERROR"
	switch status {
	case http.StatusNotFound:
		code = "NOT_FOUND"
	case http.StatusBadRequest:
		code = "INVALID_REQUEST"
	case http.StatusInternalServerError:
		code = "INTERNAL_ERROR"
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorBody{Error: code, Message: msg})
}
