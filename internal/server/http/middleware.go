package http

import (
	"crypto/subtle"
	"strconv"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

// AdminTokenHeader carries the superadmin token.
const AdminTokenHeader = "X-Admin-Token"

// providerIDKey is the echo context key set by ProviderScope.
const providerIDKey = "provider_id"

// AdminGuard rejects requests whose X-Admin-Token does not match token. An
// empty token locks the console entirely.
func AdminGuard(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(AdminTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return response.New(c).WithError(errorbank.Unauthorized("admin token required")).Build()
			}
			return next(c)
		}
	}
}

// ProviderScope parses the :providerID path parameter of dashboard routes.
func ProviderScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseInt(c.Param("providerID"), 10, 64)
			if err != nil || id <= 0 {
				return response.New(c).WithError(errorbank.BadRequest("invalid provider id")).Build()
			}
			c.Set(providerIDKey, id)
			return next(c)
		}
	}
}

// ProviderID returns the provider resolved by ProviderScope.
func ProviderID(c echo.Context) int64 {
	id, _ := c.Get(providerIDKey).(int64)
	return id
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("http request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("http request", fields...)
			return nil
		},
	})
}

// bodyLimit allows two uploads plus form fields per request.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		return "10M"
	}
	return strconv.FormatInt(2*maxUpload+1<<20, 10)
}
