package logger

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

// HTTPAccess logs one entry per request. Server errors log at error level,
// client errors at warn and everything else at info. Errors rendered through
// the response envelope contribute their kind and cause.
func HTTPAccess(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			switch {
			case v.Status >= 500:
				level = zapcore.ErrorLevel
			case v.Status >= 400:
				level = zapcore.WarnLevel
			}
			if ce := logger.Check(level, "http request"); ce != nil {
				fields := []zap.Field{
					zap.String("method", v.Method),
					zap.String("path", v.URIPath),
					zap.String("route", v.RoutePath),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
					zap.String("remote_ip", v.RemoteIP),
				}
				if v.RequestID != "" {
					fields = append(fields, zap.String("request_id", v.RequestID))
				}
				if v.Error != nil {
					fields = append(fields, zap.Error(v.Error))
				}
				if appErr, ok := c.Get(errorbank.ContextKey).(*errorbank.AppError); ok {
					fields = append(fields, zap.String("error_kind", string(appErr.Kind())))
					if cause := appErr.Cause(); cause != nil {
						fields = append(fields, zap.NamedError("cause", cause))
					}
				}
				ce.Write(fields...)
			}
			return nil
		},
	})
}
