package http

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// APIPrefix is where the versioned operations are mounted.
const APIPrefix = "/api/v1"

// NewRouter builds the echo instance: request logging into logrus, panic
// recovery, the health probe, the swagger UI and the validated API group.
func NewRouter(server *Server, doc *openapi3.T, logger logrus.FieldLogger) (*echo.Echo, error) {
	validate, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}
	RegisterSwagger(doc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Info("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(SwaggerInstance)))

	api := e.Group(APIPrefix, validate, ActorFromHeaders)
	server.RegisterHandlers(api)

	return e, nil
}
