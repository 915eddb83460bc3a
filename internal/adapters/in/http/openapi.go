package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"laundry/internal/adapters/in/http/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// SwaggerInstance is the swag registry name the swagger UI reads from.
const SwaggerInstance = "laundry"

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(api.Document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// swaggerDoc serves the loaded document to echo-swagger through swag.
type swaggerDoc struct {
	once sync.Once
	doc  *openapi3.T
	json string
}

func (s *swaggerDoc) ReadDoc() string {
	s.once.Do(func() {
		b, err := s.doc.MarshalJSON()
		if err != nil {
			s.json = "{}"
			return
		}
		s.json = string(b)
	})
	return s.json
}

var registerSwagger sync.Once

// RegisterSwagger publishes doc under SwaggerInstance. Only the first call
// registers; swag panics on duplicate names.
func RegisterSwagger(doc *openapi3.T) {
	registerSwagger.Do(func() {
		swag.Register(SwaggerInstance, &swaggerDoc{doc: doc})
	})
}

// OpenAPIValidator rejects requests that do not match the OpenAPI document.
// Paths the document does not describe are passed through.
func OpenAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, findErr := router.FindRoute(req)
			if findErr != nil {
				var routeErr *routers.RouteError
				if errors.As(findErr, &routeErr) {
					return next(c)
				}
				return findErr
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if validateErr := openapi3filter.ValidateRequest(req.Context(), input); validateErr != nil {
				return echo.NewHTTPError(http.StatusBadRequest, requestErrorMessage(validateErr)).SetInternal(validateErr)
			}
			return next(c)
		}
	}, nil
}

func requestErrorMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		reason := reqErr.Reason
		if reqErr.Err != nil {
			reason = reqErr.Err.Error()
		}
		if reqErr.Parameter != nil {
			return fmt.Sprintf("parameter %q: %s", reqErr.Parameter.Name, reason)
		}
		return "request body: " + reason
	}
	return err.Error()
}
