package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/converse/internal/errors"
	"github.com/hrygo/converse/internal/profile"
	"github.com/hrygo/converse/server/internal/observability"
	"github.com/hrygo/converse/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Metrics *observability.Metrics
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   store,
		Metrics: observability.NewMetrics(1000),
	}
}

// RegisterRoutes registers all REST routes with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.Validator = &requestValidator{validate: validator.New()}

	group := echoServer.Group("/api/v1")
	group.Use(middleware.CORS())
	group.Use(s.metricsMiddleware)

	group.POST("/conversations", s.createConversation)
	group.GET("/conversations", s.listConversations)
	group.GET("/conversations/:id", s.getConversation)
	group.PATCH("/conversations/:id", s.updateConversation)
	group.DELETE("/conversations/:id", s.deleteConversation)

	group.POST("/messages", s.createMessage)
	group.GET("/messages", s.listMessages)
	group.GET("/messages/:id", s.getMessage)
	group.PATCH("/messages/:id", s.updateMessage)
	group.DELETE("/messages/:id", s.deleteMessage)

	group.GET("/system/metrics", s.getSystemMetrics)
}

// metricsMiddleware records request counts, failures and durations per route.
func (s *APIV1Service) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		operation := c.Request().Method + " " + c.Path()
		start := time.Now()
		s.Metrics.RecordRequest(operation)

		err := next(c)
		s.Metrics.RecordDuration(operation, time.Since(start))
		if err != nil {
			s.Metrics.RecordFailure(operation)
		}
		return err
	}
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// toHTTPError maps a store error to the protocol-level status.
func toHTTPError(err error) *echo.HTTPError {
	code := errors.GetCodeFromError(err, errors.ErrCodePersistence)
	switch code {
	case errors.ErrCodeNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.ErrCodeInvalidArgument, errors.ErrCodeValidation:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		slog.Error("internal error", slog.String("error", err.Error()), slog.String(observability.LogFieldErrorCode, string(code)))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
