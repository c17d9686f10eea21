package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-checker/internal/checker"
	"github.com/i474232898/weather-checker/internal/store"
	"github.com/i474232898/weather-checker/internal/weather"
)

// RequestTimeout bounds handlers that reach out to upstream services.
const RequestTimeout = 30 * time.Second

var validate = validator.New()

// Trigger runs the checker on demand and returns the recorded run.
type Trigger interface {
	Trigger(ctx context.Context, reason string) (weather.Run, error)
}

// Forecaster fetches a forecast for an explicit location.
type Forecaster interface {
	Forecast(ctx context.Context, loc weather.Location) (*weather.Report, error)
}

// Deps are the collaborators the routes need.
type Deps struct {
	Store      weather.Store
	Trigger    Trigger
	Forecaster Forecaster
}

// NewApp returns a Fiber app with the central JSON error handler.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          RequestTimeout + 5*time.Second,
		ErrorHandler:          ErrorHandler,
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, name string, deps Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": name,
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/report/latest", func(c *fiber.Ctx) error {
		run, err := deps.Store.GetLatest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather report recorded yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather report")
		}
		return c.JSON(runResponse(run))
	})

	v1.Get("/report/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		runs, err := deps.Store.GetRange(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather reports for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}

		items := make([]fiber.Map, 0, len(runs))
		for _, run := range runs {
			items = append(items, runResponse(run))
		}
		return c.JSON(fiber.Map{
			"from": req.From,
			"to":   req.To,
			"runs": items,
		})
	})

	v1.Post("/checker/run", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), RequestTimeout)
		defer cancel()

		run, err := deps.Trigger.Trigger(ctx, "api")
		if err != nil {
			if errors.Is(err, checker.ErrClosed) {
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(runResponse(run))
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), RequestTimeout)
		defer cancel()

		report, err := deps.Forecaster.Forecast(ctx, weather.Location{Latitude: *q.Latitude, Longitude: *q.Longitude})
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{
			"recordCount": report.RecordCount(),
			"report":      report,
		})
	})
}

func runResponse(run weather.Run) fiber.Map {
	return fiber.Map{
		"id":             run.ID,
		"locationSource": run.Source,
		"provider":       run.Provider,
		"finished":       run.Finished,
		"recordCount":    run.Report.RecordCount(),
		"report":         run.Report,
	}
}

// coordinateQuery holds query parameters for identifying a location.
type coordinateQuery struct {
	Latitude  *float64 `validate:"required,gte=-90,lte=90"`
	Longitude *float64 `validate:"required,gte=-180,lte=180"`
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	var q coordinateQuery

	for key, dst := range map[string]**float64{"lat": &q.Latitude, "lon": &q.Longitude} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, errors.New("invalid " + key + "; use a decimal number")
		}
		*dst = &v
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
