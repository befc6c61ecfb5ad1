package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userlookup/internal/database"
	"userlookup/internal/http/middleware"
	"userlookup/internal/model"
	"userlookup/internal/render"
	"userlookup/internal/service"
	"userlookup/internal/usersapi"
)

const diagnosticLinkExpiry = 15 * time.Minute

// Dependencies are what the routes need. DB, Audit and Diagnostics may be
// nil when the matching backend is not configured.
type Dependencies struct {
	Lookup      *service.LookupService
	Audit       *service.AuditService
	Diagnostics *service.DiagnosticsArchive
	DB          database.Pinger
	Gatherer    prometheus.Gatherer
	Page        PageOptions
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) error {
	wasm, err := WasmPage(deps.Page)
	if err != nil {
		return err
	}

	app.Get("/", FormPage())
	app.Get("/wasm", wasm)

	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())
	if deps.Gatherer != nil {
		app.Get(middleware.MetricsPath, Metrics(deps.Gatherer))
	}

	api := app.Group("/api")
	api.Get("/lookup", Lookup(deps.Lookup))
	api.Get("/lookups", ListLookups(deps.Audit))
	api.Get("/diagnostics/:id", DiagnosticLink(deps.Diagnostics))
	return nil
}

// HealthCheck pings the audit database when one is configured.
func HealthCheck(db database.Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics serves the Prometheus exposition format.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

type lookupPayload struct {
	RequestID      string      `json:"request_id"`
	LookupID       string      `json:"lookup_id"`
	Kind           render.Kind `json:"kind"`
	Text           string      `json:"text"`
	HTML           string      `json:"html"`
	UpstreamStatus int         `json:"upstream_status"`
}

// Lookup runs one form submission with the userId query parameter as input.
//
// @Summary     Look up a user
// @Description Fetches the user from the users endpoint and returns the rendered fragment.
// @Tags        lookup
// @Produce     json
// @Param       userId query    string true "User ID"
// @Success     200    {object} lookupPayload
// @Failure     400    {object} errorPayload
// @Failure     502    {object} errorPayload
// @Router      /api/lookup [get]
func Lookup(svc *service.LookupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := utils.CopyString(c.Query("userId"))

		var (
			alert string
			frag  render.Fragment
		)
		form := svc.NewForm(
			service.InputFunc(func() string { return userID }),
			service.SinkFunc(func(f render.Fragment) { frag = f }),
			service.NotifierFunc(func(msg string) { alert = msg }),
		)

		l, err := form.Submit(c.UserContext())
		switch {
		case errors.Is(err, service.ErrIdentifierRequired):
			return writeError(c, fiber.StatusBadRequest, "USER_ID_REQUIRED", alert)
		case errors.Is(err, usersapi.ErrTransport):
			return writeError(c, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "users service unavailable")
		case errors.Is(err, usersapi.ErrDecode):
			return writeError(c, fiber.StatusBadGateway, "UPSTREAM_INVALID_RESPONSE", "users service returned an invalid response")
		case err != nil:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(lookupPayload{
			RequestID:      middleware.RequestIDFromCtx(c),
			LookupID:       l.ID,
			Kind:           frag.Kind,
			Text:           frag.Text,
			HTML:           frag.HTML(),
			UpstreamStatus: l.Status,
		})
	}
}

type lookupListPayload struct {
	Items []model.Lookup `json:"data"`
}

// ListLookups returns the most recent audit records.
//
// @Summary  Recent lookups
// @Tags     lookup
// @Produce  json
// @Param    limit query    int false "Maximum number of records (1-100)"
// @Success  200   {object} lookupListPayload
// @Failure  404   {object} errorPayload
// @Router   /api/lookups [get]
func ListLookups(audit *service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		items, err := audit.Recent(c.UserContext(), limit)
		if err != nil {
			if errors.Is(err, service.ErrAuditDisabled) {
				return writeError(c, fiber.StatusNotFound, "AUDIT_DISABLED", "lookup audit is not configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(lookupListPayload{Items: items})
	}
}

// DiagnosticLink returns a short-lived download URL for a lookup's diagnostic.
//
// @Summary  Diagnostic download link
// @Tags     lookup
// @Produce  json
// @Param    id  path     string true "Lookup ID"
// @Success  200 {object} map[string]string
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/diagnostics/{id} [get]
func DiagnosticLink(archive *service.DiagnosticsArchive) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		link, err := archive.Link(c.UserContext(), id, diagnosticLinkExpiry)
		if err != nil {
			if errors.Is(err, service.ErrDiagnosticsDisabled) {
				return writeError(c, fiber.StatusNotFound, "DIAGNOSTICS_DISABLED", "diagnostics archive is not configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": link, "expires_in": int(diagnosticLinkExpiry.Seconds())})
	}
}
