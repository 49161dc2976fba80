package sync

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"plcsync/core/logger"
	"plcsync/core/reconcile"
)

// Handler handles HTTP requests for the sync feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/snapshot", h.HandleSnapshot)
	group.Post("/diff", h.HandleDiff)
	group.Post("/plan", h.HandlePlan)
}

type diffRequest struct {
	Base   string `json:"base"`
	Target string `json:"target"`
}

type planRequest struct {
	Desired string `json:"desired"`
	Target  string `json:"target"`
}

// HandleSnapshot lists the units of one snapshot source.
func (h *Handler) HandleSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	ref := c.Query("source")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source query parameter is required"})
	}

	set, err := h.service.Snapshot(c.Context(), ref)
	if err != nil {
		l.Error("Snapshot extraction failed", zap.String("source", ref), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	units := make([]fiber.Map, 0, set.Len())
	for _, name := range set.Names() {
		unit, _ := set.Get(name)
		units = append(units, fiber.Map{
			"qualified_name": unit.QualifiedName,
			"kind":           unit.Kind,
		})
	}

	return c.JSON(fiber.Map{
		"source": ref,
		"count":  set.Len(),
		"units":  units,
	})
}

// HandleDiff compares two snapshot sources.
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req diffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Base == "" || req.Target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "base and target are required"})
	}

	l.Info("Computing diff", zap.String("base", req.Base), zap.String("target", req.Target))

	ds, err := h.service.Diff(c.Context(), req.Base, req.Target)
	if err != nil {
		l.Error("Diff failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	entries := make([]fiber.Map, 0, len(ds.Entries))
	for _, e := range ds.Entries {
		entry := fiber.Map{
			"qualified_name": e.QualifiedName,
			"kind":           e.Kind,
			"classification": e.Classification,
		}
		if e.Patch != "" {
			entry["patch"] = e.Patch
		}
		entries = append(entries, entry)
	}

	return c.JSON(fiber.Map{
		"summary": fiber.Map{
			"added":    ds.Summary.Added,
			"removed":  ds.Summary.Removed,
			"modified": ds.Summary.Modified,
		},
		"entries": entries,
	})
}

// HandlePlan previews the reconciliation plan for a desired source against
// a target. It never executes; this is the dry-run surface.
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Desired == "" || req.Target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "desired and target are required"})
	}

	l.Info("Building plan preview", zap.String("desired", req.Desired), zap.String("target", req.Target))

	plan, err := h.service.Plan(c.Context(), req.Desired, req.Target)
	if err != nil {
		l.Error("Plan preview failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"plan":     plan,
		"rendered": reconcile.RenderPlan(plan),
	})
}
