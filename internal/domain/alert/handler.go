package alert

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	g.GET("/alerts", h.ListGlobal)
	g.GET("/alerts/stats", h.GetStats)
	g.GET("/alerts/:id", h.GetAlert)
	g.GET("/patients/:patientId/alerts", h.ListByPatient)
	g.POST("/alerts/:id/acknowledge", h.Acknowledge)
	g.POST("/alerts/:id/dismiss", h.Dismiss)
}

func listFilter(c echo.Context) ListFilter {
	var f ListFilter
	if v := c.QueryParam("status"); v != "" {
		f.Status = &v
	}
	if v := c.QueryParam("severity"); v != "" {
		f.Severity = &v
	}
	if v := c.QueryParam("practitioner_id"); v != "" {
		f.PractitionerID = &v
	}
	return f
}

func (h *Handler) ListGlobal(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListGlobal(c.Request().Context(), listFilter(c), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), c.Param("patientId"), listFilter(c), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAlert(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Acknowledge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	a, err := h.svc.Acknowledge(c.Request().Context(), id, actor)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "alert not found")
		}
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

type dismissRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Dismiss(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req dismissRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	a, err := h.svc.Dismiss(c.Request().Context(), id, req.Reason, actor)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "alert not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) GetStats(c echo.Context) error {
	s, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}
