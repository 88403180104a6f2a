package patient

import (
	"errors"
	"net/http"

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
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/patients", h.List)
	readGroup.GET("/patients/:patientId", h.Get)
	readGroup.GET("/patients/:patientId/visits", h.ListVisits)

	writeGroup := api.Group("", auth.RequireRole("admin", "physician"))
	writeGroup.POST("/patients", h.Register)
	writeGroup.POST("/patients/:patientId/visits", h.RecordVisit)
}

func (h *Handler) Register(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecordVisit(c echo.Context) error {
	var v Visit
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.PatientID = c.Param("patientId")
	if err := h.svc.RecordVisit(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListVisits(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListVisits(c.Request().Context(), c.Param("patientId"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
