package clinical

import (
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
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/patients/:patientId/vitals", h.ListVitals)
	readGroup.GET("/patients/:patientId/vitals/latest", h.GetLatestVitals)
	readGroup.GET("/patients/:patientId/medications", h.ListMedications)
	readGroup.GET("/patients/:patientId/allergies", h.ListAllergies)
	readGroup.GET("/patients/:patientId/problems", h.ListProblems)

	writeGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	writeGroup.POST("/patients/:patientId/vitals", h.RecordVitals)
	writeGroup.POST("/patients/:patientId/allergies", h.RecordAllergy)
	writeGroup.DELETE("/allergies/:id", h.DeactivateAllergy)

	rxGroup := api.Group("", auth.RequireRole("admin", "physician"))
	rxGroup.POST("/patients/:patientId/medications", h.AddMedication)
	rxGroup.POST("/medications/:id/discontinue", h.DiscontinueMedication)
	rxGroup.POST("/patients/:patientId/problems", h.AddProblem)
	rxGroup.POST("/problems/:id/resolve", h.ResolveProblem)
}

// -- Vitals --

func (h *Handler) RecordVitals(c echo.Context) error {
	var v Vitals
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.PatientID = c.Param("patientId")
	v.RecordedBy = auth.ActorFromContext(c.Request().Context())
	if err := h.svc.RecordVitals(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetLatestVitals(c echo.Context) error {
	v, err := h.svc.LatestVitals(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if v == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no vitals on record")
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ListVitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListVitals(c.Request().Context(), c.Param("patientId"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Medications --

func (h *Handler) AddMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.PatientID = c.Param("patientId")
	if m.PrescribedBy == "" {
		m.PrescribedBy = auth.ActorFromContext(c.Request().Context())
	}
	if err := h.svc.AddMedication(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) DiscontinueMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.DiscontinueMedication(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMedications(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMedications(c.Request().Context(), c.Param("patientId"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Allergies --

func (h *Handler) RecordAllergy(c echo.Context) error {
	var a Allergy
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.PatientID = c.Param("patientId")
	a.CreatedBy = auth.ActorFromContext(c.Request().Context())
	if err := h.svc.RecordAllergy(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) DeactivateAllergy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivateAllergy(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "allergy not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListAllergies(c echo.Context) error {
	items, err := h.svc.ActiveAllergies(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// -- Problems --

func (h *Handler) AddProblem(c echo.Context) error {
	var p Problem
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.PatientID = c.Param("patientId")
	if err := h.svc.AddProblem(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ResolveProblem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.ResolveProblem(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "problem not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProblems(c echo.Context) error {
	items, err := h.svc.ActiveProblems(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
