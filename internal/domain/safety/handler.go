package safety

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	checkGroup := api.Group("", auth.RequireRole("admin", "physician"))
	checkGroup.POST("/patients/:patientId/interactions/check", h.CheckDrug)

	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/patients/:patientId/interactions/summary", h.InteractionSummary)
}

type checkRequest struct {
	DrugName string `json:"drug_name"`
}

func (h *Handler) CheckDrug(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.CheckDrug(c.Request().Context(), c.Param("patientId"), req.DrugName)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) InteractionSummary(c echo.Context) error {
	res, err := h.svc.InteractionSummary(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
