package risk

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/pkg/pagination"
)

type Handler struct {
	news2     *News2Service
	dashboard *DashboardService
}

func NewHandler(news2 *News2Service, dashboard *DashboardService) *Handler {
	return &Handler{news2: news2, dashboard: dashboard}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/patients/:patientId/news2", h.Score)
	readGroup.GET("/dashboard/risk", h.RankedPatients)
	readGroup.GET("/dashboard/stats", h.Stats)
}

func (h *Handler) Score(c echo.Context) error {
	res, err := h.news2.Score(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RankedPatients(c echo.Context) error {
	var practitionerID *string
	if v := c.QueryParam("practitioner_id"); v != "" {
		practitionerID = &v
	}
	page := pagination.FromContext(c)

	rows, total, err := h.dashboard.RankedPatients(c.Request().Context(), practitionerID, page)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, page.Limit, page.Offset))
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.dashboard.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
