package availability

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/doctors/:id/availability", h.query)
}

func (h *Handler) query(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.Validation("VALIDATION_ERROR", "invalid doctor id").
			WithDetail("id", c.Param("id"))
	}

	week, err := h.service.Query(c.Request().Context(), doctorID,
		c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, week)
}
