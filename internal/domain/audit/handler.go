package audit

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
	"github.com/ArthurAugustinho/passmais-backend-sub000/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/doctors/:id/schedule/audit", h.list)
}

func (h *Handler) list(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.Validation("VALIDATION_ERROR", "invalid doctor id").
			WithDetail("id", c.Param("id"))
	}

	resp, err := h.service.ListByDoctor(c.Request().Context(), doctorID, pagination.FromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
