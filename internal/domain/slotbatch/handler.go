package slotbatch

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	g.POST("/doctors/:id/slots/batch", h.upsert)
}

// upsert answers 200 when at least one day replaced existing rows and 201
// when the whole batch was brand new.
func (h *Handler) upsert(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.Validation("VALIDATION_ERROR", "invalid doctor id").
			WithDetail("id", c.Param("id"))
	}

	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("VALIDATION_ERROR", "invalid request body")
	}

	result, err := h.service.Upsert(c.Request().Context(), doctorID, &req, middleware.ActorFromContext(c.Request().Context()))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.Replaced {
		status = http.StatusOK
	}
	return c.JSON(status, result)
}
