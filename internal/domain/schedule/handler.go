package schedule

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
	g.GET("/doctors/:id/schedule", h.getSchedule)
	g.PUT("/doctors/:id/schedule", h.saveSchedule)
	g.POST("/doctors/:id/schedule/exceptions", h.manageException)
}

func (h *Handler) getSchedule(c echo.Context) error {
	doctorID, err := parseDoctorID(c)
	if err != nil {
		return err
	}
	snap, err := h.service.GetSchedule(c.Request().Context(), doctorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) saveSchedule(c echo.Context) error {
	doctorID, err := parseDoctorID(c)
	if err != nil {
		return err
	}
	var payload SavePayload
	if err := c.Bind(&payload); err != nil {
		return apperror.Validation("VALIDATION_ERROR", "invalid request body")
	}

	snap, err := h.service.SaveSchedule(c.Request().Context(), doctorID, &payload, middleware.ActorFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) manageException(c echo.Context) error {
	doctorID, err := parseDoctorID(c)
	if err != nil {
		return err
	}
	var req ExceptionRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("VALIDATION_ERROR", "invalid request body")
	}

	exceptions, err := h.service.ManageException(c.Request().Context(), doctorID, &req, middleware.ActorFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"exceptions": exceptionViews(exceptions),
	})
}

func parseDoctorID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("VALIDATION_ERROR", "invalid doctor id").
			WithDetail("id", c.Param("id"))
	}
	return id, nil
}
