package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/greatbrands/ticketing/internal/dto"
	"github.com/greatbrands/ticketing/internal/middleware"
	"github.com/greatbrands/ticketing/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	svc service.AllocationService
}

func NewEventHandler(svc service.AllocationService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	events := e.Group("/api/v1/events", authMW)
	events.POST("/initialize", h.InitializeEvent)
	events.GET("", h.ListEvents)
	events.POST("/:id/book", h.Book)
	events.POST("/:id/cancel", h.Cancel)
	events.GET("/:id/status", h.GetStatus)
}

func (h *EventHandler) InitializeEvent(c echo.Context) error {
	caller, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	var req dto.InitializeEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TotalTickets == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "event total tickets are required")
	}

	event, err := h.svc.InitializeEvent(c.Request().Context(), caller, req.Name, req.TotalTickets)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.InitializeEventResponse{
		Message: "Event created successfully",
		Event:   dto.ToEventResponse(event),
	})
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.EventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToEventResponse(&e)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) Book(c echo.Context) error {
	caller, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	eventID, err := parseEventID(c)
	if err != nil {
		return err
	}

	outcome, err := h.svc.Book(c.Request().Context(), caller, eventID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookResponse(outcome))
}

func (h *EventHandler) Cancel(c echo.Context) error {
	caller, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	eventID, err := parseEventID(c)
	if err != nil {
		return err
	}

	outcome, err := h.svc.Cancel(c.Request().Context(), caller, eventID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.CancelResponse{Message: outcome.Message})
}

func (h *EventHandler) GetStatus(c echo.Context) error {
	caller, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	eventID, err := parseEventID(c)
	if err != nil {
		return err
	}

	status, err := h.svc.GetStatus(c.Request().Context(), caller, eventID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventStatusResponse(status))
}

func parseEventID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}
	return uint(id), nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTotalTickets):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
