package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
}

type createFlightRequest struct {
	Route         int64     `json:"route" binding:"required"`
	Airplane      int64     `json:"airplane" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Crew          []int64   `json:"crew"`
}

type flightResponse struct {
	ID               int64     `json:"id"`
	RouteID          int64     `json:"route_id"`
	Route            string    `json:"route"`
	AirplaneID       int64     `json:"airplane_id"`
	Airplane         string    `json:"airplane"`
	Capacity         int       `json:"capacity"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	Crew             []string  `json:"crew"`
	TicketsAvailable int       `json:"tickets_available"`
}

func (h *FlightHandler) list(c *gin.Context) {
	var filter domain.FlightFilter
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Field: "date", Error: "date must be in YYYY-MM-DD format"})
			return
		}
		filter.Date = &date
	}
	if raw := c.Query("route"); raw != "" {
		routeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Field: "route", Error: "invalid route id"})
			return
		}
		filter.RouteID = routeID
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]flightResponse, 0, len(list))
	for _, f := range list {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	flight, err := h.service.Create(c.Request.Context(), flights.CreateFlightInput{
		RouteID:       req.Route,
		AirplaneID:    req.Airplane,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.Crew,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(*flight))
}

func toFlightResponse(f domain.Flight) flightResponse {
	crew := make([]string, 0, len(f.Crew))
	for _, member := range f.Crew {
		crew = append(crew, member.FullName())
	}
	return flightResponse{
		ID:               f.ID,
		RouteID:          f.Route.ID,
		Route:            f.Route.String(),
		AirplaneID:       f.Airplane.ID,
		Airplane:         f.Airplane.Name,
		Capacity:         f.Airplane.Capacity(),
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		Crew:             crew,
		TicketsAvailable: f.TicketsAvailable,
	}
}
