package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/airports", h.listAirports)
	router.POST("/airports", h.createAirport)
	router.GET("/airplane_types", h.listAirplaneTypes)
	router.POST("/airplane_types", h.createAirplaneType)
	router.GET("/airplanes", h.listAirplanes)
	router.POST("/airplanes", h.createAirplane)
	router.GET("/crews", h.listCrews)
	router.POST("/crews", h.createCrew)
	router.GET("/routes", h.listRoutes)
	router.POST("/routes", h.createRoute)
	router.GET("/routes/:id", h.getRoute)
}

type airportRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	ClosestBigCity string `json:"closest_big_city" binding:"required,max=255"`
}

type airportResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

type airplaneTypeRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type airplaneTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type airplaneRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Rows         int    `json:"rows" binding:"required,min=1"`
	SeatsInRow   int    `json:"seats_in_row" binding:"required,min=1"`
	AirplaneType int64  `json:"airplane_type" binding:"required"`
}

type airplaneResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	AirplaneType string `json:"airplane_type"`
	Capacity     int    `json:"capacity"`
}

type crewRequest struct {
	FirstName string `json:"first_name" binding:"required,max=255"`
	LastName  string `json:"last_name" binding:"required,max=255"`
}

type crewResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type routeRequest struct {
	Source      int64 `json:"source" binding:"required"`
	Destination int64 `json:"destination" binding:"required"`
	Distance    int   `json:"distance" binding:"required,min=1"`
}

type routeResponse struct {
	ID          int64  `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Distance    int    `json:"distance"`
}

func (h *CatalogHandler) listAirports(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]airportResponse, 0, len(airports))
	for _, a := range airports {
		resp = append(resp, toAirportResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createAirport(c *gin.Context) {
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	airport := &domain.Airport{Name: req.Name, ClosestBigCity: req.ClosestBigCity}
	if err := h.service.CreateAirport(c.Request.Context(), airport); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirportResponse(*airport))
}

func (h *CatalogHandler) listAirplaneTypes(c *gin.Context) {
	types, err := h.service.ListAirplaneTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]airplaneTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, airplaneTypeResponse{ID: t.ID, Name: t.Name})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createAirplaneType(c *gin.Context) {
	var req airplaneTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t := &domain.AirplaneType{Name: req.Name}
	if err := h.service.CreateAirplaneType(c.Request.Context(), t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airplaneTypeResponse{ID: t.ID, Name: t.Name})
}

func (h *CatalogHandler) listAirplanes(c *gin.Context) {
	airplanes, err := h.service.ListAirplanes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]airplaneResponse, 0, len(airplanes))
	for _, a := range airplanes {
		resp = append(resp, toAirplaneResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createAirplane(c *gin.Context) {
	var req airplaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	airplane := &domain.Airplane{
		Name:       req.Name,
		Rows:       req.Rows,
		SeatsInRow: req.SeatsInRow,
		Type:       domain.AirplaneType{ID: req.AirplaneType},
	}
	if err := h.service.CreateAirplane(c.Request.Context(), airplane); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirplaneResponse(*airplane))
}

func (h *CatalogHandler) listCrews(c *gin.Context) {
	crews, err := h.service.ListCrews(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]crewResponse, 0, len(crews))
	for _, cr := range crews {
		resp = append(resp, toCrewResponse(cr))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createCrew(c *gin.Context) {
	var req crewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	crew := &domain.Crew{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.service.CreateCrew(c.Request.Context(), crew); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCrewResponse(*crew))
}

func (h *CatalogHandler) listRoutes(c *gin.Context) {
	var (
		routes []domain.Route
		err    error
	)
	if raw := c.Query("source"); raw != "" {
		sourceID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Field: "source", Error: "invalid airport id"})
			return
		}
		routes, err = h.service.ListRoutesFrom(c.Request.Context(), sourceID)
	} else {
		routes, err = h.service.ListRoutes(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]routeResponse, 0, len(routes))
	for _, r := range routes {
		resp = append(resp, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	route, err := h.service.CreateRoute(c.Request.Context(), catalog.CreateRouteInput{
		SourceID:      req.Source,
		DestinationID: req.Destination,
		Distance:      req.Distance,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRouteResponse(*route))
}

func (h *CatalogHandler) getRoute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	route, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(*route))
}

func toAirportResponse(a domain.Airport) airportResponse {
	return airportResponse{ID: a.ID, Name: a.Name, ClosestBigCity: a.ClosestBigCity}
}

func toAirplaneResponse(a domain.Airplane) airplaneResponse {
	return airplaneResponse{
		ID:           a.ID,
		Name:         a.Name,
		Rows:         a.Rows,
		SeatsInRow:   a.SeatsInRow,
		AirplaneType: a.Type.Name,
		Capacity:     a.Capacity(),
	}
}

func toCrewResponse(c domain.Crew) crewResponse {
	return crewResponse{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, FullName: c.FullName()}
}

func toRouteResponse(r domain.Route) routeResponse {
	return routeResponse{ID: r.ID, Source: r.Source.Name, Destination: r.Destination.Name, Distance: r.Distance}
}
