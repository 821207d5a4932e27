package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the acting user. Authentication happens upstream.
const UserIDHeader = "X-User-ID"

type OrderHandler struct {
	service orders.OrderUseCase
}

func NewOrderHandler(service orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
}

type ticketRequest struct {
	Flight int64 `json:"flight" binding:"required"`
	Row    int   `json:"row"`
	Seat   int   `json:"seat"`
}

type createOrderRequest struct {
	Tickets []ticketRequest `json:"tickets" binding:"dive"`
}

type ticketResponse struct {
	ID     int64 `json:"id"`
	Flight int64 `json:"flight"`
	Row    int   `json:"row"`
	Seat   int   `json:"seat"`
}

type orderResponse struct {
	ID        int64            `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []ticketResponse `json:"tickets"`
}

func (h *OrderHandler) list(c *gin.Context) {
	userID, ok := userFromHeader(c)
	if !ok {
		return
	}
	list, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]orderResponse, 0, len(list))
	for _, o := range list {
		resp = append(resp, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) create(c *gin.Context) {
	userID, ok := userFromHeader(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tickets := make([]orders.TicketRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, orders.TicketRequest{FlightID: t.Flight, Row: t.Row, Seat: t.Seat})
	}
	order, err := h.service.CreateOrder(c.Request.Context(), userID, tickets)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

func userFromHeader(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(UserIDHeader)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: UserIDHeader + " header is required"})
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid " + UserIDHeader})
		return 0, false
	}
	return userID, true
}

func toOrderResponse(o domain.Order) orderResponse {
	tickets := make([]ticketResponse, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		tickets = append(tickets, ticketResponse{ID: t.ID, Flight: t.FlightID, Row: t.Row, Seat: t.Seat})
	}
	return orderResponse{ID: o.ID, CreatedAt: o.CreatedAt, Tickets: tickets}
}
