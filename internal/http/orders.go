package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gtech/internal/domain"
	"gtech/internal/service"
)

// @Summary List my orders
// @Description Newest first.
// @Tags orders
// @Produce json
// @Success 200 {array} domain.Order
// @Failure 401 {object} errorResponse
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	list, err := s.svc.Orders.ListForUser(c, u.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Pending orders count
// @Tags orders
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {object} errorResponse
// @Router /orders/pending-count [get]
func (s *Server) pendingCount(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	n, err := s.svc.Orders.PendingCount(c, u.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": n})
}

type createOrderReq struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  int64          `json:"quantity" binding:"gte=1"`
	Address   domain.Address `json:"address"`
}

// @Summary Place order (cash on delivery)
// @Tags orders
// @Accept json
// @Produce json
// @Param input body createOrderReq true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.svc.Orders.CreateOrder(c, service.CreateOrderInput{
		User:      *u,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Address:   req.Address,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	o, err := s.svc.Orders.GetOrderForUser(c, c.Param("id"), u.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type cancelOrderReq struct {
	Reason string `json:"reason"`
}

// @Summary Cancel order
// @Description Allowed while the order is Pending, Confirmed or Processing.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body cancelOrderReq false "Reason"
// @Success 200 {object} domain.Order
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /orders/{id}/cancel [post]
func (s *Server) cancelOrder(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req cancelOrderReq
	if err := bindOptionalJSON(c, &req); err != nil {
		badJSON(c)
		return
	}
	// ownership check first so foreign orders look missing
	if _, err := s.svc.Orders.GetOrderForUser(c, c.Param("id"), u.ID); err != nil {
		s.fail(c, err)
		return
	}
	o, err := s.svc.Orders.CancelOrder(c, c.Param("id"), req.Reason)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateStatusReq struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// @Summary Update order status
// @Description Operator endpoint. Appends a tracking event.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "Status"
// @Param X-Admin-Token header string true "Operator token"
// @Success 200 {object} domain.Order
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.svc.Orders.UpdateStatus(c, c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
