package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gtech/internal/domain"
	"gtech/internal/pincode"
	"gtech/internal/service"
)

type checkoutOptions struct {
	Online         bool `json:"online"`
	CashOnDelivery bool `json:"cashOnDelivery"`
}

// @Summary Available payment methods
// @Tags checkout
// @Produce json
// @Success 200 {object} checkoutOptions
// @Router /checkout [get]
func (s *Server) checkoutOptions(c *gin.Context) {
	c.JSON(http.StatusOK, checkoutOptions{Online: s.svc.Checkout.Available(), CashOnDelivery: true})
}

type startPaymentReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"gte=1"`
}

// @Summary Start online payment
// @Tags checkout
// @Accept json
// @Produce json
// @Param input body startPaymentReq true "Item"
// @Success 200 {object} domain.PaymentOrder
// @Failure 401 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /checkout/payment [post]
func (s *Server) startPayment(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req startPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	po, err := s.svc.Checkout.StartPayment(c, u.ID, req.ProductID, req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

// completePaymentReq: productId и quantity необязательны, товар берётся из заказа шлюза
type completePaymentReq struct {
	ProductID string         `json:"productId"`
	Quantity  int64          `json:"quantity" binding:"omitempty,gte=1"`
	Address   domain.Address `json:"address"`
	domain.PaymentConfirmation
}

// @Summary Verify payment and place order
// @Description The paid item is ordered as Confirmed with the payment id. A payment order is used once.
// @Tags checkout
// @Accept json
// @Produce json
// @Param input body completePaymentReq true "Payment result"
// @Success 201 {object} domain.Order
// @Failure 400 {object} errorResponse
// @Failure 402 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /checkout/verify [post]
func (s *Server) completePayment(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req completePaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.svc.Checkout.CompletePayment(c, service.CompletePaymentInput{
		User:         *u,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Address:      req.Address,
		Confirmation: req.PaymentConfirmation,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Look up district and state by pincode
// @Tags checkout
// @Produce json
// @Param code path string true "6-digit pincode"
// @Success 200 {object} pincode.Location
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /pincode/{code} [get]
func (s *Server) lookupPincode(c *gin.Context) {
	if s.svc.Pincode == nil {
		c.JSON(http.StatusNotImplemented, errorResponse{Error: "pincode lookup disabled"})
		return
	}
	loc, err := s.svc.Pincode.Lookup(c, c.Param("code"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, loc)
	case errors.Is(err, pincode.ErrInvalidPincode), errors.Is(err, pincode.ErrNotFound):
		s.fail(c, err)
	default:
		// lookup is best effort; the form stays usable
		s.log.Warn("pincode lookup failed", zap.String("code", c.Param("code")), zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "pincode service unavailable"})
	}
}
