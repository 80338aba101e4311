package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Cart contents
// @Tags cart
// @Produce json
// @Success 200 {array} service.CartLine
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	lines, err := s.svc.Cart.Products(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

type addToCartReq struct {
	Quantity int64 `json:"quantity"`
}

// @Summary Add to cart
// @Description Quantity defaults to 1; adding an existing product increases its quantity.
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param input body addToCartReq false "Quantity"
// @Success 200 {array} domain.CartItem
// @Failure 404 {object} errorResponse
// @Router /cart/{productId} [post]
func (s *Server) addToCart(c *gin.Context) {
	req := addToCartReq{Quantity: 1}
	if err := bindOptionalJSON(c, &req); err != nil {
		badJSON(c)
		return
	}
	items, err := s.svc.Cart.Add(c, c.Param("productId"), req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Remove from cart
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {array} domain.CartItem
// @Router /cart/{productId} [delete]
func (s *Server) removeFromCart(c *gin.Context) {
	items, err := s.svc.Cart.Remove(c, c.Param("productId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Clear cart
// @Tags cart
// @Success 204
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	if err := s.svc.Cart.Clear(c); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Pull the cart from the backend
// @Tags cart
// @Produce json
// @Success 200 {array} domain.CartItem
// @Router /cart/sync [post]
func (s *Server) syncCart(c *gin.Context) {
	items, err := s.svc.Cart.Sync(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Wishlist products
// @Tags wishlist
// @Produce json
// @Success 200 {array} domain.Product
// @Router /wishlist [get]
func (s *Server) getWishlist(c *gin.Context) {
	list, err := s.svc.Cart.WishlistProducts(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type wishlistState struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
}

// @Summary Is product in wishlist
// @Tags wishlist
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} wishlistState
// @Router /wishlist/{productId} [get]
func (s *Server) inWishlist(c *gin.Context) {
	id := c.Param("productId")
	in, err := s.svc.Cart.InWishlist(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wishlistState{ProductID: id, InWishlist: in})
}

// @Summary Toggle wishlist
// @Tags wishlist
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} wishlistState
// @Router /wishlist/{productId}/toggle [post]
func (s *Server) toggleWishlist(c *gin.Context) {
	id := c.Param("productId")
	in, err := s.svc.Cart.ToggleWishlist(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wishlistState{ProductID: id, InWishlist: in})
}
