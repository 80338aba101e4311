package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gtech/internal/domain"
)

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} domain.User
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.svc.Auth.Login(c, req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param input body domain.Registration true "Account"
// @Success 201 {object} domain.User
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req domain.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.svc.Auth.Register(c, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Log out
// @Description Clears the local session. Cart and wishlist are kept.
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	if err := s.svc.Auth.Logout(c); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} errorResponse
// @Router /auth/me [get]
func (s *Server) me(c *gin.Context) {
	u, err := s.svc.Auth.RequireUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Refresh profile from the backend
// @Tags auth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} errorResponse
// @Router /auth/profile [get]
func (s *Server) profile(c *gin.Context) {
	u, err := s.svc.Auth.Profile(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
