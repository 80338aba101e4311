package remote

import (
	"context"
	"errors"
	"net/http"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// Users реализует repository.UserRepository поверх auth/* и users/profile
type Users struct{ c *Client }

func NewUsers(c *Client) *Users { return &Users{c: c} }

var _ repository.UserRepository = (*Users)(nil)

type loginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (u *Users) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	var resp authResponse
	err := u.c.do(ctx, http.MethodPost, "auth/login", false, loginRequest{Mail: email, Password: password}, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusNotFound) {
		return nil, "", repository.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	user := resp.user()
	if user.Email == "" {
		user.Email = email
	}
	return &user, resp.Token, nil
}

func (u *Users) Register(ctx context.Context, r domain.Registration) (*domain.User, string, error) {
	var resp authResponse
	req := registerRequest{Name: r.Name, Mail: r.Email, Password: r.Password, Phone: domain.NormalizePhone(r.Phone)}
	err := u.c.do(ctx, http.MethodPost, "auth/register", false, req, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return nil, "", repository.ErrConflict
	}
	if err != nil {
		return nil, "", err
	}
	user := resp.user()
	if user.Email == "" {
		user.Email = r.Email
	}
	if user.Name == "" {
		user.Name = r.Name
	}
	return &user, resp.Token, nil
}

// Profile returns the account behind the current token.
func (u *Users) Profile(ctx context.Context) (*domain.User, error) {
	var w wireUser
	if err := u.c.get(ctx, "users/profile", &w); err != nil {
		return nil, err
	}
	user := w.domain()
	return &user, nil
}
