package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrUnauthenticated    = errors.New("login required")
)

// AuthService вход, регистрация и текущий пользователь
type AuthService struct {
	users   repository.UserRepository
	session *Session
	log     *zap.Logger
}

func NewAuthService(users repository.UserRepository, session *Session, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, session: session, log: log}
}

// profileReader is implemented by backends that can return the account for the current token.
type profileReader interface {
	Profile(ctx context.Context) (*domain.User, error)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	u, token, err := s.users.Authenticate(ctx, email, password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		s.log.Info("login rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.session.SignIn(ctx, *u, token); err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return u, nil
}

// Register создаёт аккаунт и сразу выполняет вход
func (s *AuthService) Register(ctx context.Context, r domain.Registration) (*domain.User, error) {
	if err := domain.ValidateRegistration(r); err != nil {
		return nil, err
	}
	u, token, err := s.users.Register(ctx, r)
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	if err := s.session.SignIn(ctx, *u, token); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Logout clears local session state only; no server-side invalidation.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

// CurrentUser reads the cached session. No network call.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	return s.session.User(ctx)
}

// RequireUser как CurrentUser, но без сессии возвращает ErrUnauthenticated
func (s *AuthService) RequireUser(ctx context.Context) (*domain.User, error) {
	u, err := s.session.User(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// Profile refreshes the cached user from the backend when it can; otherwise
// it returns the cached user.
func (s *AuthService) Profile(ctx context.Context) (*domain.User, error) {
	cached, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	pr, ok := s.users.(profileReader)
	if !ok {
		return cached, nil
	}
	fresh, err := pr.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if fresh.ID == "" {
		fresh.ID = cached.ID
	}
	token, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.SignIn(ctx, *fresh, token); err != nil {
		return nil, err
	}
	return fresh, nil
}
