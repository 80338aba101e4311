package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gtech/internal/catalog"
	"gtech/internal/domain"
	"gtech/internal/kv"
)

// LocalStore хранит пользователей, товары и заказы в локальном key/value хранилище.
// Каждая запись: JSON-массив под фиксированным ключом.
type LocalStore struct {
	mu           sync.RWMutex
	kv           kv.Store
	seed         []domain.Product
	demoPassword string
}

// LocalOption настройка LocalStore
type LocalOption func(*LocalStore)

// WithSeed заменяет встроенный каталог, которым инициализируется пустое хранилище
func WithSeed(products []domain.Product) LocalOption {
	return func(s *LocalStore) { s.seed = products }
}

// WithDemoPassword задаёт единый пароль демо-входа
func WithDemoPassword(pw string) LocalOption {
	return func(s *LocalStore) { s.demoPassword = pw }
}

func NewLocalStore(store kv.Store, opts ...LocalOption) *LocalStore {
	s := &LocalStore{kv: store, demoPassword: "password123"}
	for _, o := range opts {
		o(s)
	}
	if s.seed == nil {
		s.seed = catalog.Default()
	}
	return s
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (s *LocalStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RLock()
	}
}
func (s *LocalStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RUnlock()
	}
}
func (s *LocalStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Lock()
	}
}
func (s *LocalStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*LocalStore)(nil)

// products loads the catalog, seeding it on first access.
func (s *LocalStore) products(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	found, err := kv.GetJSON(ctx, s.kv, kv.KeyProducts, &list)
	if err != nil {
		return nil, err
	}
	if found {
		return list, nil
	}
	list = make([]domain.Product, len(s.seed))
	copy(list, s.seed)
	return list, nil
}

func (s *LocalStore) saveProducts(ctx context.Context, list []domain.Product) error {
	return kv.SetJSON(ctx, s.kv, kv.KeyProducts, list)
}

// ProductRepository implementation
func (s *LocalStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	s.rlock(ctx)
	defer s.runlock(ctx)
	list, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(list), nil
}

func (s *LocalStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	s.rlock(ctx)
	defer s.runlock(ctx)
	list, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *LocalStore) Create(ctx context.Context, p *domain.Product) error {
	s.wlock(ctx)
	defer s.wunlock(ctx)
	list, err := s.products(ctx)
	if err != nil {
		return err
	}
	p.ID = "product-" + uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return s.saveProducts(ctx, append(list, *p))
}

func (s *LocalStore) Update(ctx context.Context, p *domain.Product) error {
	s.wlock(ctx)
	defer s.wunlock(ctx)
	list, err := s.products(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == p.ID {
			list[i] = *p
			return s.saveProducts(ctx, list)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	s.wlock(ctx)
	defer s.wunlock(ctx)
	list, err := s.products(ctx)
	if err != nil {
		return err
	}
	out := list[:0]
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	if len(out) == len(list) {
		return ErrNotFound
	}
	return s.saveProducts(ctx, out)
}

// OrderRepository implementation on wrapper type
type LocalOrders struct{ store *LocalStore }

func NewLocalOrders(store *LocalStore) *LocalOrders { return &LocalOrders{store: store} }

var _ OrderRepository = (*LocalOrders)(nil)

func (lo *LocalOrders) load(ctx context.Context) ([]domain.Order, error) {
	var list []domain.Order
	if _, err := kv.GetJSON(ctx, lo.store.kv, kv.KeyOrders, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (lo *LocalOrders) Create(ctx context.Context, o *domain.Order) error {
	lo.store.wlock(ctx)
	defer lo.store.wunlock(ctx)
	list, err := lo.load(ctx)
	if err != nil {
		return err
	}
	o.ID = "order-" + uuid.NewString()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.UpdatedAt = o.CreatedAt
	return kv.SetJSON(ctx, lo.store.kv, kv.KeyOrders, append(list, *o))
}

func (lo *LocalOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	lo.store.rlock(ctx)
	defer lo.store.runlock(ctx)
	list, err := lo.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (lo *LocalOrders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	lo.store.rlock(ctx)
	defer lo.store.runlock(ctx)
	list, err := lo.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	for _, o := range list {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (lo *LocalOrders) Update(ctx context.Context, o *domain.Order) error {
	lo.store.wlock(ctx)
	defer lo.store.wunlock(ctx)
	list, err := lo.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == o.ID {
			o.UpdatedAt = time.Now().UTC()
			list[i] = *o
			return kv.SetJSON(ctx, lo.store.kv, kv.KeyOrders, list)
		}
	}
	return ErrNotFound
}

// UserRepository implementation. Пароли не хранятся: любой зарегистрированный
// email входит с демо-паролем.
type LocalUsers struct{ store *LocalStore }

func NewLocalUsers(store *LocalStore) *LocalUsers { return &LocalUsers{store: store} }

var _ UserRepository = (*LocalUsers)(nil)

func (lu *LocalUsers) load(ctx context.Context) ([]domain.User, error) {
	var list []domain.User
	if _, err := kv.GetJSON(ctx, lu.store.kv, kv.KeyUsers, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (lu *LocalUsers) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	lu.store.rlock(ctx)
	defer lu.store.runlock(ctx)
	list, err := lu.load(ctx)
	if err != nil {
		return nil, "", err
	}
	for _, u := range list {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) && password == lu.store.demoPassword {
			cp := u
			return &cp, "", nil
		}
	}
	return nil, "", ErrInvalidCredentials
}

func (lu *LocalUsers) Register(ctx context.Context, r domain.Registration) (*domain.User, string, error) {
	lu.store.wlock(ctx)
	defer lu.store.wunlock(ctx)
	list, err := lu.load(ctx)
	if err != nil {
		return nil, "", err
	}
	email := strings.ToLower(strings.TrimSpace(r.Email))
	for _, u := range list {
		if strings.EqualFold(u.Email, email) {
			return nil, "", ErrConflict
		}
	}
	u := domain.User{
		ID:    "user-" + uuid.NewString(),
		Email: email,
		Name:  strings.TrimSpace(r.Name),
		Phone: domain.NormalizePhone(r.Phone),
	}
	if err := kv.SetJSON(ctx, lu.store.kv, kv.KeyUsers, append(list, u)); err != nil {
		return nil, "", err
	}
	return &u, "", nil
}

// Tx manager using write lock to emulate transaction boundary
type LocalTx struct{ store *LocalStore }

func NewLocalTx(store *LocalStore) *LocalTx { return &LocalTx{store: store} }

func (tx *LocalTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// the context flag makes repository calls inside fn skip their own locks
	if isTx(ctx) {
		return fn(ctx)
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}

// SerialTx сериализует операции без общего хранилища (удалённый бэкенд)
type SerialTx struct{ mu sync.Mutex }

func NewSerialTx() *SerialTx { return &SerialTx{} }

func (tx *SerialTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}
