package repositories

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/storegraph/app/models"
)

// ─── Products ─────────────────────────────────────────────────────────────────

// MemoryProductRepository keeps products in insertion order behind a mutex.
type MemoryProductRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]*models.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{byID: make(map[primitive.ObjectID]*models.Product)}
}

func (r *MemoryProductRepository) All(_ context.Context) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[oid]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *MemoryProductRepository) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = newObjectID()
	r.byID[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryProductRepository) Update(_ context.Context, id string, f models.ProductFields, returnAfter bool) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[oid]
	if !ok {
		return nil, nil
	}

	before := p.Clone()
	p.Apply(f)
	r.byID[oid] = p.Clone()

	if returnAfter {
		return p.Clone(), nil
	}
	return before, nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[oid]; !ok {
		return nil
	}
	delete(r.byID, oid)
	r.order = removeID(r.order, oid)
	return nil
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// MemoryOrderRepository keeps orders in insertion order.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []*models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) FindByUser(_ context.Context, userID string) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *MemoryOrderRepository) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = newObjectID()
	c := *o
	if o.Extra != nil {
		c.Extra = bson.M{}
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	r.orders = append(r.orders, &c)
	return nil
}

// ─── Users ────────────────────────────────────────────────────────────────────

// MemoryUserRepository keeps users in insertion order.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byID: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.byID[id]; u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[oid]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepository) All(_ context.Context, id string) ([]*models.User, error) {
	var want primitive.ObjectID
	if id != "" {
		oid, err := parseID(id)
		if err != nil {
			return nil, err
		}
		want = oid
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.User{}
	for _, oid := range r.order {
		if !want.IsZero() && oid != want {
			continue
		}
		u := r.byID[oid]
		out = append(out, &u)
	}
	return out, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.ID = newObjectID()
	r.byID[u.ID] = *u
	r.order = append(r.order, u.ID)
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, oid)
	r.order = removeID(r.order, oid)
	return nil
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
