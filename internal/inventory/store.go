// Package inventory owns the canonical product list and category set and keeps them
// in step with durable storage.
package inventory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/storage"
	"github.com/talkincode/toughstock/pkg/common"
	"go.uber.org/zap"
)

// Change operations reported to the change hook.
const (
	OpLoad        = "load"
	OpAdd         = "add"
	OpUpdate      = "update"
	OpRemove      = "remove"
	OpAddCategory = "add_category"
	OpReset       = "reset"
)

// Change describes a committed mutation.
type Change struct {
	Op        string
	ProductID string
	Category  string
}

// Store serializes every mutation behind one mutex and persists the full snapshot
// after each of them.
type Store struct {
	mu         sync.RWMutex
	kv         storage.KV
	products   []domain.Product
	categories []string

	clock  func() time.Time
	newID  common.IDGenerator
	onSave func(Change)
}

type Option func(*Store)

// WithClock replaces time.Now, used for creation timestamps and seeding.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator replaces the snowflake product id source.
func WithIDGenerator(gen common.IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

// WithChangeHook registers fn to be called after each committed mutation,
// outside the store lock.
func WithChangeHook(fn func(Change)) Option {
	return func(s *Store) { s.onSave = fn }
}

func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		clock: time.Now,
		newID: common.UUIDString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock reading.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Today is the current calendar date in time.Local.
func (s *Store) Today() domain.Date {
	return domain.DateOf(s.clock(), time.Local)
}

// Load reads the persisted snapshot. When either key is missing the sample data is
// seeded and persisted. Categories referenced by products but absent from the set
// are added back.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	var products []domain.Product
	var categories []string
	hasProducts, err := storage.GetJSON(ctx, s.kv, domain.KeyProducts, &products)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	hasCategories, err := storage.GetJSON(ctx, s.kv, domain.KeyCategories, &categories)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if !hasProducts || !hasCategories {
		s.seedLocked()
		seeded := len(s.products)
		err = s.persistLocked(ctx)
		s.mu.Unlock()
		zap.L().Info("inventory seeded with sample data",
			zap.String("namespace", "inventory"),
			zap.Int("products", seeded),
			zap.Error(err))
		s.notify(Change{Op: OpReset})
		return err
	}

	s.products = make([]domain.Product, 0, len(products))
	for _, p := range products {
		s.products = append(s.products, normalizeLoaded(p))
	}
	s.categories = dedupe(categories)
	repaired := false
	for _, p := range s.products {
		if s.addCategoryLocked(p.Category) {
			repaired = true
		}
	}
	if repaired {
		err = s.persistLocked(ctx)
		zap.L().Warn("repaired category set from product list",
			zap.String("namespace", "inventory"), zap.Error(err))
	}
	ncat := len(s.categories)
	s.mu.Unlock()
	zap.L().Info("inventory loaded",
		zap.String("namespace", "inventory"),
		zap.Int("products", len(products)),
		zap.Int("categories", ncat))
	s.notify(Change{Op: OpLoad})
	return err
}

// Reset discards the current state and reseeds the sample data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.seedLocked()
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify(Change{Op: OpReset})
	return err
}

// Add validates draft, assigns an id and creation time, and appends the product.
func (s *Store) Add(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	p := domain.Product{
		ID:        s.nextIDLocked(),
		Name:      draft.Name,
		Category:  draft.Category,
		Quantity:  draft.Quantity,
		Price:     draft.Price,
		Notes:     draft.Notes,
		CreatedAt: s.clock(),
	}
	if draft.ExpiryDate != nil && !draft.ExpiryDate.IsZero() {
		d := *draft.ExpiryDate
		p.ExpiryDate = &d
	}
	s.products = append(s.products, p)
	s.addCategoryLocked(p.Category)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	zap.L().Info("product added", zap.String("namespace", "inventory"),
		zap.String("id", p.ID), zap.String("name", p.Name))
	s.notify(Change{Op: OpAdd, ProductID: p.ID, Category: p.Category})
	return p.Clone(), err
}

// Update merges patch into the product with the given id.
func (s *Store) Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	if err := patch.Validate(); err != nil {
		return domain.Product{}, err
	}
	if patch.ExpiryDate != nil && patch.ExpiryDate.IsZero() {
		patch.ExpiryDate = nil
		patch.ClearExpiryDate = true
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Product{}, errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	p := patch.Apply(s.products[idx])
	s.products[idx] = p
	s.addCategoryLocked(p.Category)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	zap.L().Info("product updated", zap.String("namespace", "inventory"), zap.String("id", id))
	s.notify(Change{Op: OpUpdate, ProductID: id, Category: p.Category})
	return p.Clone(), err
}

// Remove deletes the product. Unknown ids report ErrNotFound and persist nothing.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	removed := s.products[idx]
	s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	zap.L().Info("product removed", zap.String("namespace", "inventory"), zap.String("id", id))
	s.notify(Change{Op: OpRemove, ProductID: id, Category: removed.Category})
	return err
}

// Get returns a copy of the product with the given id.
func (s *Store) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Product{}, errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	return s.products[idx].Clone(), nil
}

// AddCategory adds name to the category set. It returns false, without error, when
// the category already exists.
func (s *Store) AddCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		verr := &domain.ValidationError{}
		verr.Add("category", domain.MsgCategoryRequired)
		return false, verr
	}
	s.mu.Lock()
	if !s.addCategoryLocked(name) {
		s.mu.Unlock()
		return false, nil
	}
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify(Change{Op: OpAddCategory, Category: name})
	return true, err
}

// Snapshot returns a copy of the current products and categories.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		products[i] = p.Clone()
	}
	categories := make([]string, len(s.categories))
	copy(categories, s.categories)
	return domain.Snapshot{Products: products, Categories: categories, TakenAt: s.clock()}
}

// Categories returns a copy of the category set in insertion order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) seedLocked() {
	s.products = SampleProducts(s.clock())
	s.categories = SampleCategories()
}

func (s *Store) persistLocked(ctx context.Context) error {
	products := s.products
	if products == nil {
		products = []domain.Product{}
	}
	categories := s.categories
	if categories == nil {
		categories = []string{}
	}
	err := storage.SetJSON(ctx, s.kv, map[string]interface{}{
		domain.KeyProducts:   products,
		domain.KeyCategories: categories,
	})
	if err != nil {
		zap.L().Error("inventory persist failed", zap.String("namespace", "inventory"), zap.Error(err))
	}
	return err
}

func (s *Store) indexLocked(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextIDLocked() string {
	for {
		id := s.newID()
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

func (s *Store) addCategoryLocked(name string) bool {
	for _, c := range s.categories {
		if c == name {
			return false
		}
	}
	s.categories = append(s.categories, name)
	return true
}

func (s *Store) notify(c Change) {
	if s.onSave != nil {
		s.onSave(c)
	}
}

func normalizeLoaded(p domain.Product) domain.Product {
	if p.ExpiryDate != nil && p.ExpiryDate.IsZero() {
		p.ExpiryDate = nil
	}
	return p
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
