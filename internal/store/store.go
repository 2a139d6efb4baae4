// Package store holds the in-memory cart and wishlist shared by every
// storefront screen. A single Store is created at startup and injected into
// its consumers.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/shopmate/storefront/internal/domain"
	apperrors "github.com/shopmate/storefront/pkg/errors"
)

// Observer receives a snapshot after every applied mutation. Observers run
// synchronously in the mutating goroutine after the store lock is released,
// so deliveries from concurrent mutations may arrive out of order; compare
// Snapshot.Version to discard stale ones.
type Observer func(domain.Snapshot)

type subscription struct {
	id uint64
	fn Observer
}

// Store is an observable container for cart lines and wishlist entries.
// Mutations either apply fully or leave the state untouched and return
// NotFound or InvalidInput. Both collections keep insertion order and hold
// at most one entry per product id.
type Store struct {
	mu        sync.Mutex
	cart      []domain.CartLine
	wishlist  []domain.Product
	version   uint64
	observers []subscription
	nextSubID uint64

	logger *slog.Logger
}

// New creates an empty store.
func New(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

// Op is one cart or wishlist mutation. Build it with the constructors below
// and run it with Store.Apply.
type Op struct {
	name  string
	apply func(s *Store) (changed bool, err error)
}

// AddToCartOp increments the line for p or appends a new line with
// quantity 1.
func AddToCartOp(p domain.Product) Op {
	return Op{name: "add_to_cart", apply: func(s *Store) (bool, error) {
		p, err := canonicalProduct(p)
		if err != nil {
			return false, err
		}
		if i := s.cartIndex(p.ID); i >= 0 {
			s.cart[i].Quantity++
			return true, nil
		}
		s.cart = append(s.cart, domain.CartLine{Product: p, Quantity: 1})
		return true, nil
	}}
}

// RemoveFromCartOp deletes the line for id.
func RemoveFromCartOp(id domain.ProductID) Op {
	return Op{name: "remove_from_cart", apply: func(s *Store) (bool, error) {
		i, err := s.lineFor(id)
		if err != nil {
			return false, err
		}
		s.cart = slices.Delete(s.cart, i, i+1)
		return true, nil
	}}
}

// UpdateQuantityOp sets the line quantity to exactly n. A value of zero or
// less removes the line.
func UpdateQuantityOp(id domain.ProductID, n int) Op {
	return Op{name: "update_quantity", apply: func(s *Store) (bool, error) {
		i, err := s.lineFor(id)
		if err != nil {
			return false, err
		}
		if n <= 0 {
			s.cart = slices.Delete(s.cart, i, i+1)
			return true, nil
		}
		if s.cart[i].Quantity == n {
			return false, nil
		}
		s.cart[i].Quantity = n
		return true, nil
	}}
}

// IncreaseQuantityOp adds one to the line quantity.
func IncreaseQuantityOp(id domain.ProductID) Op {
	return adjustQuantityOp("increase_quantity", id, 1)
}

// DecreaseQuantityOp subtracts one from the line quantity, removing the
// line when it reaches zero.
func DecreaseQuantityOp(id domain.ProductID) Op {
	return adjustQuantityOp("decrease_quantity", id, -1)
}

func adjustQuantityOp(name string, id domain.ProductID, delta int) Op {
	return Op{name: name, apply: func(s *Store) (bool, error) {
		i, err := s.lineFor(id)
		if err != nil {
			return false, err
		}
		if q := s.cart[i].Quantity + delta; q > 0 {
			s.cart[i].Quantity = q
		} else {
			s.cart = slices.Delete(s.cart, i, i+1)
		}
		return true, nil
	}}
}

// ClearCartOp empties the cart. The wishlist is left as is.
func ClearCartOp() Op {
	return clearCartOp(nil)
}

func clearCartOp(removed *[]domain.CartLine) Op {
	return Op{name: "clear_cart", apply: func(s *Store) (bool, error) {
		if len(s.cart) == 0 {
			return false, nil
		}
		if removed != nil {
			*removed = s.cart
		}
		s.cart = nil
		return true, nil
	}}
}

// ToggleWishlistOp removes p from the wishlist if present and appends it
// otherwise.
func ToggleWishlistOp(p domain.Product) Op {
	return Op{name: "toggle_wishlist", apply: func(s *Store) (bool, error) {
		p, err := canonicalProduct(p)
		if err != nil {
			return false, err
		}
		s.toggleLocked(p)
		return true, nil
	}}
}

// ToggleWishlistByIDOp toggles the product with the given id, resolving it
// from the cart first and then from the wishlist. An id found in neither
// fails with NotFound since the store has no catalog access.
func ToggleWishlistByIDOp(id domain.ProductID) Op {
	return Op{name: "toggle_wishlist", apply: func(s *Store) (bool, error) {
		id, err := domain.NewProductID(id.String())
		if err != nil {
			return false, err
		}
		p, ok := s.resolveLocked(id)
		if !ok {
			return false, apperrors.NotFound("product", id.String())
		}
		s.toggleLocked(p)
		return true, nil
	}}
}

// Apply runs op and returns the state it left behind, read under the same
// lock. On error or when op changes nothing the snapshot is the current
// state.
func (s *Store) Apply(ctx context.Context, op Op) (domain.Snapshot, error) {
	return s.mutate(ctx, op.name, func() (bool, error) { return op.apply(s) })
}

// AddToCart increments the line for p or appends a new line with quantity 1.
func (s *Store) AddToCart(ctx context.Context, p domain.Product) error {
	_, err := s.Apply(ctx, AddToCartOp(p))
	return err
}

// RemoveFromCart deletes the line for id.
func (s *Store) RemoveFromCart(ctx context.Context, id domain.ProductID) error {
	_, err := s.Apply(ctx, RemoveFromCartOp(id))
	return err
}

// UpdateQuantity sets the line quantity to exactly n. A value of zero or
// less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id domain.ProductID, n int) error {
	_, err := s.Apply(ctx, UpdateQuantityOp(id, n))
	return err
}

// IncreaseQuantity adds one to the line quantity.
func (s *Store) IncreaseQuantity(ctx context.Context, id domain.ProductID) error {
	_, err := s.Apply(ctx, IncreaseQuantityOp(id))
	return err
}

// DecreaseQuantity subtracts one from the line quantity, removing the line
// when it reaches zero.
func (s *Store) DecreaseQuantity(ctx context.Context, id domain.ProductID) error {
	_, err := s.Apply(ctx, DecreaseQuantityOp(id))
	return err
}

// ClearCart empties the cart and returns the lines it removed. The wishlist
// is left as is.
func (s *Store) ClearCart(ctx context.Context) []domain.CartLine {
	var removed []domain.CartLine
	_, _ = s.Apply(ctx, clearCartOp(&removed))
	return removed
}

// ToggleWishlist removes p from the wishlist if present and appends it
// otherwise. It reports whether p is wishlisted afterwards.
func (s *Store) ToggleWishlist(ctx context.Context, p domain.Product) (bool, error) {
	snap, err := s.Apply(ctx, ToggleWishlistOp(p))
	if err != nil {
		return false, err
	}
	return snap.Wishlisted(p.ID), nil
}

// ToggleWishlistByID toggles the product with the given id, resolving it from
// the cart first and then from the wishlist. An id found in neither returns
// NotFound.
func (s *Store) ToggleWishlistByID(ctx context.Context, id domain.ProductID) (bool, error) {
	snap, err := s.Apply(ctx, ToggleWishlistByIDOp(id))
	if err != nil {
		return false, err
	}
	return snap.Wishlisted(id), nil
}

// lineFor returns the cart index for id after normalising it.
func (s *Store) lineFor(id domain.ProductID) (int, error) {
	id, err := domain.NewProductID(id.String())
	if err != nil {
		return -1, err
	}
	i := s.cartIndex(id)
	if i < 0 {
		return -1, cartLineNotFound(id)
	}
	return i, nil
}

// canonicalProduct normalises the id of p, validates it and detaches it from
// the caller's memory.
func canonicalProduct(p domain.Product) (domain.Product, error) {
	id, err := domain.NewProductID(p.ID.String())
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	return p.Clone(), nil
}

func (s *Store) toggleLocked(p domain.Product) {
	if i := s.wishlistIndex(p.ID); i >= 0 {
		s.wishlist = slices.Delete(s.wishlist, i, i+1)
		return
	}
	s.wishlist = append(s.wishlist, p)
}

func (s *Store) resolveLocked(id domain.ProductID) (domain.Product, bool) {
	if i := s.cartIndex(id); i >= 0 {
		return s.cart[i].Product, true
	}
	if i := s.wishlistIndex(id); i >= 0 {
		return s.wishlist[i], true
	}
	return domain.Product{}, false
}

// TotalPrice returns the cart total with two decimals, e.g. "25.00".
func (s *Store) TotalPrice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FormatPrice(domain.TotalPrice(s.cart))
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Quantity returns the cart quantity for id, or 0 when it is not in the cart.
func (s *Store) Quantity(id domain.ProductID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.cartIndex(id.Canonical()); i >= 0 {
		return s.cart[i].Quantity
	}
	return 0
}

// IsWishlisted reports whether id is in the wishlist.
func (s *Store) IsWishlisted(id domain.ProductID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistIndex(id.Canonical()) >= 0
}

// Subscribe registers fn for snapshot deliveries. The returned function
// unregisters it and may be called more than once.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
				return sub.id == id
			})
		})
	}
}

// mutate runs fn under the lock. fn reports whether it changed state; only
// changes bump the version and notify observers.
func (s *Store) mutate(ctx context.Context, op string, fn func() (bool, error)) (domain.Snapshot, error) {
	s.mu.Lock()
	changed, err := fn()
	if err != nil || !changed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		if err != nil {
			s.logRejected(ctx, op, err)
			return snap, fmt.Errorf("%s: %w", op, err)
		}
		return snap, nil
	}

	s.version++
	snap := s.snapshotLocked()
	observers := make([]Observer, len(s.observers))
	for i, sub := range s.observers {
		observers[i] = sub.fn
	}
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "store updated",
		slog.String("op", op),
		slog.Uint64("version", snap.Version),
		slog.Int("cart_lines", snap.ItemCount),
		slog.Int("wishlist_entries", len(snap.WishlistItems)),
		slog.String("total_price", snap.TotalPrice),
	)

	for _, o := range observers {
		o(snap)
	}
	return snap, nil
}

func (s *Store) logRejected(ctx context.Context, op string, err error) {
	level := slog.LevelDebug
	if errors.Is(err, apperrors.ErrInvalidInput) {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "store operation ignored",
		slog.String("op", op),
		slog.String("reason", err.Error()),
	)
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Version:       s.version,
		CartItems:     cloneLines(s.cart),
		WishlistItems: cloneProducts(s.wishlist),
		TotalPrice:    domain.FormatPrice(domain.TotalPrice(s.cart)),
		ItemCount:     len(s.cart),
		UnitCount:     domain.UnitCount(s.cart),
	}
}

func (s *Store) cartIndex(id domain.ProductID) int {
	return slices.IndexFunc(s.cart, func(l domain.CartLine) bool { return l.ID == id })
}

func (s *Store) wishlistIndex(id domain.ProductID) int {
	return slices.IndexFunc(s.wishlist, func(p domain.Product) bool { return p.ID == id })
}

func cartLineNotFound(id domain.ProductID) error {
	return apperrors.NotFound("cart line", id.String())
}

// cloneLines and cloneProducts deep-copy for snapshots. Empty collections
// come back as [] so they encode as [] rather than null.
func cloneLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	for i, l := range lines {
		out[i] = domain.CartLine{Product: l.Product.Clone(), Quantity: l.Quantity}
	}
	return out
}

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
