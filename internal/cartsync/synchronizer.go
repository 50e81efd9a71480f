package cartsync

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

const (
	DefaultDelay = 500 * time.Millisecond

	defaultIOTimeout = 10 * time.Second
)

type Config struct {
	Delay     time.Duration
	IOTimeout time.Duration
	Logger    *slog.Logger
	Schedule  ScheduleFunc
}

type mutation func(lines []models.CartLine) []models.CartLine

// Synchronizer owns the in-memory cart view. It is safe for concurrent use.
// Mutations only touch memory and schedule a write; store I/O never runs
// while the view is locked.
type Synchronizer struct {
	local  LocalStore
	remote RemoteStore
	lookup ProductLookup

	delay     time.Duration
	ioTimeout time.Duration
	logger    *slog.Logger
	schedule  ScheduleFunc

	mu       sync.Mutex
	state    SessionState
	session  *Session
	lines    []models.CartLine
	products map[string]models.ProductSnapshot
	replay   []mutation
	epoch    uint64

	// pending is the single scheduled-write slot.
	pending   Timer
	pendingID uint64
	writeSeq  uint64

	writeMu     sync.Mutex
	lastWritten uint64
}

func NewSynchronizer(local LocalStore, remote RemoteStore, lookup ProductLookup, cfg Config) *Synchronizer {

	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}

	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = defaultIOTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Schedule == nil {
		cfg.Schedule = afterFunc
	}

	return &Synchronizer{
		local:     local,
		remote:    remote,
		lookup:    lookup,
		delay:     cfg.Delay,
		ioTimeout: cfg.IOTimeout,
		logger:    cfg.Logger.With(slog.String("component", "cartsync")),
		schedule:  cfg.Schedule,
		state:     StateAnonymous,
		products:  map[string]models.ProductSnapshot{},
	}
}

func (s *Synchronizer) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Lines returns the raw cart lines, including lines not yet hydrated.
func (s *Synchronizer) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneLines(s.lines)
}

// View returns the hydrated cart. Lines without a product snapshot are left out.
func (s *Synchronizer) View() []models.HydratedCartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := make([]models.HydratedCartLine, 0, len(s.lines))
	for _, line := range s.lines {
		product, ok := s.products[line.ProductID]
		if !ok {
			continue
		}

		view = append(view, models.HydratedCartLine{
			ProductSnapshot: product,
			Quantity:        line.Quantity,
			Subtotal:        roundMoney(product.Price * float64(line.Quantity)),
		})
	}

	return view
}

func (s *Synchronizer) Total() float64 {
	var total float64
	for _, line := range s.View() {
		total += line.Subtotal
	}

	return roundMoney(total)
}

// Load hydrates the anonymous view from the device-local store.
func (s *Synchronizer) Load(ctx context.Context) {

	lines, err := s.local.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to read local cart", slog.Any("error", err))
		lines = nil
	}

	lines = models.NormalizeLines(lines)

	s.mu.Lock()
	if s.state != StateAnonymous {
		s.mu.Unlock()
		return
	}
	s.lines = lines
	s.mu.Unlock()

	s.Hydrate(ctx)
}

// Hydrate refreshes product snapshots for every line in the view in one
// batched lookup. Lines whose product is not found are dropped as delisted.
// A failed lookup empties the view but keeps the lines, so the next
// successful hydration restores it.
func (s *Synchronizer) Hydrate(ctx context.Context) {

	s.mu.Lock()
	requested := cloneLines(s.lines)
	epoch := s.epoch
	s.mu.Unlock()

	products, err := s.fetchProducts(ctx, requested)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return
	}

	if err != nil {
		s.logger.Warn("Failed to hydrate cart", slog.Any("error", err))
		s.products = map[string]models.ProductSnapshot{}
		return
	}

	s.addProductsLocked(products)
	s.lines = dropDelisted(s.lines, requested, products)
}

func (s *Synchronizer) AddLine(product models.ProductSnapshot, quantity int) {
	if product.ProductID == "" {
		return
	}

	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	s.products[product.ProductID] = product
	s.mu.Unlock()

	s.mutate(func(lines []models.CartLine) []models.CartLine {
		for i := range lines {
			if lines[i].ProductID == product.ProductID {
				lines[i].Quantity = models.ClampQuantity(lines[i].Quantity + quantity)
				return lines
			}
		}

		return append(lines, models.CartLine{ProductID: product.ProductID, Quantity: models.ClampQuantity(quantity)})
	})
}

func (s *Synchronizer) Increase(productID string) {
	s.mutate(adjust(productID, 1))
}

// Decrease lowers the quantity by one, never below one.
func (s *Synchronizer) Decrease(productID string) {
	s.mutate(adjust(productID, -1))
}

func (s *Synchronizer) SetQuantity(productID string, quantity int) {
	s.mutate(func(lines []models.CartLine) []models.CartLine {
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity = models.ClampQuantity(quantity)
			}
		}

		return lines
	})
}

func (s *Synchronizer) Remove(productID string) {
	s.mutate(func(lines []models.CartLine) []models.CartLine {
		kept := lines[:0]
		for _, line := range lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}

		return kept
	})
}

func (s *Synchronizer) Clear() {
	s.mutate(func([]models.CartLine) []models.CartLine {
		return nil
	})
}

func adjust(productID string, delta int) mutation {
	return func(lines []models.CartLine) []models.CartLine {
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity = models.ClampQuantity(lines[i].Quantity + delta)
			}
		}

		return lines
	}
}

func (s *Synchronizer) mutate(m mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = m(cloneLines(s.lines))

	// The write target is unknown until the merge lands.
	if s.state == StateTransitioning {
		s.replay = append(s.replay, m)
		return
	}

	s.scheduleWriteLocked()
}

// ObserveIdentity reacts to the identity provider. A nil session means signed
// out. Observing the user already signed in, or already being merged, is a
// no-op apart from picking up a refreshed token.
func (s *Synchronizer) ObserveIdentity(ctx context.Context, session *Session) {

	s.mu.Lock()

	if session == nil {
		write := s.signOutLocked()
		s.mu.Unlock()
		s.run(ctx, write)
		return
	}

	if s.session != nil && s.session.UserID == session.UserID {
		s.session.Token = session.Token
		s.mu.Unlock()
		return
	}

	// Anonymous edits must reach the local store before it is read for the merge.
	write := s.takePendingLocked()

	if s.state != StateAnonymous {
		// Switching accounts: the previous user's cart must not leak into this one.
		s.lines = nil
		s.products = map[string]models.ProductSnapshot{}
	}

	s.state = StateTransitioning
	s.session = &Session{UserID: session.UserID, Token: session.Token}
	s.replay = nil
	s.epoch++
	epoch := s.epoch
	current := *s.session

	s.mu.Unlock()

	s.run(ctx, write)

	s.logger.Info("Merging local cart into account", slog.String("userId", current.UserID))

	merged, products, err := s.merge(ctx, current)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return
	}

	replayed := len(s.replay) > 0

	if err != nil {
		s.logger.Warn("Cart merge failed, staying anonymous", slog.String("userId", current.UserID), slog.Any("error", err))

		s.state = StateAnonymous
		s.session = nil
		s.replay = nil
		if replayed {
			s.scheduleWriteLocked()
		}
		return
	}

	for _, m := range s.replay {
		merged = m(merged)
	}

	s.lines = merged
	s.addProductsLocked(products)
	s.state = StateAuthenticated
	s.replay = nil

	if replayed {
		s.scheduleWriteLocked()
	}

	s.logger.Info("Cart merged", slog.String("userId", current.UserID), slog.Int("lines", len(merged)))
}

// merge runs the transition: fetch the server cart, read the local cart,
// combine, hydrate, push, then delete the local copy. The local copy is only
// removed once the server accepted the merged cart.
func (s *Synchronizer) merge(ctx context.Context, session Session) ([]models.CartLine, []models.ProductSnapshot, error) {

	ioCtx, cancel := context.WithTimeout(ctx, s.ioTimeout)
	defer cancel()

	server, err := s.remote.Fetch(ioCtx, session)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch server cart: %w", err)
	}

	local, err := s.local.Load(ioCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("read local cart: %w", err)
	}

	merged := models.MergeLines(server, local)

	products, err := s.fetchProducts(ioCtx, merged)
	if err != nil {
		return nil, nil, fmt.Errorf("hydrate merged cart: %w", err)
	}

	merged = dropDelisted(merged, merged, products)

	if err := s.remote.Replace(ioCtx, session, merged); err != nil {
		return nil, nil, fmt.Errorf("push merged cart: %w", err)
	}

	if err := s.local.Delete(ioCtx); err != nil {
		// The next authenticated write clears it again.
		s.logger.Warn("Failed to delete local cart after merge", slog.Any("error", err))
	}

	return merged, products, nil
}

func (s *Synchronizer) signOutLocked() func(context.Context) {
	if s.session == nil {
		return nil
	}

	write := s.takePendingLocked()

	s.epoch++
	s.state = StateAnonymous
	s.session = nil
	s.replay = nil
	// Authenticated writes keep the local store empty, so there is nothing to restore.
	s.lines = nil

	return write
}

// Flush runs a scheduled write immediately. Used on shutdown.
func (s *Synchronizer) Flush(ctx context.Context) {
	s.mu.Lock()
	write := s.takePendingLocked()
	s.mu.Unlock()

	s.run(ctx, write)
}

// Close cancels any scheduled write without running it.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.pendingID++
}

// scheduleWriteLocked cancels the scheduled write, if any, and schedules a new one.
func (s *Synchronizer) scheduleWriteLocked() {
	if s.pending != nil {
		s.pending.Stop()
	}

	s.pendingID++
	id := s.pendingID

	s.pending = s.schedule(s.delay, func() {
		s.fire(id)
	})
}

func (s *Synchronizer) fire(id uint64) {
	s.mu.Lock()
	if id != s.pendingID || s.pending == nil {
		s.mu.Unlock()
		return
	}

	s.pending = nil
	write := s.snapshotWriteLocked()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.ioTimeout)
	defer cancel()

	write(ctx)
}

func (s *Synchronizer) takePendingLocked() func(context.Context) {
	if s.pending == nil {
		return nil
	}

	s.pending.Stop()
	s.pending = nil
	s.pendingID++

	return s.snapshotWriteLocked()
}

func (s *Synchronizer) run(ctx context.Context, write func(context.Context)) {
	if write != nil {
		write(ctx)
	}
}

// snapshotWriteLocked captures the whole view and its target store. The
// returned func persists it; a write older than one already persisted is
// skipped. A failed write is retried by the next mutation only.
func (s *Synchronizer) snapshotWriteLocked() func(context.Context) {
	s.writeSeq++
	seq := s.writeSeq
	lines := cloneLines(s.lines)
	state := s.state

	var session Session
	if s.session != nil {
		session = *s.session
	}

	return func(ctx context.Context) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		if seq < s.lastWritten {
			return
		}
		s.lastWritten = seq

		switch state {
		case StateAuthenticated:
			if err := s.remote.Replace(ctx, session, lines); err != nil {
				s.logger.Warn("Failed to save server cart", slog.String("userId", session.UserID), slog.Any("error", err))
				return
			}

			if err := s.local.Delete(ctx); err != nil {
				s.logger.Warn("Failed to clear local cart", slog.Any("error", err))
			}

		case StateAnonymous:
			var err error
			if len(lines) == 0 {
				err = s.local.Delete(ctx)
			} else {
				err = s.local.Save(ctx, lines)
			}

			if err != nil {
				s.logger.Warn("Failed to save local cart", slog.Any("error", err))
			}
		}
	}
}

func (s *Synchronizer) fetchProducts(ctx context.Context, lines []models.CartLine) ([]models.ProductSnapshot, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	return s.lookup.Lookup(ctx, models.ProductIDs(lines))
}

func (s *Synchronizer) addProductsLocked(products []models.ProductSnapshot) {
	for _, p := range products {
		s.products[p.ProductID] = p
	}
}

// dropDelisted removes lines that were part of requested but have no snapshot.
// Lines added after the lookup started are kept.
func dropDelisted(lines, requested []models.CartLine, products []models.ProductSnapshot) []models.CartLine {
	found := make(map[string]struct{}, len(products))
	for _, p := range products {
		found[p.ProductID] = struct{}{}
	}

	asked := make(map[string]struct{}, len(requested))
	for _, line := range requested {
		asked[line.ProductID] = struct{}{}
	}

	kept := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		_, wasAsked := asked[line.ProductID]
		_, isFound := found[line.ProductID]
		if wasAsked && !isFound {
			continue
		}
		kept = append(kept, line)
	}

	return kept
}

func cloneLines(lines []models.CartLine) []models.CartLine {
	if lines == nil {
		return nil
	}

	return append([]models.CartLine(nil), lines...)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
