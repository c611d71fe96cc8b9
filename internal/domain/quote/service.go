package quote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
	"github.com/bitfaber/preventivo/internal/domain/pricing"
)

// ErrNotFound is returned when a quote id is unknown.
var ErrNotFound = errors.New("quote not found")

// Submission is the persistable form of a draft: the item snapshots plus
// the totals computed at submit time.
type Submission struct {
	ID         string // empty for create
	CustomerID string
	Items      []LineItem
	Discount   pricing.Discount
	Totals     pricing.Totals
}

// Store is the remote storage collaborator as the quote service sees it.
// Responses are treated as untrusted partial data; references are always
// re-resolved from the loaded catalogs.
type Store interface {
	ListCustomers(ctx context.Context) ([]catalog.Customer, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListQuotes(ctx context.Context) ([]Quote, error)
	CreateQuote(ctx context.Context, sub Submission) (Quote, error)
	UpdateQuote(ctx context.Context, sub Submission) (Quote, error)
	DeleteQuote(ctx context.Context, id string) error
}

// Service orchestrates quote persistence and keeps the in-memory list the
// UI reads, newest first. A failed call to the collaborator never mutates
// the list.
type Service struct {
	store Store
	log   zerolog.Logger

	mu     sync.Mutex
	quotes []Quote
}

// NewService constructs a Service.
func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Load replaces the in-memory list with the collaborator's current state.
// On failure the previous list is kept.
func (s *Service) Load(ctx context.Context) ([]Quote, error) {
	quotes, err := s.store.ListQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	sortNewestFirst(quotes)

	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()
	return append([]Quote(nil), quotes...), nil
}

// Quotes returns a copy of the in-memory list.
func (s *Service) Quotes() []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Quote(nil), s.quotes...)
}

// Find looks the quote up in the in-memory list, reloading from the
// collaborator once if it is not there.
func (s *Service) Find(ctx context.Context, id string) (Quote, error) {
	if q, ok := s.cached(id); ok {
		return q, nil
	}
	if _, err := s.Load(ctx); err != nil {
		return Quote{}, err
	}
	if q, ok := s.cached(id); ok {
		return q, nil
	}
	return Quote{}, ErrNotFound
}

func (s *Service) cached(id string) (Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.quotes {
		if q.ID == id {
			return q, true
		}
	}
	return Quote{}, false
}

// Customers returns the current customer catalog.
func (s *Service) Customers(ctx context.Context) ([]catalog.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// Products returns the current product catalog.
func (s *Service) Products(ctx context.Context) ([]catalog.Product, error) {
	return s.store.ListProducts(ctx)
}

// Submit validates the draft, recomputes its totals and persists it:
// create when the draft has no id yet, full-replace update otherwise. The
// persisted representation is rebuilt locally by resolving the customer
// from the currently loaded catalog, since collaborator responses may omit
// denormalized references. The in-memory list is only touched after the
// collaborator accepted the write.
func (s *Service) Submit(ctx context.Context, d *Draft) (Quote, error) {
	if err := d.Validate(); err != nil {
		return Quote{}, err
	}

	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("resolve customer catalog: %w", err)
	}

	sub := Submission{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Items:      d.Items.Items(),
		Discount:   d.Discount,
		Totals:     d.Recompute(),
	}

	var persisted Quote
	if sub.ID == "" {
		persisted, err = s.store.CreateQuote(ctx, sub)
	} else {
		persisted, err = s.store.UpdateQuote(ctx, sub)
	}
	if err != nil {
		s.log.Error().Err(err).Str("quote_id", sub.ID).Msg("quote submission failed")
		return Quote{}, fmt.Errorf("submit quote: %w", err)
	}

	merged := mergeSubmitted(persisted, sub, customers)
	s.upsert(merged)
	return merged, nil
}

// Delete removes the quote at the collaborator first, then from the list.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteQuote(ctx, id); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.quotes {
		if q.ID == id {
			s.quotes = append(s.quotes[:i], s.quotes[i+1:]...)
			break
		}
	}
	return nil
}

// mergeSubmitted rebuilds the authoritative representation from the
// submitted values: the id comes from the collaborator, the customer is
// re-resolved by id from the loaded catalog, the item snapshots are the
// ones that were submitted. If the customer vanished from the catalog the
// collaborator's embedded copy (when present) or a bare reference is kept.
func mergeSubmitted(persisted Quote, sub Submission, customers []catalog.Customer) Quote {
	merged := Quote{
		ID:       persisted.ID,
		Customer: catalog.Customer{ID: sub.CustomerID},
		Items:    sub.Items,
		Discount: sub.Discount,
		Totals:   sub.Totals,
	}
	if merged.ID == "" {
		merged.ID = sub.ID
	}
	if persisted.Customer.ID == sub.CustomerID && persisted.Customer.Name != "" {
		merged.Customer = persisted.Customer
	}
	for _, c := range customers {
		if c.ID == sub.CustomerID {
			merged.Customer = c
			break
		}
	}
	return merged
}

func (s *Service) upsert(q Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := false
	for i := range s.quotes {
		if s.quotes[i].ID == q.ID {
			s.quotes[i] = q
			replaced = true
			break
		}
	}
	if !replaced {
		s.quotes = append(s.quotes, q)
	}
	sortNewestFirst(s.quotes)
}

// sortNewestFirst orders by descending id. Storage ids are ObjectId-style
// hex strings whose leading bytes are a timestamp, so descending id is
// newest-first.
func sortNewestFirst(quotes []Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return strings.Compare(quotes[j].ID, quotes[i].ID) < 0
	})
}
