package state

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 20

// Mode selects which remote capability a load uses.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "list"
}

// Query holds the listing parameters the store owns.
type Query struct {
	Page     int
	PageSize int
	Search   string // raw text as typed; trimmed only when fetching
	Sort     *catalog.Sort
}

// Mode reports search mode iff the trimmed search text is non-empty.
func (q Query) Mode() Mode {
	if q.SearchText() != "" {
		return ModeSearch
	}
	return ModeList
}

// SearchText returns the trimmed search text sent to the server.
func (q Query) SearchText() string {
	return strings.TrimSpace(q.Search)
}

// Skip returns the number of items before the current page.
func (q Query) Skip() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// Result is the outcome of the latest successful load.
type Result struct {
	Items []catalog.Product
	Total int
}

// SortSaver persists the sort preference; nil removes it.
type SortSaver interface {
	SaveSort(sort *catalog.Sort) error
}

// Options configure a Store.
type Options struct {
	PageSize int
	Sort     *catalog.Sort // seed, usually the persisted preference
	Prefs    SortSaver     // optional
	Logger   *zap.Logger
}

// Store is the single source of truth for the product listing. It is not
// safe for concurrent use: all calls happen on the UI event loop, while
// fetches run elsewhere and report back through Apply.
type Store struct {
	query   Query
	result  Result
	loading bool
	errMsg  string
	updated time.Time

	seq      uint64 // latest issued request
	localIDs int64

	prefs  SortSaver
	logger *zap.Logger
}

// NewStore creates a store on page 1 with an empty search.
func NewStore(opts Options) *Store {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sort := opts.Sort
	if !sort.Valid() {
		sort = nil
	}
	return &Store{
		query: Query{
			Page:     1,
			PageSize: pageSize,
			Sort:     sort.Clone(),
		},
		prefs:  opts.Prefs,
		logger: logger.Named("listing"),
	}
}

// Query returns a copy of the current listing parameters.
func (s *Store) Query() Query {
	q := s.query
	q.Sort = s.query.Sort.Clone()
	return q
}

// SetPage moves to page n and begins a load. Range checking is left to the
// caller.
func (s *Store) SetPage(n int) Request {
	s.query.Page = n
	return s.begin()
}

// SetSearch stores the raw search text, returns to page 1 and begins a load.
func (s *Store) SetSearch(text string) Request {
	s.query.Search = text
	s.query.Page = 1
	return s.begin()
}

// SetSort persists and applies a new sort, keeping the current page, and
// begins a load. A nil sort restores server order.
func (s *Store) SetSort(sort *catalog.Sort) Request {
	if sort != nil && !sort.Valid() {
		s.logger.Warn("Ignoring invalid sort", zap.String("field", sort.Field), zap.String("order", string(sort.Order)))
		sort = nil
	}
	if s.prefs != nil {
		if err := s.prefs.SaveSort(sort); err != nil {
			s.logger.Warn("Persist sort preference failed", zap.Error(err))
		}
	}
	s.query.Sort = sort.Clone()
	return s.begin()
}

// LoadProducts begins a load from the current state without changing it.
func (s *Store) LoadProducts() Request {
	return s.begin()
}

// AddLocal prepends a client-side product to the current page. Nothing is
// sent to the server; the next load replaces it.
func (s *Store) AddLocal(p catalog.Product) catalog.Product {
	if p.ID == 0 {
		s.localIDs--
		p.ID = s.localIDs
	}
	items := make([]catalog.Product, 0, len(s.result.Items)+1)
	items = append(items, p)
	items = append(items, s.result.Items...)
	if len(items) > s.query.PageSize {
		items = items[:s.query.PageSize]
	}
	s.result.Items = items
	s.result.Total++
	s.logger.Info("Product added locally", zap.Int64("id", p.ID), zap.String("title", p.Title))
	return p
}

func (s *Store) begin() Request {
	s.seq++
	s.loading = true
	s.errMsg = ""
	q := s.Query()
	req := Request{
		Seq:  s.seq,
		Mode: q.Mode(),
		Text: q.SearchText(),
		Params: catalog.ListParams{
			Limit: q.PageSize,
			Skip:  q.Skip(),
			Sort:  q.Sort,
		},
	}
	s.logger.Debug("Load started",
		zap.Uint64("seq", req.Seq),
		zap.Stringer("mode", req.Mode),
		zap.Int("page", q.Page),
		zap.Int("skip", req.Params.Skip),
	)
	return req
}

// Apply folds a finished fetch into the store. Outcomes from superseded
// requests are dropped and Apply returns false.
func (s *Store) Apply(o Outcome) bool {
	if o.Seq != s.seq {
		s.logger.Debug("Discarding stale listing response", zap.Uint64("seq", o.Seq), zap.Uint64("latest", s.seq))
		return false
	}
	s.loading = false
	s.updated = time.Now()
	if o.Err != nil {
		s.errMsg = ErrorMessage(o.Err)
		s.logger.Warn("Load failed", zap.Uint64("seq", o.Seq), zap.Error(o.Err))
		return true
	}
	s.errMsg = ""
	s.result = Result{
		Items: cloneProducts(o.Result.Items),
		Total: o.Result.Total,
	}
	if len(s.result.Items) > s.query.PageSize {
		s.result.Items = s.result.Items[:s.query.PageSize]
	}
	return true
}

// Loading reports whether the latest request is still in flight.
func (s *Store) Loading() bool {
	return s.loading
}

// Snapshot represents the latest listing data available to the UI.
type Snapshot struct {
	Query       Query
	Products    []catalog.Product
	Total       int
	Loading     bool
	Error       string
	LastUpdated time.Time
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Query:       s.Query(),
		Products:    cloneProducts(s.result.Items),
		Total:       s.result.Total,
		Loading:     s.loading,
		Error:       s.errMsg,
		LastUpdated: s.updated,
	}
}

// TotalPages returns the page count for the snapshot.
func (s Snapshot) TotalPages() int {
	return TotalPages(s.Total, s.Query.PageSize)
}

// Bounds returns the 1-based range of items shown on the current page.
func (s Snapshot) Bounds() (from, to int) {
	return Bounds(s.Query.Page, s.Query.PageSize, s.Total)
}

// PageWindow returns the page numbers to offer around the current page.
func (s Snapshot) PageWindow() []int {
	return PageWindow(s.Query.Page, s.TotalPages(), WindowWidth)
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}
