package ui

import (
	"context"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/forms"
	"github.com/five82/stockroom/internal/session"
	"github.com/five82/stockroom/internal/state"
)

type fakeAPI struct {
	logins   int
	products []catalog.Product
	listed   []catalog.ListParams
}

// ListProducts serves f.products, ordering by price when asked to.
func (f *fakeAPI) ListProducts(_ context.Context, params catalog.ListParams) (catalog.ProductPage, error) {
	f.listed = append(f.listed, params)
	items := slices.Clone(f.products)
	if s := params.Sort; s != nil && s.Field == fieldPrice {
		slices.SortFunc(items, func(a, b catalog.Product) int {
			if s.Order == catalog.OrderDesc {
				return b.Price.Cmp(a.Price)
			}
			return a.Price.Cmp(b.Price)
		})
	}
	return catalog.ProductPage{Products: items, Total: len(items), Limit: params.Limit}, nil
}

func (f *fakeAPI) SearchProducts(context.Context, string, catalog.ListParams) (catalog.ProductPage, error) {
	return catalog.ProductPage{}, nil
}

func (f *fakeAPI) Login(context.Context, catalog.LoginRequest) (*catalog.LoginResponse, error) {
	f.logins++
	return &catalog.LoginResponse{Username: "emilys", AccessToken: "token"}, nil
}

type recordingSaver struct {
	sorts []*catalog.Sort
}

func (r *recordingSaver) SaveSort(s *catalog.Sort) error {
	r.sorts = append(r.sorts, s.Clone())
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// signedInModel returns a model already on the products screen with one
// page of results applied.
func signedInModel(t *testing.T, total int, saver state.SortSaver) Model {
	t.Helper()
	sessions := session.NewStore("", nil)
	if _, err := sessions.Begin(&catalog.LoginResponse{Username: "emilys", AccessToken: "token"}, false); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	store := state.NewStore(state.Options{PageSize: 20, Prefs: saver})
	m := New(Options{API: &fakeAPI{}, Store: store, Session: sessions})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.initial == nil {
		t.Fatalf("restored session should issue an initial load")
	}
	items := make([]catalog.Product, 0, 20)
	for i := 1; i <= min(total, 20); i++ {
		items = append(items, catalog.Product{ID: int64(i), Title: "item"})
	}
	m, _ = update(t, m, listingMsg(state.Outcome{Seq: m.initial.Seq, Result: state.Result{Items: items, Total: total}}))
	return m
}

func TestNew_StartsOnLoginWithoutSession(t *testing.T) {
	m := New(Options{})
	if m.screen != screenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if m.initial != nil {
		t.Fatalf("no listing request expected before sign-in")
	}
}

func TestLogin_BlankSubmitShowsFieldErrors(t *testing.T) {
	api := &fakeAPI{}
	m := New(Options{API: api})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.login.errs.Get(forms.FieldUsername) != "Enter login" || m.login.errs.Get(forms.FieldPassword) != "Enter password" {
		t.Fatalf("errs = %v, want login and password errors", m.login.errs)
	}
	if m.login.submitting {
		t.Fatalf("invalid form must not submit")
	}
	if api.logins != 0 {
		t.Fatalf("Login called %d times, want 0", api.logins)
	}
}

func TestLogin_ValidSubmitStartsRequest(t *testing.T) {
	m := New(Options{API: &fakeAPI{}})
	m.login.username.SetValue("  emilys ")
	m.login.password.SetValue("emilyspass")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.login.submitting {
		t.Fatalf("valid form should be submitting")
	}
	if cmd == nil {
		t.Fatalf("expected a login command")
	}
}

func TestLogin_ResultSwitchesToProducts(t *testing.T) {
	m := New(Options{API: &fakeAPI{}})
	m.login.submitting = true

	m, cmd := update(t, m, loginResultMsg{resp: &catalog.LoginResponse{Username: "emilys", AccessToken: "token"}})
	if m.screen != screenProducts {
		t.Fatalf("screen = %v, want products", m.screen)
	}
	if _, ok := m.sessions.Current(); !ok {
		t.Fatalf("session should be active")
	}
	if !m.snapshot.Loading || cmd == nil {
		t.Fatalf("sign-in should start loading products")
	}
}

func TestLogin_FailureShowsServerMessage(t *testing.T) {
	m := New(Options{API: &fakeAPI{}})
	m.login.submitting = true

	m, _ = update(t, m, loginResultMsg{err: &catalog.APIError{Status: 400, Message: "Invalid credentials"}})
	if m.screen != screenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if m.login.serverErr != "Invalid credentials" || m.login.submitting {
		t.Fatalf("login = %+v, want Invalid credentials and not submitting", m.login)
	}
}

func TestSortKeysCycleAndPersist(t *testing.T) {
	saver := &recordingSaver{}
	m := signedInModel(t, 95, saver)

	m, cmd := update(t, m, runes("4"))
	if got := m.store.Query().Sort; !got.Equal(&catalog.Sort{Field: "price", Order: catalog.OrderAsc}) {
		t.Fatalf("sort = %#v, want price asc", got)
	}
	if cmd == nil || !m.snapshot.Loading {
		t.Fatalf("sort change should start a load")
	}
	if sortIndicator(m.snapshot.Query.Sort, fieldPrice) != "▲" {
		t.Fatalf("indicator should show ascending")
	}

	m, _ = update(t, m, runes("4"))
	if got := m.store.Query().Sort; !got.Equal(&catalog.Sort{Field: "price", Order: catalog.OrderDesc}) {
		t.Fatalf("sort = %#v, want price desc", got)
	}
	if sortIndicator(m.snapshot.Query.Sort, fieldPrice) != "▼" {
		t.Fatalf("indicator should show descending")
	}

	m, _ = update(t, m, runes("4"))
	if m.store.Query().Sort != nil {
		t.Fatalf("third press should clear the sort")
	}
	if len(saver.sorts) != 3 || saver.sorts[2] != nil {
		t.Fatalf("saved sorts = %#v, want asc, desc, nil", saver.sorts)
	}
}

func TestPagingKeys(t *testing.T) {
	m := signedInModel(t, 95, nil)

	m, cmd := update(t, m, runes("l"))
	if m.store.Query().Page != 2 || cmd == nil {
		t.Fatalf("page = %d, want 2 after next page", m.store.Query().Page)
	}

	m, _ = update(t, m, runes("G"))
	if m.store.Query().Page != 5 {
		t.Fatalf("page = %d, want 5 after last page", m.store.Query().Page)
	}
	m, cmd = update(t, m, runes("l"))
	if m.store.Query().Page != 5 || cmd != nil {
		t.Fatalf("next on last page should be a no-op")
	}

	m, _ = update(t, m, runes("g"))
	if m.store.Query().Page != 1 {
		t.Fatalf("page = %d, want 1 after first page", m.store.Query().Page)
	}
}

func TestListingMsg_StaleResponseIgnored(t *testing.T) {
	m := signedInModel(t, 95, nil)
	stale := m.initial.Seq

	m, _ = update(t, m, runes("l"))
	m, _ = update(t, m, listingMsg(state.Outcome{Seq: stale, Result: state.Result{Total: 1}}))
	if m.snapshot.Total != 95 || !m.snapshot.Loading {
		t.Fatalf("snapshot = total %d loading %v, want 95 still loading", m.snapshot.Total, m.snapshot.Loading)
	}
}

func TestSearchDebounce_OnlyLatestTickCommits(t *testing.T) {
	m := signedInModel(t, 95, nil)

	m, _ = update(t, m, runes("/"))
	if !m.search.Focused() {
		t.Fatalf("search should be focused")
	}
	m, _ = update(t, m, runes("p"))
	first := m.search.debounce.token
	m, _ = update(t, m, runes("h"))
	latest := m.search.debounce.token

	m, cmd := update(t, m, searchDebounceMsg{token: first})
	if cmd != nil || m.store.Query().Search != "" {
		t.Fatalf("stale tick must not search")
	}
	m, cmd = update(t, m, searchDebounceMsg{token: latest})
	if m.store.Query().Search != "ph" || cmd == nil {
		t.Fatalf("search = %q, want ph", m.store.Query().Search)
	}
	if m.store.Query().Page != 1 {
		t.Fatalf("search should reset to page 1")
	}
}

func TestSearchEnterCommitsImmediately(t *testing.T) {
	m := signedInModel(t, 95, nil)
	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, runes("x"))
	pending := m.search.debounce.token

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.store.Query().Search != "x" || m.search.Focused() {
		t.Fatalf("enter should commit and blur")
	}
	if _, cmd := update(t, m, searchDebounceMsg{token: pending}); cmd != nil {
		t.Fatalf("cancelled tick should do nothing")
	}
}

func TestLogoutCancelsPendingSearch(t *testing.T) {
	m := signedInModel(t, 95, nil)
	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, runes("x"))
	pending := m.search.debounce.token
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, runes("O"))

	m, cmd := update(t, m, searchDebounceMsg{token: pending})
	if cmd != nil {
		t.Fatalf("tick after logout should not start a fetch")
	}
	if m.screen != screenLogin || m.store.Query().Search != "" || m.snapshot.Loading {
		t.Fatalf("screen %v search %q loading %v, want login with no search", m.screen, m.store.Query().Search, m.snapshot.Loading)
	}
}

func TestSortedFetchShowsSourceOrder(t *testing.T) {
	api := &fakeAPI{products: []catalog.Product{
		{ID: 1, Title: "Mug", Price: decimal.RequireFromString("9.50")},
		{ID: 2, Title: "Lamp", Price: decimal.RequireFromString("42.00")},
		{ID: 3, Title: "Desk", Price: decimal.RequireFromString("199.99")},
	}}
	m := New(Options{API: api})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m.store.SetSort(&catalog.Sort{Field: fieldPrice, Order: catalog.OrderDesc})
	req := m.store.LoadProducts()
	m.syncSnapshot()
	m, _ = update(t, m, m.fetchCmd(req)())

	if len(api.listed) != 1 || !api.listed[0].Sort.Equal(&catalog.Sort{Field: fieldPrice, Order: catalog.OrderDesc}) {
		t.Fatalf("listed params = %#v, want one price desc request", api.listed)
	}
	var titles []string
	for _, p := range m.snapshot.Products {
		titles = append(titles, p.Title)
	}
	if strings.Join(titles, ",") != "Desk,Lamp,Mug" {
		t.Fatalf("products = %v, want Desk,Lamp,Mug", titles)
	}
	if m.snapshot.Loading || m.snapshot.Total != 3 {
		t.Fatalf("snapshot = loading %v total %d, want loaded 3", m.snapshot.Loading, m.snapshot.Total)
	}
	if sortIndicator(m.snapshot.Query.Sort, fieldPrice) != "▼" {
		t.Fatalf("price column should show descending indicator")
	}
}

func TestProductAddedMsg(t *testing.T) {
	m := signedInModel(t, 95, nil)
	m.selectedRow = 5

	m, cmd := update(t, m, productAddedMsg{product: catalog.Product{Title: "Lamp", Price: decimal.RequireFromString("19.99")}})
	if m.snapshot.Total != 96 || m.snapshot.Products[0].Title != "Lamp" {
		t.Fatalf("snapshot = total %d first %q, want 96 Lamp", m.snapshot.Total, m.snapshot.Products[0].Title)
	}
	if m.notice != "Product added" || cmd == nil {
		t.Fatalf("notice = %q, want Product added", m.notice)
	}
	if m.selectedRow != 0 {
		t.Fatalf("selection should move to the new product")
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m := signedInModel(t, 95, nil)
	m, _ = update(t, m, runes("O"))
	if m.screen != screenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if _, ok := m.sessions.Current(); ok {
		t.Fatalf("session should be cleared")
	}
}

func TestRenderProducts_ShowsPaginationAndIndicator(t *testing.T) {
	m := signedInModel(t, 95, nil)
	m, _ = update(t, m, runes("3"))

	view := m.View()
	if !strings.Contains(view, "Showing 1-20 of 95") {
		t.Fatalf("view missing pagination summary:\n%s", view)
	}
	if !strings.Contains(view, "rating ▲") {
		t.Fatalf("view missing rating sort indicator:\n%s", view)
	}
}

func TestRenderProducts_HidesPaginationWhenEmpty(t *testing.T) {
	m := signedInModel(t, 0, nil)
	if got := m.renderPagination(); got != "" {
		t.Fatalf("renderPagination() = %q, want empty", got)
	}
	if !strings.Contains(m.View(), "No products") {
		t.Fatalf("empty table should say so")
	}
}
