package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/state"
)

// Sortable column fields as understood by the catalog API.
const (
	fieldTitle  = "title"
	fieldBrand  = "brand"
	fieldRating = "rating"
	fieldPrice  = "price"
)

// Column widths; the name column takes what is left.
const (
	colVendorWidth = 16
	colSKUWidth    = 14
	colRatingWidth = 11
	colPriceWidth  = 12
	colMinName     = 16
)

const lowRatingThreshold = 3.0

// nextSort cycles a column through asc, desc and back to server order.
// Selecting a different column starts at asc.
func nextSort(current *catalog.Sort, field string) *catalog.Sort {
	if current == nil || current.Field != field {
		return &catalog.Sort{Field: field, Order: catalog.OrderAsc}
	}
	if current.Order == catalog.OrderAsc {
		return &catalog.Sort{Field: field, Order: catalog.OrderDesc}
	}
	return nil
}

// sortIndicator returns the arrow shown next to a sorted column header.
func sortIndicator(current *catalog.Sort, field string) string {
	if current == nil || current.Field != field {
		return ""
	}
	if current.Order == catalog.OrderDesc {
		return "▼"
	}
	return "▲"
}

// sortLabel describes the active sort for the table title.
func sortLabel(current *catalog.Sort) string {
	if current == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", current.Field, sortIndicator(current, current.Field))
}

// formatRating renders a rating as x.x/5 and reports whether it is low.
func formatRating(r *float64) (string, bool) {
	if r == nil {
		return "no rating", false
	}
	return fmt.Sprintf("%.1f/5", *r), *r < lowRatingThreshold
}

func formatPrice(p catalog.Product) string {
	return "$" + p.Price.StringFixed(2)
}

// paginationSummary returns "Showing from-to of total", or "" when empty.
func paginationSummary(snap state.Snapshot) string {
	if snap.Total <= 0 {
		return ""
	}
	from, to := snap.Bounds()
	return fmt.Sprintf("Showing %d-%d of %d", from, to, snap.Total)
}

// handleProductsKey processes keyboard input on the products screen.
func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	snap := m.snapshot
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Escape):
		if strings.TrimSpace(m.search.Value()) != "" {
			m.search.SetValue("")
			return m, m.begin(m.store.SetSearch(""))
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.begin(m.store.LoadProducts())
	case key.Matches(msg, m.keys.AddProduct):
		form := newProductForm()
		m.modal = form
		return m, form.Init()
	case key.Matches(msg, m.keys.Activity):
		m.screen = screenActivity
		return m, m.refreshActivity()
	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.SortTitle):
		return m, m.cycleSort(fieldTitle)
	case key.Matches(msg, m.keys.SortBrand):
		return m, m.cycleSort(fieldBrand)
	case key.Matches(msg, m.keys.SortRating):
		return m, m.cycleSort(fieldRating)
	case key.Matches(msg, m.keys.SortPrice):
		return m, m.cycleSort(fieldPrice)
	case key.Matches(msg, m.keys.ClearSort):
		if snap.Query.Sort == nil {
			return m, nil
		}
		return m, m.begin(m.store.SetSort(nil))

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(snap.Products)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.goToPage(snap.Query.Page - 1)
	case key.Matches(msg, m.keys.NextPage):
		return m, m.goToPage(snap.Query.Page + 1)
	case key.Matches(msg, m.keys.FirstPage):
		return m, m.goToPage(1)
	case key.Matches(msg, m.keys.LastPage):
		return m, m.goToPage(snap.TotalPages())
	}
	return m, nil
}

// handleSearchKey routes keys to the focused search input.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.search.Blur()
		m.search.debounce.Cancel()
		return m, m.commitSearch()
	case key.Matches(msg, m.keys.Escape):
		m.search.Blur()
		return m, nil
	}
	return m, m.search.Update(msg)
}

// commitSearch pushes the search text into the store if it changed.
func (m *Model) commitSearch() tea.Cmd {
	text := m.search.Value()
	if text == m.store.Query().Search {
		return nil
	}
	return m.begin(m.store.SetSearch(text))
}

func (m *Model) cycleSort(field string) tea.Cmd {
	return m.begin(m.store.SetSort(nextSort(m.snapshot.Query.Sort, field)))
}

// goToPage requests page n when it exists and differs from the current one.
func (m *Model) goToPage(n int) tea.Cmd {
	snap := m.snapshot
	if n < 1 || n > snap.TotalPages() || n == snap.Query.Page {
		return nil
	}
	return m.begin(m.store.SetPage(n))
}

// renderProducts renders the products screen below the header.
func (m Model) renderProducts() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	var sections []string
	if snap.Error != "" {
		sections = append(sections, styles.ErrorBanner.Width(m.width).Render("! "+snap.Error))
	}
	if m.notice != "" {
		sections = append(sections, styles.Notice.Width(m.width).Render(m.notice))
	}
	sections = append(sections, m.renderSearchLine())

	footer := m.renderPagination()
	used := 2 + len(sections) // header + command bar
	if footer != "" {
		used++
	}
	boxHeight := max(m.height-used, 5)

	title := "Products"
	if text := snap.Query.SearchText(); text != "" {
		title = fmt.Sprintf("Search: %q", truncate(text, 30))
	}
	if label := sortLabel(snap.Query.Sort); label != "" {
		title += " · " + label
	}
	sections = append(sections, m.renderTitledBox(title, m.renderProductTable(m.width-2, boxHeight-2), m.width, boxHeight, !m.search.Focused()))

	if footer != "" {
		sections = append(sections, footer)
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderSearchLine() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()
	line := m.search.input.View()
	if m.search.debounce.Pending() {
		line += bg.Space() + bg.Render("…", styles.FaintText)
	}
	if m.snapshot.Loading {
		line += bg.Spaces(2) + m.spinner.View() + bg.Space() + bg.Render("Loading", styles.MutedText)
	}
	return bg.FillLine(line, m.width)
}

type tableLayout struct {
	name    int
	showSKU bool
}

func (m Model) tableLayout(width int) tableLayout {
	l := tableLayout{showSKU: m.width >= LayoutCompactWidth}
	fixed := colVendorWidth + colRatingWidth + colPriceWidth + 4 // gaps
	if l.showSKU {
		fixed += colSKUWidth + 1
	}
	l.name = max(width-fixed, colMinName)
	return l
}

// renderProductTable renders the header row and product rows.
func (m Model) renderProductTable(width, height int) string {
	styles := m.theme.Styles()
	snap := m.snapshot
	layout := m.tableLayout(width)
	bgColor := m.theme.SurfaceAlt
	if !m.search.Focused() {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)

	header := func(label, field string, w int, right bool) string {
		text := label
		if ind := sortIndicator(snap.Query.Sort, field); ind != "" {
			text += " " + ind
		}
		if right {
			return padLeft(truncate(text, w), w)
		}
		return fit(text, w)
	}
	cells := []string{
		header("Name [1]", fieldTitle, layout.name, false),
		header("Vendor [2]", fieldBrand, colVendorWidth, false),
	}
	if layout.showSKU {
		cells = append(cells, fit("SKU", colSKUWidth))
	}
	cells = append(cells,
		header("Rating [3]", fieldRating, colRatingWidth, true),
		header("Price [4]", fieldPrice, colPriceWidth, true),
	)
	lines := []string{
		bg.FillLine(bg.Render(strings.Join(cells, " "), styles.AccentText.Bold(true)), width),
		bg.FillLine(bg.Render(strings.Repeat("─", width), styles.FaintText), width),
	}

	if len(snap.Products) == 0 {
		msg := "No products"
		switch {
		case snap.Loading:
			msg = "Loading products..."
		case snap.Error != "":
			msg = "Products unavailable"
		case snap.Query.SearchText() != "":
			msg = "No products match the search"
		}
		lines = append(lines, bg.FillLine(bg.Render(msg, styles.MutedText), width))
		return strings.Join(lines, "\n")
	}

	for i, p := range snap.Products {
		if len(lines)+2 > height {
			break
		}
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		top, bottom := m.formatProductRow(p, layout, rowBg, selected)
		lines = append(lines, NewBgStyle(rowBg).FillLine(top, width), NewBgStyle(rowBg).FillLine(bottom, width))
	}
	return strings.Join(lines, "\n")
}

// formatProductRow renders a product as two lines: the values, then the
// category under the title.
func (m Model) formatProductRow(p catalog.Product, layout tableLayout, bgColor string, selected bool) (string, string) {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	textStyle, mutedStyle, ratingStyle := styles.Text, styles.MutedText, styles.Text
	rating, low := formatRating(p.Rating)
	switch {
	case selected:
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		textStyle, mutedStyle, ratingStyle = sel, sel, sel
	case p.Rating == nil:
		ratingStyle = styles.FaintText
	case low:
		ratingStyle = styles.DangerText
	}

	parts := []string{
		bg.Render(fit(placeholder(p.Title, "no title"), layout.name), textStyle),
		bg.Render(fit(placeholder(p.Brand, "no vendor"), colVendorWidth), vendorStyle(p, textStyle, mutedStyle)),
	}
	if layout.showSKU {
		parts = append(parts, bg.Render(fit(placeholder(p.SKU, "no SKU"), colSKUWidth), mutedStyle))
	}
	parts = append(parts,
		bg.Render(padLeft(rating, colRatingWidth), ratingStyle),
		bg.Render(padLeft(formatPrice(p), colPriceWidth), textStyle),
	)
	top := strings.Join(parts, bg.Space())
	bottom := bg.Render(fit(placeholder(p.Category, "no category"), layout.name), mutedStyle)
	return top, bottom
}

func vendorStyle(p catalog.Product, text, muted lipgloss.Style) lipgloss.Style {
	if strings.TrimSpace(p.Brand) == "" {
		return muted
	}
	return text
}

// renderPagination renders "Showing a-b of n" and the page window. It is
// empty when there are no results.
func (m Model) renderPagination() string {
	snap := m.snapshot
	summary := paginationSummary(snap)
	if summary == "" {
		return ""
	}
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	page := snap.Query.Page
	totalPages := snap.TotalPages()
	arrow := func(label string, enabled bool) string {
		if enabled {
			return bg.Render(label, styles.AccentText)
		}
		return bg.Render(label, styles.FaintText)
	}

	parts := []string{arrow("‹", page > 1)}
	for _, p := range snap.PageWindow() {
		label := fmt.Sprintf("%d", p)
		if p == page {
			parts = append(parts, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
		} else {
			parts = append(parts, bg.Render(label, styles.MutedText))
		}
	}
	parts = append(parts, arrow("›", page < totalPages))

	left := bg.Render(summary, styles.MutedText)
	right := bg.Join(parts, " ")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}
