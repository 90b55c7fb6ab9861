package state

// WindowWidth is the number of page buttons offered at once.
const WindowWidth = 5

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Bounds returns the 1-based item range of page, clamping the upper bound
// to total.
func Bounds(page, pageSize, total int) (from, to int) {
	from = (page-1)*pageSize + 1
	to = min(page*pageSize, total)
	return from, to
}

// PageWindow returns up to width consecutive page numbers centred on page
// and clamped to [1, totalPages].
func PageWindow(page, totalPages, width int) []int {
	if totalPages <= 0 || width <= 0 {
		return nil
	}
	start := max(1, page-width/2)
	end := min(totalPages, start+width-1)
	start = max(1, end-width+1)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
