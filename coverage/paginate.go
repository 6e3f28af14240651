// CLAUDE:SUMMARY Generic page windowing with display-friendly 1-based metadata; out-of-range pages clamp.
package coverage

// PageInfo describes the window returned by Paginate. StartIndex/EndIndex
// are 1-based inclusive for display; both are 0 when the input is empty.
type PageInfo struct {
	StartIndex  int  `json:"start_index"`
	EndIndex    int  `json:"end_index"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next_page"`
	HasPrev     bool `json:"has_previous_page"`
}

// Paginate windows items into the requested page. TotalPages is at least 1
// even for an empty input so metadata is always well-defined. An out-of-range
// pageIdx clamps to the last valid page instead of returning an empty slice;
// a pageSize below 1 is raised to 1.
func Paginate[T any](items []T, pageSize, pageIdx int) ([]T, PageInfo) {
	if pageSize < 1 {
		pageSize = 1
	}
	if pageIdx < 0 {
		pageIdx = 0
	}

	totalPages := (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if pageIdx >= totalPages {
		pageIdx = totalPages - 1
	}

	lo := pageIdx * pageSize
	hi := lo + pageSize
	if lo > len(items) {
		lo = len(items)
	}
	if hi > len(items) {
		hi = len(items)
	}

	info := PageInfo{
		CurrentPage: pageIdx,
		TotalPages:  totalPages,
		HasNext:     pageIdx < totalPages-1,
		HasPrev:     pageIdx > 0,
	}
	if hi > lo {
		info.StartIndex = lo + 1
		info.EndIndex = hi
	}
	return items[lo:hi], info
}
