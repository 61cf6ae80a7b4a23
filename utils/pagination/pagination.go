// Package pagination computes the numbered-page window shown alongside
// catalog results.
package pagination

// windowSize is the maximum number of page buttons shown at once.
const windowSize = 5

// Window is a contiguous run of page numbers centered on the current page.
type Window struct {
	Current    int   `json:"current"`
	TotalPages int   `json:"totalPages"`
	Pages      []int `json:"pages"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

// Compute builds the window for current out of totalPages. The window starts
// at current minus half the window size, clamped to 1, and never extends past
// the final page. Near the end the window shrinks rather than shifting back,
// so the first page shown is a function of current alone.
func Compute(current, totalPages int) Window {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := current - windowSize/2
	if start < 1 {
		start = 1
	}
	end := start + windowSize - 1
	if end > totalPages {
		end = totalPages
	}

	pages := make([]int, 0, windowSize)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return Window{
		Current:    current,
		TotalPages: totalPages,
		Pages:      pages,
		HasPrev:    current > 1,
		HasNext:    current < totalPages,
	}
}
