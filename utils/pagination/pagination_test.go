package pagination

import "testing"

func TestComputeFirstPages(t *testing.T) {
	w := Compute(1, 200)
	if got, want := w.Pages, []int{1, 2, 3, 4, 5}; !equal(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	if w.HasPrev {
		t.Error("HasPrev = true on first page")
	}
	if !w.HasNext {
		t.Error("HasNext = false with pages remaining")
	}

	// Page 2 is still inside the left clamp.
	w = Compute(2, 200)
	if got, want := w.Pages, []int{1, 2, 3, 4, 5}; !equal(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	if !w.HasPrev {
		t.Error("HasPrev = false on page 2")
	}
}

func TestComputeCentered(t *testing.T) {
	w := Compute(50, 200)
	if got, want := w.Pages, []int{48, 49, 50, 51, 52}; !equal(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
}

func TestComputeShrinksAtEnd(t *testing.T) {
	// The window shrinks near the last page instead of shifting back.
	w := Compute(500, 500)
	if got, want := w.Pages, []int{498, 499, 500}; !equal(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	if w.HasNext {
		t.Error("HasNext = true on last page")
	}
	if !w.HasPrev {
		t.Error("HasPrev = false on last page")
	}

	w = Compute(499, 500)
	if got, want := w.Pages, []int{497, 498, 499, 500}; !equal(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
}

func TestComputeSinglePage(t *testing.T) {
	w := Compute(1, 1)
	if got, want := w.Pages, []int{1}; !equal(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	if w.HasPrev || w.HasNext {
		t.Errorf("HasPrev = %v, HasNext = %v on a single page", w.HasPrev, w.HasNext)
	}
}

func TestComputeClampsBadInput(t *testing.T) {
	w := Compute(0, 0)
	if w.Current != 1 || w.TotalPages != 1 {
		t.Fatalf("Current = %d, TotalPages = %d, want 1, 1", w.Current, w.TotalPages)
	}
	w = Compute(90, 10)
	if w.Current != 10 {
		t.Fatalf("Current = %d, want clamped to 10", w.Current)
	}
}

func TestComputeWindowProperties(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			w := Compute(current, total)
			if len(w.Pages) == 0 || len(w.Pages) > windowSize {
				t.Fatalf("Compute(%d, %d): window length %d", current, total, len(w.Pages))
			}
			found := false
			for i, p := range w.Pages {
				if p < 1 || p > total {
					t.Fatalf("Compute(%d, %d): page %d out of range", current, total, p)
				}
				if i > 0 && p != w.Pages[i-1]+1 {
					t.Fatalf("Compute(%d, %d): pages not contiguous: %v", current, total, w.Pages)
				}
				if p == current {
					found = true
				}
			}
			if !found {
				t.Fatalf("Compute(%d, %d): current page missing from %v", current, total, w.Pages)
			}
		}
	}
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
