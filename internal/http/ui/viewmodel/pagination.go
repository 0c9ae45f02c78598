package viewmodel

// Pagination describes one offset/limit page of a list view.
// StartIndex and EndIndex are 1-based and inclusive; both are zero on an empty page.
type Pagination struct {
	StartIndex int
	EndIndex   int
	TotalCount int

	// Page and Pages are 1-based; Pages is zero when nothing is listed.
	Page  int
	Pages int

	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
}

// MultiPage reports whether page controls are worth showing.
func (p Pagination) MultiPage() bool { return p.Pages > 1 }
