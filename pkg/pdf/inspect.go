package pdf

// HasImageContent reports whether any page of doc references a raster image,
// directly or through a form XObject. Resources that could not be resolved
// are skipped: a damaged entry is neither proof of an image nor of its absence.
func HasImageContent(doc *Document) bool {
	if doc == nil {
		return false
	}
	return pagesHaveImages(doc.Pages())
}

func pagesHaveImages(pages []*Page) bool {
	for _, page := range pages {
		if page.HasImages() {
			return true
		}
	}
	return false
}

// ImagePages returns the numbers of the pages that reference an image
func ImagePages(doc *Document) []int {
	var numbers []int
	for _, page := range doc.Pages() {
		if page.HasImages() {
			numbers = append(numbers, page.Number)
		}
	}
	return numbers
}
