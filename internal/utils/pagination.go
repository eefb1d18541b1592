package utils

import "strconv"

// ParsePage interprets a page path parameter, defaulting to the first page.
func ParsePage(value string) int {
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PageBounds converts a 1-based page into an offset/limit pair.
func PageBounds(page, perPage int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage, perPage
}
