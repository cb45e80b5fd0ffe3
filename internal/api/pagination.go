package api

import (
	"fmt"     // Link formatting
	"strconv" // String conversion

	"wealthwise/internal/store" // Page type

	"github.com/gin-gonic/gin" // Gin web framework
)

// pageFromQuery reads page and page_size, falling back to the defaults
func pageFromQuery(c *gin.Context) store.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return store.NewPage(number, size)
}

// paginated wraps one page of results as {count, next, previous, <key>}
func paginated(c *gin.Context, key string, page store.Page, total int64, results any) gin.H {
	var next, previous *string
	if page.HasNext(total) {
		s := pageLink(c, page.Number+1, page.Size)
		next = &s
	}
	if page.HasPrevious() {
		s := pageLink(c, page.Number-1, page.Size)
		previous = &s
	}
	return gin.H{
		"count":    total,    // Total rows in scope
		"next":     next,     // Link to the next page or null
		"previous": previous, // Link to the previous page or null
		key:        results,  // Rows of this page
	}
}

func pageLink(c *gin.Context, number, size int) string {
	return fmt.Sprintf("%s?page=%d&page_size=%d", c.Request.URL.Path, number, size)
}

// pathID parses the :id parameter; malformed ids are reported as not found
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
