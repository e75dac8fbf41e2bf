package shared

import (
	"net/http"
	"strconv"
)

const TotalCountHeader = "X-Total-Count"

// Page is a limit/offset window read from ?limit=&offset=.
type Page struct {
	Limit  int
	Offset int
}

// PageFromRequest falls back to size for a missing or non-positive limit and
// clamps it to ceiling. Negative offsets read as zero.
func PageFromRequest(r *http.Request, size, ceiling int) Page {
	query := r.URL.Query()
	page := Page{Limit: size}
	if n, err := strconv.Atoi(query.Get("limit")); err == nil && n > 0 {
		page.Limit = min(n, ceiling)
	}
	if n, err := strconv.Atoi(query.Get("offset")); err == nil && n > 0 {
		page.Offset = n
	}
	return page
}

func SetTotalCount(w http.ResponseWriter, total int) {
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
}
