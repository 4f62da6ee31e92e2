package resources

import (
	"net/url"
	"strconv"

	"github.com/dkoval/crmsync/cache"
)

// pageQuery merges page parameters into q. Zero values mean
// "server default" and are omitted.
func pageQuery(q url.Values, p cache.Page) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if p.Number > 0 {
		q.Set("page", strconv.Itoa(p.Number))
	}
	if p.Size > 0 {
		q.Set("page_size", strconv.Itoa(p.Size))
	}
	return q
}
