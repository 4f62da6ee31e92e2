package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Views an entity kind can be cached under. List and detail are the primary
// views; activity and contacts are derived views keyed by entity id whose
// contents the server regenerates on every mutation.
const (
	ViewList     = "list"
	ViewDetail   = "detail"
	ViewActivity = "activity"
	ViewContacts = "contacts"
)

// Page identifies one page of a list result.
type Page struct {
	Number int
	Size   int
}

// Key is the structural identity of one cached result set. Identity is
// structural equality of the components; String renders the canonical form
// used as the map key.
type Key struct {
	Kind   string
	View   string
	Filter map[string]string
	Page   Page
}

// ListKey addresses a list view of kind under the given filter and page.
func ListKey(kind string, filter map[string]string, page Page) Key {
	return Key{Kind: kind, View: ViewList, Filter: filter, Page: page}
}

// DetailKey addresses the detail view of one entity.
func DetailKey(kind, id string) Key {
	return Key{Kind: kind, View: ViewDetail, Filter: map[string]string{"id": id}}
}

// DerivedKey addresses a derived view (activity log, contact history) of one
// entity.
func DerivedKey(kind, view, id string) Key {
	return Key{Kind: kind, View: view, Filter: map[string]string{"id": id}}
}

// String renders the canonical identity: kind/view, filter pairs sorted by
// name, then the page. Equal keys always render identically.
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(k.Kind)
	sb.WriteByte('/')
	sb.WriteString(k.View)

	if len(k.Filter) > 0 {
		names := make([]string, 0, len(k.Filter))
		for name := range k.Filter {
			names = append(names, name)
		}
		sort.Strings(names)
		sep := byte('?')
		for _, name := range names {
			sb.WriteByte(sep)
			sep = '&'
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(k.Filter[name])
		}
	}

	if k.Page != (Page{}) {
		fmt.Fprintf(&sb, "#page=%d,size=%d", k.Page.Number, k.Page.Size)
	}
	return sb.String()
}

// OfKind matches every key of the given kind, any view.
func OfKind(kind string) func(Key) bool {
	return func(k Key) bool { return k.Kind == kind }
}

// ListsOf matches every list view of the given kind.
func ListsOf(kind string) func(Key) bool {
	return func(k Key) bool { return k.Kind == kind && k.View == ViewList }
}

// DerivedOf matches the derived views (activity, contacts) of one entity.
func DerivedOf(kind, id string) func(Key) bool {
	return func(k Key) bool {
		if k.Kind != kind || (k.View != ViewActivity && k.View != ViewContacts) {
			return false
		}
		return k.Filter["id"] == id
	}
}
