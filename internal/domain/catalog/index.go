package catalog

import "strconv"

// Index maps every string form a product is known by (primary key, legacy
// numeric id, legacy string id) to the product record. A product reachable
// through several identifier spaces appears under all of them.
//
// An Index is rebuilt per request from a single batched catalog fetch and
// discarded afterwards; it is never cached or shared across requests.
type Index map[string]Product

// BuildIndex constructs the reverse index for a fetched product set.
func BuildIndex(products []Product) Index {
	idx := make(Index, len(products))
	for _, p := range products {
		if p.ID != "" {
			idx[p.ID] = p
		}
		if p.LegacyID != nil {
			idx[strconv.FormatInt(*p.LegacyID, 10)] = p
		}
		if p.LegacyCode != "" {
			idx[p.LegacyCode] = p
		}
	}
	return idx
}

// Lookup resolves a raw identifier string against the index.
func (ix Index) Lookup(raw string) (Product, bool) {
	p, ok := ix[raw]
	return p, ok
}
