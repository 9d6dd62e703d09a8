package catalog

import (
	"math"
	"strconv"
)

// RefKind tags which identifier space a product reference belongs to.
type RefKind uint8

const (
	// RefPrimary is the document store's native 24-character hex key.
	RefPrimary RefKind = iota
	// RefLegacyNumeric is the numeric id retained from older catalog data.
	RefLegacyNumeric
	// RefLegacyString is the string id retained from older catalog data.
	RefLegacyString
)

// Ref is a classified product reference. Raw always keeps the string form the
// client submitted, which is also the key used for reverse-index lookups.
type Ref struct {
	Kind RefKind
	Raw  string
	// Num is the parsed value when Kind is RefLegacyNumeric.
	Num float64
}

// ClassifyID partitions a raw client-supplied identifier into one of the
// three catalog identifier spaces, in priority order: a 24-character hex
// string is a primary-key candidate, anything that parses as a finite number
// is a legacy-numeric candidate, everything else is a legacy-string
// candidate.
func ClassifyID(raw string) Ref {
	if isHex24(raw) {
		return Ref{Kind: RefPrimary, Raw: raw}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Ref{Kind: RefLegacyNumeric, Raw: raw, Num: f}
	}
	return Ref{Kind: RefLegacyString, Raw: raw}
}

// Partition splits refs into per-space slices for a batched disjunctive
// query. Non-integer numeric references are dropped from the numeric slice:
// legacy numeric ids are integers, so such a reference can never match.
// Duplicates are kept; they are harmless to the lookup.
func Partition(refs []Ref) (primary []string, numeric []int64, legacy []string) {
	for _, r := range refs {
		switch r.Kind {
		case RefPrimary:
			primary = append(primary, r.Raw)
		case RefLegacyNumeric:
			if r.Num == math.Trunc(r.Num) {
				numeric = append(numeric, int64(r.Num))
			}
		case RefLegacyString:
			legacy = append(legacy, r.Raw)
		}
	}
	return primary, numeric, legacy
}

func isHex24(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
