package content

import "regexp"

// Content atom ids follow the format <category-prefix>-<sequence>[-V<variant>],
// e.g. SUM-01, CH-05-V2, P1-OV, P1-B02-V3. The variant suffix is exactly a
// trailing "-V" followed by one or more digits; anything else is part of the
// base identity.
var variantSuffix = regexp.MustCompile(`-V[0-9]+$`)

// BaseID strips the trailing variant marker from a content id, yielding the
// variant-independent identity shared by all wordings of the same achievement.
// Ids without a variant marker are returned unchanged. BaseID is pure and
// idempotent; all other code must call it rather than re-deriving the
// convention.
func BaseID(id string) (base string) {
	base = variantSuffix.ReplaceAllString(id, "")
	return base
}
