package lenzing

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

// errShortBatch marks a batch cell with too few tokens to locate the
// batch/granule boundary. Callers fall back to treating the whole cell as
// the granule description.
var errShortBatch = eris.New("batch cell too short to split")

// splitGranza extracts the granule (raw material) description from the
// combined batch+granule cell. The cell carries no delimiter between the
// lot code and the granule type, so the boundary is inferred from token
// shape: a third token containing a digit is still part of the lot code,
// and the granule starts after it.
func splitGranza(batch string) (string, error) {
	tokens := strings.Fields(batch)
	if len(tokens) < 2 {
		return "", nil
	}
	if len(tokens) < 3 {
		return "", errShortBatch
	}
	if anyDigit(tokens[2]) {
		return strings.Join(tokens[3:], " "), nil
	}
	return strings.Join(tokens[2:], " "), nil
}

// anyDigit reports whether s contains at least one decimal digit.
func anyDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
