// Package password provides the pluggable credential hashers used by the
// login engine: the legacy Fold digest the original demo shipped with and a
// production argon2id option. Both verify through a comparison that does not
// leak the position of the first differing byte.
package password

// Hasher defines a public type used by goLogin APIs.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// digestEqual compares two digest strings. It short-circuits only on an
// overall length mismatch; otherwise every byte is visited regardless of
// where the inputs first differ. The visited count is returned so tests can
// assert the full-scan property.
func digestEqual(a, b string) (equal bool, visited int) {
	if len(a) != len(b) {
		return false, 0
	}

	var diff byte
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
		visited++
	}
	return diff == 0, visited
}
