// Package identity supplies session display names for participants that
// arrive without one. The chat core treats the name as opaque input; this
// package is the only place names are minted.
package identity

import (
	"fmt"
	"math/rand"
	"time"
)

// GuestPrefix starts every generated display name.
const GuestPrefix = "Guest"

// Generate returns a guest display name derived from the wall-clock time
// plus a random suffix, e.g. "Guest1542077381". Names are not guaranteed
// unique; the hub tolerates duplicates by design.
func Generate(now time.Time) string {
	return fmt.Sprintf("%s%s%04d", GuestPrefix, now.Format("150405"), rand.Intn(10000))
}
