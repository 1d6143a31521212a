package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generate returns a prefixed, lexicographically sortable id.
// Example: btx_01J9ZK3V8N2M4Q6R8S0T2V4X6Y
func Generate(prefix string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	return prefix + "_" + id.String()
}
