// Package ticketid generates ticket identifiers in UUID shape.
//
// The generator is arithmetic, not random: a nanosecond timestamp pushed
// through one LCG step. Ids are unique with overwhelming probability for a
// single process but NOT security-sensitive. The guard trusts everything
// reaching its loopback port; if ids ever cross a trust boundary where
// forgery matters, swap in crypto/rand.
package ticketid

import (
	"fmt"
	"math/bits"
	"time"
)

const lcgMultiplier = 6364136223846793005

// New returns a fresh ticket id. Collisions are not defended against; the
// id space is wide enough that handling them is a documented non-goal.
func New() string {
	return fromNanos(uint64(time.Now().UnixNano()))
}

// fromNanos derives the id from a raw nanosecond value. Split out so tests
// can pin the input.
func fromNanos(t uint64) string {
	hi, lo := bits.Mul64(t, lcgMultiplier)
	lo, carry := bits.Add64(lo, 1, 0)
	hi += carry

	return fmt.Sprintf("%08x-%04x-4%03x-%04x-%012x",
		uint32(hi>>32),
		uint16(hi>>16),
		uint16(hi&0x0fff),
		uint16((lo>>48)&0x3fff|0x8000),
		lo&0xffffffffffff,
	)
}
