package binfield

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Tier identifies a carryless-multiplication backend.
type Tier uint8

const (
	// TierScalar is the portable branchless shift-and-xor backend,
	// available everywhere.
	TierScalar Tier = iota
	// TierWindow is a 4-bit windowed backend, selected when the host CPU
	// advertises a hardware carryless-multiply unit.
	TierWindow
)

func (t Tier) String() string {
	switch t {
	case TierScalar:
		return "scalar"
	case TierWindow:
		return "window"
	default:
		return "unknown"
	}
}

var (
	tierOnce   sync.Once
	activeTier Tier
)

// ActiveTier returns the multiplication backend in use. The choice is made
// once, lazily, from CPU capabilities and never re-probed.
func ActiveTier() Tier {
	tierOnce.Do(probeTier)
	return activeTier
}

func probeTier() {
	if cpuid.CPU.Supports(cpuid.CLMUL) || cpuid.CPU.Supports(cpuid.PMULL) {
		activeTier = TierWindow
	} else {
		activeTier = TierScalar
	}
}

// ForceTier overrides the backend selection. Intended for tests asserting
// bit-identical products across tiers; not safe to call concurrently with
// multiplications.
func ForceTier(t Tier) {
	tierOnce.Do(func() {})
	activeTier = t
}

// clmul64 returns the 128-bit carryless product of a and b.
func clmul64(a, b uint64) (hi, lo uint64) {
	if ActiveTier() == TierWindow {
		return clmul64Window(a, b)
	}
	return clmul64Scalar(a, b)
}

func clmul64Scalar(a, b uint64) (hi, lo uint64) {
	for i := uint(0); i < 64; i++ {
		mask := -(b >> i & 1)
		lo ^= (a << i) & mask
		hi ^= (a >> (64 - i)) & mask
	}
	return
}

func clmul64Window(a, b uint64) (hi, lo uint64) {
	// tl/th hold the 68-bit carryless products a*w for each 4-bit w.
	var tl, th [16]uint64
	tl[1] = a
	for w := 2; w < 16; w += 2 {
		tl[w] = tl[w/2] << 1
		th[w] = th[w/2]<<1 | tl[w/2]>>63
		tl[w+1] = tl[w] ^ a
		th[w+1] = th[w]
	}
	for i := uint(0); i < 64; i += 4 {
		w := b >> i & 15
		lo ^= tl[w] << i
		hi ^= th[w]<<i | tl[w]>>(64-i)
	}
	return
}
