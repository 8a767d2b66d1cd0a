package permission

import "math/bits"

const rootMask = Mask64(1) << (maxBits - 1)

// Mask64 is a set of up to 64 capability bits.
type Mask64 uint64

func inRange(bit int) bool { return bit >= 0 && bit < maxBits }

// With returns m with bit added. Out-of-range bits leave m unchanged.
func (m Mask64) With(bit int) Mask64 {
	if !inRange(bit) {
		return m
	}
	return m | Mask64(1)<<bit
}

// Without returns m with bit removed.
func (m Mask64) Without(bit int) Mask64 {
	if !inRange(bit) {
		return m
	}
	return m &^ (Mask64(1) << bit)
}

// Has reports whether bit itself is set.
func (m Mask64) Has(bit int) bool {
	return inRange(bit) && m&(Mask64(1)<<bit) != 0
}

// Grants reports whether m confers bit. When rootReserved is true the highest
// bit confers every capability.
func (m Mask64) Grants(bit int, rootReserved bool) bool {
	if !inRange(bit) {
		return false
	}
	if rootReserved && m&rootMask != 0 {
		return true
	}
	return m.Has(bit)
}

// Len returns the number of set bits.
func (m Mask64) Len() int { return bits.OnesCount64(uint64(m)) }
