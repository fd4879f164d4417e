package ecs

import "math/bits"

// ManagerStats is a point-in-time summary of an EntityManager.
type ManagerStats struct {
	Live     int
	Capacity int
	Width    uint
	// BitPopulation[b] is the number of live entities with bit b set.
	BitPopulation []int
}

// CollectStats walks every live signature. It is O(Len() * words per signature).
func (m *EntityManager) CollectStats() ManagerStats {
	stats := ManagerStats{
		Live:          m.live,
		Capacity:      m.capacity,
		Width:         m.width,
		BitPopulation: make([]int, m.width),
	}

	for id := 0; id < m.live; id++ {
		for w, word := range m.slot(id) {
			for word != 0 {
				b := bits.TrailingZeros64(word)
				stats.BitPopulation[w*64+b]++
				word &^= 1 << b
			}
		}
	}
	return stats
}
