package render

import "outbreak/internal/outbreak"

// MaxRevealBatches caps how many frames a wave's reveal animation takes.
const MaxRevealBatches = 24

// Batches splits ids into at most limit consecutive, non-empty groups of
// near-equal size, preserving order. Fewer ids than limit yields one id per
// batch.
func Batches(ids []outbreak.IndividualID, limit int) [][]outbreak.IndividualID {
	if len(ids) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 1
	}
	size := (len(ids) + limit - 1) / limit
	out := make([][]outbreak.IndividualID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end:end])
	}
	return out
}
