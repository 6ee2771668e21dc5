// Package sequence turns variable-length token id sequences into fixed-length arrays.
//
// Every function returns a freshly allocated slice of exactly maxLen elements and never
// writes to its inputs.
package sequence

import (
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"
)

// Pad right-pads inputs with padID up to maxLen, or truncates it to the first maxLen ids.
func Pad(inputs []int, maxLen, padID int) []int {
	if maxLen < 0 {
		maxLen = 0
	}
	out := make([]int, maxLen)
	n := copy(out, inputs)
	for i := n; i < maxLen; i++ {
		out[i] = padID
	}
	return out
}

// AttentionMask returns 1 for every position that is not padID, 0 otherwise.
func AttentionMask(ids []int, padID int) []int {
	mask := make([]int, len(ids))
	for i, id := range ids {
		if id != padID {
			mask[i] = 1
		}
	}
	return mask
}

// ValidateMaxLen rejects non-positive lengths.
func ValidateMaxLen(maxLen int) error {
	if maxLen <= 0 {
		return common.ConfigError("maxLen", "must be positive, got %d", maxLen)
	}
	return nil
}
