package sequence

import (
	"fmt"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"
)

// IgnoreLabels pads labels with ignoreIndex up to maxLen, or truncates them.
// No end-of-sequence id is appended.
func IgnoreLabels(labels []int, maxLen, ignoreIndex int) []int {
	return Pad(labels, maxLen, ignoreIndex)
}

// IgnoreLabelsMasked builds denoising targets from labels and the corrupted sequence produced by
// MaskAndPad.
//
// Pad ids are removed from corrupt first. Every index i of the filtered corrupt whose id is not
// maskID marks labels[i] as ignoreIndex, so loss is only taken at masked positions. eosID is then
// appended and the result is padded with ignoreIndex or truncated to maxLen; truncation may drop
// the eos id.
//
// The indices come from the pad-filtered corrupt sequence but address labels directly. The two
// only line up when corrupt carries no pad ids before the end of labels. That alignment is kept
// as is. An index past the end of labels yields ErrLabelAlignment.
func IgnoreLabelsMasked(labels, corrupt []int, maxLen, ignoreIndex, padID, maskID, eosID int) ([]int, error) {
	out := make([]int, len(labels), len(labels)+1)
	copy(out, labels)

	i := 0
	for _, id := range corrupt {
		if id == padID {
			continue
		}
		if id != maskID {
			if i >= len(out) {
				return nil, fmt.Errorf("%w: index %d, %d labels", common.ErrLabelAlignment, i, len(labels))
			}
			out[i] = ignoreIndex
		}
		i++
	}

	out = append(out, eosID)
	return Pad(out, maxLen, ignoreIndex), nil
}
