package sequence

import (
	"math"
	"math/rand/v2"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"

	roaring "github.com/RoaringBitmap/roaring"
)

// MaskCount is floor(length * rate), the number of positions a masking pass replaces.
func MaskCount(length int, rate float64) int {
	if length <= 0 || rate <= 0 {
		return 0
	}
	return int(float64(length) * rate)
}

// ValidateMaskingRate rejects rates outside [0, 1].
func ValidateMaskingRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return common.ConfigError("maskingRate", "must be within [0, 1], got %v", rate)
	}
	return nil
}

// SampleMaskPositions draws MaskCount(length, rate) distinct indices from [0, length)
// uniformly at random without replacement.
func SampleMaskPositions(length int, rate float64, rng *rand.Rand) (*roaring.Bitmap, error) {
	if err := ValidateMaskingRate(rate); err != nil {
		return nil, err
	}
	positions := roaring.New()
	k := MaskCount(length, rate)
	if k == 0 {
		return positions, nil
	}

	// partial Fisher-Yates over the index range
	idx := make([]uint32, length)
	for i := range idx {
		idx[i] = uint32(i)
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(length-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	positions.AddMany(idx[:k])
	return positions, nil
}

// Corrupt replaces every position in positions with maskID.
func Corrupt(inputs []int, positions *roaring.Bitmap, maskID int) []int {
	out := make([]int, len(inputs))
	for pos, id := range inputs {
		if positions.Contains(uint32(pos)) {
			out[pos] = maskID
		} else {
			out[pos] = id
		}
	}
	return out
}

// MaskAndPad masks floor(len(inputs)*rate) random positions of inputs with maskID and then
// pads or truncates the result to maxLen with padID.
func MaskAndPad(inputs []int, rate float64, maxLen, maskID, padID int, rng *rand.Rand) ([]int, error) {
	positions, err := SampleMaskPositions(len(inputs), rate, rng)
	if err != nil {
		return nil, err
	}
	return Pad(Corrupt(inputs, positions, maskID), maxLen, padID), nil
}
