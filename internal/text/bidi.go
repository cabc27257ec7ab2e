package text

// Direction represents text direction
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// IsRTL checks if a string contains right-to-left text.
// Only the Hebrew and Arabic blocks, including presentation forms, are
// recognized.
func IsRTL(text string) bool {
	for _, r := range text {
		if (r >= 0x0590 && r <= 0x06FF) || (r >= 0xFB50 && r <= 0xFDFF) || (r >= 0xFE70 && r <= 0xFEFF) {
			return true
		}
	}
	return false
}

// DirectionOf returns the dominant direction of text.
func DirectionOf(text string) Direction {
	if IsRTL(text) {
		return RightToLeft
	}
	return LeftToRight
}
