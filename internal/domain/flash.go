package domain

// FlashStep is the brightness change between ramp steps
const FlashStep BrightnessLevel = 10

// FlashPattern returns one demo cycle: 0 up to 100 then back down to 0 in
// FlashStep increments. Both ends appear twice, once per ramp.
func FlashPattern() []BrightnessLevel {
	pattern := make([]BrightnessLevel, 0, 2*(100/FlashStep+1))
	for b := BrightnessLevel(0); b <= 100; b += FlashStep {
		pattern = append(pattern, b)
	}
	for b := BrightnessLevel(100); b >= 0; b -= FlashStep {
		pattern = append(pattern, b)
	}
	return pattern
}
