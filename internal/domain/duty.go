package domain

// LEDC timer resolution used by the board's backlight channel
const DefaultDutyResolution = 13

const maxDutyResolution = 20

// Duty converts a brightness percentage to a PWM duty value for a timer with
// the given bit resolution. 100% on a 13-bit timer is 8191.
func Duty(b BrightnessLevel, bits uint) uint32 {
	if bits < 1 {
		bits = 1
	}
	if bits > maxDutyResolution {
		bits = maxDutyResolution
	}
	if b < 0 {
		b = 0
	}
	if b > 100 {
		b = 100
	}

	top := uint32(1)<<bits - 1
	return top * uint32(b) / 100
}
