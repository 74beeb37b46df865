package domain

import (
	"fmt"
	"strconv"
)

// BrightnessLevel is a backlight intensity percentage in [0, 100]
type BrightnessLevel int

// Brightness levels produced by the default classifier
const (
	BrightnessDim    BrightnessLevel = 10
	BrightnessLow    BrightnessLevel = 40
	BrightnessMedium BrightnessLevel = 70
	BrightnessFull   BrightnessLevel = 100
)

func (b BrightnessLevel) String() string {
	return strconv.Itoa(int(b)) + "%"
}

// ThresholdRule maps any measurement strictly greater than Above to Level
type ThresholdRule struct {
	Above float64
	Level BrightnessLevel
}

// Classifier maps a normalized audio level to a brightness level.
// Rules are checked highest threshold first; the first one the measurement
// exceeds wins, otherwise Fallback applies. The zero value is not usable;
// build one with NewClassifier or DefaultClassifier.
type Classifier struct {
	chain *Thresholds[BrightnessLevel]
}

var defaultClassifier = &Classifier{chain: mustThresholds([]Rule[BrightnessLevel]{
	{Above: 0.30, Value: BrightnessFull},
	{Above: 0.10, Value: BrightnessMedium},
	{Above: 0.05, Value: BrightnessLow},
}, BrightnessDim)}

// DefaultClassifier returns the screen-flash mapping:
// >0.30 → 100, >0.10 → 70, >0.05 → 40, otherwise 10.
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// Classify maps level with the default rules
func Classify(level float64) BrightnessLevel {
	return defaultClassifier.Classify(level)
}

// NewClassifier validates rules and returns a classifier over a private copy.
// Thresholds must be strictly descending, every level within [0, 100], and
// levels non-increasing down the list with fallback no higher than the last rule.
func NewClassifier(rules []ThresholdRule, fallback BrightnessLevel) (*Classifier, error) {
	if !validBrightness(fallback) {
		return nil, fmt.Errorf("%w: fallback %d outside 0-100", ErrInvalidRules, fallback)
	}

	chain := make([]Rule[BrightnessLevel], len(rules))
	for i, r := range rules {
		if !validBrightness(r.Level) {
			return nil, fmt.Errorf("%w: rule %d level %d outside 0-100", ErrInvalidRules, i, r.Level)
		}
		chain[i] = Rule[BrightnessLevel]{Above: r.Above, Value: r.Level}
	}

	t, err := NewThresholds(chain, fallback)
	if err != nil {
		return nil, err
	}

	return &Classifier{chain: t}, nil
}

// Classify returns the level of the first rule whose threshold level exceeds
func (c *Classifier) Classify(level float64) BrightnessLevel {
	return c.chain.Classify(level)
}

// Rules returns a copy of the ordered rule list
func (c *Classifier) Rules() []ThresholdRule {
	chain := c.chain.Rules()
	out := make([]ThresholdRule, len(chain))
	for i, r := range chain {
		out[i] = ThresholdRule{Above: r.Above, Level: r.Value}
	}
	return out
}

// Fallback returns the catch-all level
func (c *Classifier) Fallback() BrightnessLevel {
	return c.chain.Fallback()
}

// Levels returns every distinct output, highest first
func (c *Classifier) Levels() []BrightnessLevel {
	return c.chain.Values()
}

func validBrightness(b BrightnessLevel) bool {
	return b >= 0 && b <= 100
}
