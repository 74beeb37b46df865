package domain

import (
	"math"
	"time"
)

// ManualSession tags readings recorded on demand rather than by the recorder
const ManualSession = "manual"

// BacklightReading is one classified audio level
type BacklightReading struct {
	ID         int64
	Level      float64
	Brightness BrightnessLevel
	Session    string
	Timestamp  time.Time
}

// NewBacklightReading classifies level and stamps the result with the current time.
// Out-of-range levels are accepted; only NaN and infinities are rejected since
// they cannot be stored or averaged.
func NewBacklightReading(c *Classifier, level float64, session string) (*BacklightReading, error) {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return nil, ErrNonFiniteLevel
	}

	return &BacklightReading{
		Level:      level,
		Brightness: c.Classify(level),
		Session:    session,
		Timestamp:  time.Now(),
	}, nil
}

// IsSilent returns true when the reading fell through to the catch-all level
func (r *BacklightReading) IsSilent(c *Classifier) bool {
	return r.Brightness == c.Fallback()
}
