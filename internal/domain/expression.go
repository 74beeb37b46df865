package domain

// Emotion is the face shown alongside the backlight, ordered by loudness
type Emotion int

const (
	EmotionSleepy Emotion = iota
	EmotionNeutral
	EmotionHappy
	EmotionExcited
)

var emotionNames = [...]string{
	EmotionSleepy:  "sleepy",
	EmotionNeutral: "neutral",
	EmotionHappy:   "happy",
	EmotionExcited: "excited",
}

func (e Emotion) String() string {
	if e < 0 || int(e) >= len(emotionNames) {
		return "unknown"
	}
	return emotionNames[e]
}

// SpeakingThreshold is the level above which the mouth animates
const SpeakingThreshold = 0.05

var emotions = mustThresholds([]Rule[Emotion]{
	{Above: 0.6, Value: EmotionExcited},
	{Above: 0.3, Value: EmotionHappy},
	{Above: 0.1, Value: EmotionNeutral},
}, EmotionSleepy)

// EmotionFor maps an audio level to a face:
// >0.6 excited, >0.3 happy, >0.1 neutral, otherwise sleepy.
func EmotionFor(level float64) Emotion {
	return emotions.Classify(level)
}

// IsSpeaking reports whether level is loud enough to animate the mouth
func IsSpeaking(level float64) bool {
	return level > SpeakingThreshold
}

// Expression is the face derived from one audio level
type Expression struct {
	Emotion  Emotion
	Speaking bool
}

// Express derives the face for level
func Express(level float64) Expression {
	return Expression{Emotion: EmotionFor(level), Speaking: IsSpeaking(level)}
}
