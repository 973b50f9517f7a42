package parameter

import "time"

// Comparison Feedback
const (
	// FeedbackFlash is how long a correct answer stays highlighted
	FeedbackFlash = 1000 * time.Millisecond

	// IncorrectFlash is how long a wrong answer stays highlighted
	IncorrectFlash = 1000 * time.Millisecond

	// IncorrectFlashMin and IncorrectFlashMax bound the configurable wrong-answer flash
	IncorrectFlashMin = 500 * time.Millisecond
	IncorrectFlashMax = 1000 * time.Millisecond

	// CorrectToneLevel and IncorrectToneLevel select answer feedback tones
	CorrectToneLevel   = 10
	IncorrectToneLevel = 1
)
