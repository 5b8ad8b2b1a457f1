package classify

import "fmt"

// Task selects which classification head the backend runs.
type Task string

const (
	TaskSentiment Task = "sentiment"
	TaskEmotion   Task = "emotion"
)

// Labels returns the closed label set for a task. The sets are disjoint, so
// a combined result never collides on a key.
func (t Task) Labels() []string {
	switch t {
	case TaskSentiment:
		return []string{"NEG", "NEU", "POS"}
	case TaskEmotion:
		return []string{"others", "joy", "sadness", "anger", "surprise", "disgust", "fear"}
	default:
		return nil
	}
}

// Mode selects which task outputs are attached to each message.
type Mode string

const (
	ModeSentiment Mode = "sentiment"
	ModeEmotion   Mode = "emotion"
	ModeBoth      Mode = "both"
)

// ParseMode validates a mode string. An unrecognized value is a
// configuration error and is never silently defaulted.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSentiment, ModeEmotion, ModeBoth:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid classification mode %q (want sentiment, emotion or both)", s)
	}
}

// Tasks returns the backend tasks a mode requires, in invocation order.
func (m Mode) Tasks() []Task {
	switch m {
	case ModeSentiment:
		return []Task{TaskSentiment}
	case ModeEmotion:
		return []Task{TaskEmotion}
	case ModeBoth:
		return []Task{TaskSentiment, TaskEmotion}
	default:
		return nil
	}
}

// Prediction is one backend response: a probability distribution over the
// task's label set plus the top label.
type Prediction struct {
	Task     Task               `json:"task"`
	Probas   map[string]float64 `json:"probas"`
	MaxLabel string             `json:"max_label"`
}

// SentimentScores is the typed sentiment distribution for one message.
type SentimentScores struct {
	NEG float64 `json:"NEG"`
	NEU float64 `json:"NEU"`
	POS float64 `json:"POS"`
	Max string  `json:"max_sentiment"`
}

// EmotionScores is the typed emotion distribution for one message.
type EmotionScores struct {
	Others   float64 `json:"others"`
	Joy      float64 `json:"joy"`
	Sadness  float64 `json:"sadness"`
	Anger    float64 `json:"anger"`
	Surprise float64 `json:"surprise"`
	Disgust  float64 `json:"disgust"`
	Fear     float64 `json:"fear"`
	Max      string  `json:"max_emotion"`
}

// Scores is the per-message classification result. A nil field means the
// task was not requested; mode both fills in both fields — the union of two
// disjoint label sets, merged with compile-time-known keys.
type Scores struct {
	Sentiment *SentimentScores `json:"sentiment,omitempty"`
	Emotion   *EmotionScores   `json:"emotion,omitempty"`
}

// Apply folds one prediction into the score record.
func (s *Scores) Apply(p Prediction) error {
	switch p.Task {
	case TaskSentiment:
		s.Sentiment = &SentimentScores{
			NEG: p.Probas["NEG"],
			NEU: p.Probas["NEU"],
			POS: p.Probas["POS"],
			Max: p.MaxLabel,
		}
	case TaskEmotion:
		s.Emotion = &EmotionScores{
			Others:   p.Probas["others"],
			Joy:      p.Probas["joy"],
			Sadness:  p.Probas["sadness"],
			Anger:    p.Probas["anger"],
			Surprise: p.Probas["surprise"],
			Disgust:  p.Probas["disgust"],
			Fear:     p.Probas["fear"],
			Max:      p.MaxLabel,
		}
	default:
		return fmt.Errorf("unknown task %q", p.Task)
	}
	return nil
}
