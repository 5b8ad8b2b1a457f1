package classify

import "testing"

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"sentiment", "emotion", "both"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "all", "SENTIMENT", "none"} {
		if _, err := ParseMode(invalid); err == nil {
			t.Errorf("ParseMode(%q) expected error", invalid)
		}
	}
}

func TestModeTasks(t *testing.T) {
	if got := ModeSentiment.Tasks(); len(got) != 1 || got[0] != TaskSentiment {
		t.Errorf("sentiment tasks = %v", got)
	}
	if got := ModeEmotion.Tasks(); len(got) != 1 || got[0] != TaskEmotion {
		t.Errorf("emotion tasks = %v", got)
	}
	if got := ModeBoth.Tasks(); len(got) != 2 {
		t.Errorf("both tasks = %v", got)
	}
}

func TestLabelSetsDisjoint(t *testing.T) {
	seen := make(map[string]Task)
	for _, task := range []Task{TaskSentiment, TaskEmotion} {
		for _, label := range task.Labels() {
			if other, ok := seen[label]; ok {
				t.Errorf("label %q appears in both %s and %s", label, other, task)
			}
			seen[label] = task
		}
	}
}

func TestScoresApply_Both(t *testing.T) {
	var s Scores
	err := s.Apply(Prediction{
		Task:     TaskSentiment,
		Probas:   map[string]float64{"NEG": 0.1, "NEU": 0.2, "POS": 0.7},
		MaxLabel: "POS",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = s.Apply(Prediction{
		Task:     TaskEmotion,
		Probas:   map[string]float64{"joy": 0.9, "others": 0.1},
		MaxLabel: "joy",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Sentiment == nil || s.Emotion == nil {
		t.Fatal("expected both score sets populated")
	}
	if s.Sentiment.POS != 0.7 || s.Sentiment.Max != "POS" {
		t.Errorf("sentiment = %+v", s.Sentiment)
	}
	if s.Emotion.Joy != 0.9 || s.Emotion.Max != "joy" {
		t.Errorf("emotion = %+v", s.Emotion)
	}
}

func TestScoresApply_UnknownTask(t *testing.T) {
	var s Scores
	if err := s.Apply(Prediction{Task: "sarcasm"}); err == nil {
		t.Fatal("expected error for unknown task")
	}
}
