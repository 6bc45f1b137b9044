package engine

import (
	"context"
	"time"

	"terminal-chat/internal/domain"
)

var (
	timePositive = []string{
		"what time is it",
		"hey what time is it",
		"do you have the time",
		"do you know the time",
		"do you know what time it is",
		"what is the time",
	}
	timeNegative = []string{
		"it is time to go to sleep",
		"what is your favorite color",
		"i had a great time",
		"thyme is my favorite herb",
		"do you have time to look at my essay",
		"how do you have the time to do all this",
		"what is it",
	}
)

// timeAdapter responde la hora actual cuando la pregunta se parece a "what time is it".
type timeAdapter struct {
	now       func() time.Time
	threshold float64
}

func newTimeAdapter(spec AdapterSpec, now func() time.Time) (*timeAdapter, error) {
	threshold, err := spec.floatOption("threshold", 0.6)
	if err != nil {
		return nil, err
	}
	return &timeAdapter{now: now, threshold: threshold}, nil
}

func (a *timeAdapter) Name() string { return AdapterTime }

func (a *timeAdapter) CanProcess(domain.Statement) bool { return true }

func (a *timeAdapter) Process(_ context.Context, input domain.Statement) (domain.Statement, error) {
	pos := bestSimilarity(input.Text, timePositive)
	neg := bestSimilarity(input.Text, timeNegative)
	if pos <= neg || pos < a.threshold {
		return domain.Statement{}, nil
	}
	return domain.Statement{
		Text:         "The current time is " + a.now().Format("03:04 PM"),
		InResponseTo: input.Text,
		Conversation: input.Conversation,
		Confidence:   pos,
	}, nil
}

func bestSimilarity(text string, phrases []string) float64 {
	best := 0.0
	for _, p := range phrases {
		if s := similarity(text, p); s > best {
			best = s
		}
	}
	return best
}
