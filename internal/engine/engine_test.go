package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-chat/internal/corpus"
	"terminal-chat/internal/domain"
	"terminal-chat/internal/llm"
	"terminal-chat/internal/repository"
)

func newTestBot(t *testing.T, adapters []string, opts ...Option) (*ChatBot, *repository.MemoryStatementRepository) {
	t.Helper()
	caps, err := ParseCapabilities("TestBot", adapters)
	require.NoError(t, err)
	store := repository.NewMemoryStatementRepository()
	bot, err := New(caps, store, opts...)
	require.NoError(t, err)
	return bot, store
}

func ask(t *testing.T, bot *ChatBot, text string) domain.Statement {
	t.Helper()
	resp, err := bot.GetResponse(context.Background(), domain.Statement{Text: text, Conversation: "test"})
	require.NoError(t, err)
	return resp
}

func TestBestMatchReturnsKnownResponse(t *testing.T) {
	bot, _ := newTestBot(t, []string{AdapterBestMatch})
	require.NoError(t, NewListTrainer(bot).Train(context.Background(), []string{"Hello", "Hi there"}))

	resp := ask(t, bot, "hello!")
	assert.Equal(t, "Hi there", resp.Text)
	assert.InDelta(t, 1.0, resp.Confidence, 1e-9)
	assert.Equal(t, "hello!", resp.InResponseTo)
}

func TestBestMatchClosestPrompt(t *testing.T) {
	bot, _ := newTestBot(t, []string{AdapterBestMatch})
	trainer := NewListTrainer(bot)
	require.NoError(t, trainer.Train(context.Background(), []string{"What is your name?", "I am a bot."}))
	require.NoError(t, trainer.Train(context.Background(), []string{"Do you like hats?", "Hats are great."}))

	resp := ask(t, bot, "what's your name")
	assert.Equal(t, "I am a bot.", resp.Text)
	assert.Less(t, resp.Confidence, 1.0)
}

func TestDefaultResponseWhenNothingKnown(t *testing.T) {
	bot, _ := newTestBot(t, []string{AdapterBestMatch})
	resp := ask(t, bot, "anything")
	assert.Equal(t, DefaultResponse, resp.Text)
	assert.Zero(t, resp.Confidence)
}

func TestEmptyStatementRejected(t *testing.T) {
	bot, _ := newTestBot(t, []string{AdapterBestMatch})
	_, err := bot.GetResponse(context.Background(), domain.Statement{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyStatement)
}

func TestMathAdapter(t *testing.T) {
	bot, _ := newTestBot(t, []string{AdapterMath})

	cases := map[string]string{
		"What is 4 + 9?":            "4 + 9 = 13",
		"what is 7 divided by 2":    "7 / 2 = 3.5",
		"(2+3)*4":                   "(2 + 3) * 4 = 20",
		"how much is 10 minus 12?":  "10 - 12 = -2",
		"compute 0.1 plus 0.2":      "0.1 + 0.2 = 0.3",
		"3 times 3 multiplied by 2": "3 * 3 * 2 = 18",
	}
	for in, want := range cases {
		assert.Equal(t, want, ask(t, bot, in).Text, in)
	}

	for _, in := range []string{"1/0", "meet me on 2024-01-01", "hello", "I am 25"} {
		assert.Equal(t, DefaultResponse, ask(t, bot, in).Text, in)
	}
}

func TestTimeAdapter(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 5, 1, 15, 4, 0, 0, time.UTC) }
	bot, _ := newTestBot(t, []string{AdapterTime}, WithClock(clock))

	resp := ask(t, bot, "What time is it?")
	assert.Equal(t, "The current time is 03:04 PM", resp.Text)
	assert.Greater(t, resp.Confidence, 0.6)

	assert.Equal(t, DefaultResponse, ask(t, bot, "thyme is my favorite herb").Text)
	assert.Equal(t, DefaultResponse, ask(t, bot, "tell me a joke about cats").Text)
}

func TestTiesFavorEarlierAdapter(t *testing.T) {
	training := []string{"What is 2 + 2?", "Five, obviously."}

	bot, _ := newTestBot(t, []string{AdapterBestMatch, AdapterMath})
	require.NoError(t, NewListTrainer(bot).Train(context.Background(), training))
	assert.Equal(t, "Five, obviously.", ask(t, bot, "What is 2 + 2?").Text)

	bot, _ = newTestBot(t, []string{AdapterMath, AdapterBestMatch})
	require.NoError(t, NewListTrainer(bot).Train(context.Background(), training))
	assert.Equal(t, "2 + 2 = 4", ask(t, bot, "What is 2 + 2?").Text)
}

func TestLearningStoresInputAndResponse(t *testing.T) {
	bot, store := newTestBot(t, []string{AdapterBestMatch})
	ctx := context.Background()
	require.NoError(t, NewListTrainer(bot).Train(ctx, []string{"Hello", "Hi"}))

	assert.Equal(t, "Hi", ask(t, bot, "Hello").Text)
	ask(t, bot, "How are you")

	responses, err := store.Responses(ctx, "Hi")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "How are you", responses[0].Text)
	assert.Equal(t, "test", responses[0].Conversation)
}

func TestReadOnlyDoesNotLearn(t *testing.T) {
	caps, err := ParseCapabilities("TestBot", []string{AdapterBestMatch})
	require.NoError(t, err)
	caps.ReadOnly = true
	store := repository.NewMemoryStatementRepository()
	bot, err := New(caps, store)
	require.NoError(t, err)
	require.NoError(t, NewListTrainer(bot).Train(context.Background(), []string{"Hello", "Hi"}))

	ask(t, bot, "Hello")
	n, err := bot.StatementCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLLMFallback(t *testing.T) {
	mock := &llm.MockClient{Response: "```\nSure thing!\n```"}
	contextFn := func(context.Context) (string, error) { return "User: hi\nBot: hello", nil }
	bot, _ := newTestBot(t, []string{AdapterBestMatch, AdapterLLM}, WithLLM(mock), WithContext(contextFn))

	resp := ask(t, bot, "Can you help me plan a trip?")
	assert.Equal(t, "Sure thing!", resp.Text)
	assert.InDelta(t, 0.6, resp.Confidence, 1e-9)
	assert.Contains(t, mock.LastPrompt, "You are TestBot")
	assert.Contains(t, mock.LastPrompt, "User: hi\nBot: hello")
	assert.True(t, strings.HasSuffix(mock.LastPrompt, "TestBot:"))
}

func TestLLMErrorFallsBackToDefault(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("rate limited")}
	bot, _ := newTestBot(t, []string{AdapterBestMatch, AdapterLLM}, WithLLM(mock))

	assert.Equal(t, DefaultResponse, ask(t, bot, "hello").Text)
}

func TestAllAdaptersFailingReturnsError(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("offline")}
	bot, _ := newTestBot(t, []string{AdapterLLM}, WithLLM(mock))

	_, err := bot.GetResponse(context.Background(), domain.Statement{Text: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestNewRequiresLLMClient(t *testing.T) {
	caps, err := ParseCapabilities("TestBot", []string{AdapterLLM})
	require.NoError(t, err)
	_, err = New(caps, repository.NewMemoryStatementRepository())
	assert.ErrorIs(t, err, ErrLLMNotConfigured)
}

func TestNewRejectsBadOptions(t *testing.T) {
	caps, err := ParseCapabilities("TestBot", []string{AdapterBestMatch})
	require.NoError(t, err)
	caps.SetOption(AdapterBestMatch, "response_selection", "loudest")
	_, err = New(caps, repository.NewMemoryStatementRepository())
	assert.Error(t, err)
}

func TestMostFrequentSelection(t *testing.T) {
	caps, err := ParseCapabilities("TestBot", []string{AdapterBestMatch})
	require.NoError(t, err)
	caps.ReadOnly = true
	caps.SetOption(AdapterBestMatch, "response_selection", SelectMostFrequent)
	bot, err := New(caps, repository.NewMemoryStatementRepository())
	require.NoError(t, err)

	trainer := NewListTrainer(bot)
	ctx := context.Background()
	require.NoError(t, trainer.Train(ctx, []string{"Hi", "Hello"}))
	require.NoError(t, trainer.Train(ctx, []string{"Hi", "Hey"}))
	require.NoError(t, trainer.Train(ctx, []string{"Hi", "Hey"}))

	assert.Equal(t, "Hey", ask(t, bot, "Hi").Text)
}

func TestRandomSelectionConcurrentResponses(t *testing.T) {
	caps, err := ParseCapabilities("TestBot", []string{AdapterBestMatch})
	require.NoError(t, err)
	caps.SetOption(AdapterBestMatch, "response_selection", SelectRandom)
	bot, err := New(caps, repository.NewMemoryStatementRepository())
	require.NoError(t, err)

	trainer := NewListTrainer(bot)
	ctx := context.Background()
	require.NoError(t, trainer.Train(ctx, []string{"hi", "Hello"}))
	require.NoError(t, trainer.Train(ctx, []string{"hi", "Hey"}))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			conversation := fmt.Sprintf("conv-%d", g)
			for i := 0; i < 200; i++ {
				if _, err := bot.GetResponse(ctx, domain.Statement{Text: "hi", Conversation: conversation}); err != nil {
					errs <- err
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestCorpusTrainer(t *testing.T) {
	bot, _ := newTestBot(t, []string{AdapterBestMatch})
	ctx := context.Background()

	require.NoError(t, NewCorpusTrainer(bot).Train(ctx, corpus.DefaultCategories...))
	n, err := bot.StatementCount(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 50)

	resp := ask(t, bot, "Good morning, how are you?")
	assert.Equal(t, "I am doing well, how about you?", resp.Text)

	err = NewCorpusTrainer(bot).Train(ctx, "english.klingon")
	assert.ErrorIs(t, err, corpus.ErrUnknownCategory)
}

func TestListTrainerHonorsCancellation(t *testing.T) {
	bot, _ := newTestBot(t, []string{AdapterBestMatch})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewListTrainer(bot).Train(ctx, []string{"a", "b"}), context.Canceled)
}
