package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"terminal-chat/internal/domain"
	"terminal-chat/internal/repository"
)

const (
	SelectFirst        = "first"
	SelectMostFrequent = "most_frequent"
	SelectRandom       = "random"
)

type bestMatchAdapter struct {
	store     repository.StatementRepository
	selection string
	maxSim    float64

	// rand.Rand no es seguro entre goroutines; la API comparte el motor.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func newBestMatchAdapter(spec AdapterSpec, store repository.StatementRepository, rng *rand.Rand) (*bestMatchAdapter, error) {
	selection := spec.option("response_selection", SelectFirst)
	switch selection {
	case SelectFirst, SelectMostFrequent, SelectRandom:
	default:
		return nil, fmt.Errorf("adapter %s: unknown response_selection %q", spec.Name, selection)
	}
	maxSim, err := spec.floatOption("maximum_similarity_threshold", 0.95)
	if err != nil {
		return nil, err
	}
	return &bestMatchAdapter{
		store:     store,
		selection: selection,
		maxSim:    maxSim,
		rng:       rng,
	}, nil
}

func (a *bestMatchAdapter) Name() string { return AdapterBestMatch }

func (a *bestMatchAdapter) CanProcess(domain.Statement) bool { return true }

func (a *bestMatchAdapter) Process(ctx context.Context, input domain.Statement) (domain.Statement, error) {
	prompts, err := a.store.Prompts(ctx)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("list prompts: %w", err)
	}

	closest, best := "", -1.0
	for _, p := range prompts {
		sim := similarity(input.Text, p)
		if sim > best {
			closest, best = p, sim
		}
		if best >= a.maxSim {
			break
		}
	}
	if closest == "" || best <= 0 {
		return domain.Statement{}, nil
	}

	responses, err := a.store.Responses(ctx, closest)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("list responses: %w", err)
	}
	if len(responses) == 0 {
		return domain.Statement{}, nil
	}

	return domain.Statement{
		Text:         a.selectResponse(responses),
		InResponseTo: input.Text,
		Conversation: input.Conversation,
		Confidence:   best,
	}, nil
}

func (a *bestMatchAdapter) selectResponse(responses []domain.Statement) string {
	switch a.selection {
	case SelectRandom:
		a.rngMu.Lock()
		i := a.rng.Intn(len(responses))
		a.rngMu.Unlock()
		return responses[i].Text
	case SelectMostFrequent:
		counts := make(map[string]int, len(responses))
		winner, top := "", 0
		for _, r := range responses {
			counts[r.Text]++
			if counts[r.Text] > top {
				winner, top = r.Text, counts[r.Text]
			}
		}
		return winner
	default:
		return responses[0].Text
	}
}
