// Package oracle predicts a healthcare professional's country by combining
// PubMed affiliation signals with an LLM judgement.
package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/pubmed"
)

// Oracle answers one prediction request.
type Oracle interface {
	Predict(ctx context.Context, in domain.ProfessionalInput) (*domain.Prediction, error)
}

// Completer is the chat model used to reason about the signals.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Publications looks up an author's articles.
type Publications interface {
	Search(ctx context.Context, author, topic string) (*pubmed.Result, error)
}

type LLMOracle struct {
	llm    Completer
	pubmed Publications
	logger *slog.Logger
}

var _ Oracle = (*LLMOracle)(nil)

func New(llm Completer, pub Publications, logger *slog.Logger) *LLMOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMOracle{llm: llm, pubmed: pub, logger: logger}
}

// Predict never fails on PubMed errors; they degrade to "no publications found".
func (o *LLMOracle) Predict(ctx context.Context, in domain.ProfessionalInput) (*domain.Prediction, error) {
	pm := &pubmed.Result{}
	if o.pubmed != nil {
		res, err := o.pubmed.Search(ctx, in.Name, in.PubMedTopic)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			o.logger.WarnContext(ctx, "pubmed lookup failed", "name", in.Name, "error", err)
		case res != nil:
			pm = res
		}
	}

	answer, err := o.llm.Complete(ctx, SystemPrompt, BuildPrompt(in, pm))
	if err != nil {
		return nil, fmt.Errorf("llm prediction: %w", err)
	}

	p := ParseResponse(answer)
	p.Sources = Sources(in.Email, pm.Found)
	return p, nil
}
