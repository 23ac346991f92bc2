package monitor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Pipeline composes retrieval, classification and alerting into the single
// evaluation flow: Retrieve -> Classify -> Dispatch. One invocation owns its
// article and verdicts; the only shared state across invocations is the
// monitor store behind the retriever.
type Pipeline struct {
	retriever  *Retriever
	classifier *RiskClassifier
	dispatcher *AlertDispatcher
	fetcher    ArticleFetcher
	log        *zap.Logger
}

// PipelineConfig wires the pipeline's collaborators. Retriever, Classifier
// and Dispatcher are required; Fetcher is only needed for EvaluateURL.
type PipelineConfig struct {
	Retriever  *Retriever
	Classifier *RiskClassifier
	Dispatcher *AlertDispatcher
	Fetcher    ArticleFetcher
	Logger     *zap.Logger
}

// NewPipeline validates the wiring and returns an evaluation pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("pipeline requires a retriever")
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("pipeline requires a classifier")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("pipeline requires a dispatcher")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pipeline{
		retriever:  cfg.Retriever,
		classifier: cfg.Classifier,
		dispatcher: cfg.Dispatcher,
		fetcher:    cfg.Fetcher,
		log:        cfg.Logger,
	}, nil
}

// Evaluate runs the full pipeline over inline article text and returns the
// validated verdict list. Alert delivery failures are logged, never returned:
// the caller always gets the verdicts the classifier produced.
func (p *Pipeline) Evaluate(ctx context.Context, text string) ([]RiskVerdict, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &InputError{Msg: "article text must not be empty"}
	}
	return p.evaluate(ctx, ArticleContent{Text: text})
}

// EvaluateURL fetches the article behind url, then proceeds identically to
// Evaluate.
func (p *Pipeline) EvaluateURL(ctx context.Context, url string) ([]RiskVerdict, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, &InputError{Msg: "article url must not be empty"}
	}
	if p.fetcher == nil {
		return nil, fmt.Errorf("pipeline has no article fetcher configured")
	}

	article, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Text) == "" {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("no readable content")}
	}
	return p.evaluate(ctx, article)
}

func (p *Pipeline) evaluate(ctx context.Context, article ArticleContent) ([]RiskVerdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, err := p.retriever.RetrieveRelevant(ctx, article)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	verdicts, err := p.classifier.Classify(ctx, article, candidates)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, v := range verdicts {
		if v.Risk != RiskCritical {
			continue
		}
		if err := p.dispatcher.Dispatch(ctx, v); err != nil {
			// Best-effort delivery: keep going, the verdicts still go back
			// to the caller.
			p.log.Error("alert dispatch failed", zap.String("monitor", v.Monitor), zap.Error(err))
		}
	}

	p.log.Info("evaluation complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("verdicts", len(verdicts)),
		zap.String("source_url", article.SourceURL))
	return verdicts, nil
}
