package proposal

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/logging"
	"github.com/jonathan/proposal-writer/internal/types"
)

// ConfidenceScore is the fixed score attached to every generated proposal.
const ConfidenceScore = 85

// Stage names reported to a ProgressFunc.
const (
	StageBuildingPrompt = "building_prompt"
	StageCallingModel   = "calling_model"
	StageParsing        = "parsing"
)

// Request is one generate call. It is never persisted.
type Request struct {
	JobTitle       string
	JobDescription string
	Platform       types.Platform
	Profile        *types.UserProfile
}

// GeneratedProposal is the result of a successful generate call.
type GeneratedProposal struct {
	Proposal        string `json:"proposal"`
	CoverLetter     string `json:"coverLetter"`
	ConfidenceScore int    `json:"confidenceScore"`
	AIModel         string `json:"aiModel"`
}

// ProgressFunc is called as Generate moves between stages.
type ProgressFunc func(stage string)

// Generator drafts proposals with a completion client.
type Generator struct {
	client   llm.Client
	logger   *zap.Logger
	progress ProgressFunc
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) { g.logger = logging.OrNop(logger) }
}

// WithProgress sets a callback invoked at each stage.
func WithProgress(fn ProgressFunc) Option {
	return func(g *Generator) { g.progress = fn }
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.Client, opts ...Option) *Generator {
	g := &Generator{client: client, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Validate checks the fields the provider call cannot do without.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.JobTitle) == "" || strings.TrimSpace(r.JobDescription) == "" {
		return &ValidationError{Field: "jobTitle", Message: "Job title and description are required"}
	}
	return nil
}

// Generate validates req, makes exactly one provider call, and parses the
// result. On any error no partial result is returned.
func (g *Generator) Generate(ctx context.Context, req Request) (*GeneratedProposal, error) {
	return g.generate(ctx, req, g.progress)
}

// GenerateWithProgress is Generate with a per-call progress callback.
func (g *Generator) GenerateWithProgress(ctx context.Context, req Request, progress ProgressFunc) (*GeneratedProposal, error) {
	return g.generate(ctx, req, progress)
}

func (g *Generator) generate(ctx context.Context, req Request, progress ProgressFunc) (*GeneratedProposal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	report := func(stage string) {
		if progress != nil {
			progress(stage)
		}
	}

	report(StageBuildingPrompt)
	prompt := BuildPrompt(req.JobTitle, req.JobDescription, req.Platform, req.Profile)

	model := g.client.Model()
	log := g.logger.With(logging.CommonFields("", model)...)
	log.Debug("calling completion provider",
		zap.Int("prompt_length", len(prompt)),
		zap.String("platform", string(req.Platform)),
		zap.Bool("has_profile", req.Profile != nil))

	report(StageCallingModel)
	start := time.Now()
	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		log.Warn("proposal generation failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}

	report(StageParsing)
	sections := Parse(raw)
	if sections.Proposal == "" {
		log.Warn("completion contained no proposal text", zap.Int("completion_length", len(raw)))
		return nil, &llm.ProviderError{Message: "empty completion"}
	}

	log.Info("proposal generated",
		zap.Duration("duration", time.Since(start)),
		zap.Int("proposal_length", len(sections.Proposal)),
		zap.Bool("has_cover_letter", sections.CoverLetter != ""))

	return &GeneratedProposal{
		Proposal:        sections.Proposal,
		CoverLetter:     sections.CoverLetter,
		ConfidenceScore: ConfidenceScore,
		AIModel:         model,
	}, nil
}
