package textcat

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cedisense/cedisense/internal/common"
	"github.com/cedisense/cedisense/internal/model"
)

// ConfidenceThreshold is the acceptance floor for this stage: a prediction
// at or below it is treated as low-confidence and the chain moves on.
const ConfidenceThreshold = 0.6

// Sample is one labeled training example.
type Sample struct {
	Description string
	Category    model.Category
}

// Classifier is a trained bag-of-words categorizer. The zero value is not
// usable; construct via Train or Load.
type Classifier struct {
	m      *bayesModel
	logger *slog.Logger
}

// Train fits a classifier on the labeled corpus.
func Train(samples []Sample, logger *slog.Logger) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty training corpus", common.ErrModelNotTrained)
	}

	m := &bayesModel{
		Version:     ArtifactVersion,
		WordCounts:  make(map[model.Category]map[string]int),
		ClassDocs:   make(map[model.Category]int),
		ClassTokens: make(map[model.Category]int),
	}

	vocab := make(map[string]bool)
	for _, s := range samples {
		if !model.ValidCategory(s.Category) {
			return nil, fmt.Errorf("%w: %q in training corpus", common.ErrInvalidCategory, s.Category)
		}

		tokens := tokenize(s.Description)
		if len(tokens) == 0 {
			continue
		}

		m.TotalDocs++
		m.ClassDocs[s.Category]++
		if m.WordCounts[s.Category] == nil {
			m.WordCounts[s.Category] = make(map[string]int)
		}
		for _, tok := range tokens {
			vocab[tok] = true
			m.WordCounts[s.Category][tok]++
			m.ClassTokens[s.Category]++
		}
	}

	if m.TotalDocs == 0 {
		return nil, fmt.Errorf("%w: no usable samples after tokenization", common.ErrModelNotTrained)
	}
	m.VocabSize = len(vocab)

	logger.Info("trained text categorizer",
		"samples", m.TotalDocs,
		"classes", len(m.ClassDocs),
		"vocabulary", m.VocabSize)

	return &Classifier{m: m, logger: logger}, nil
}

// Load reads a previously trained classifier from its artifact path.
// Failure here is expected when no training has happened yet; callers treat
// it as the stage being unavailable, not as an error to surface.
func Load(path string, logger *slog.Logger) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m, err := loadModel(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStageUnavailable, err)
	}

	logger.Debug("loaded text categorizer artifact",
		"path", path,
		"samples", m.TotalDocs,
		"vocabulary", m.VocabSize)

	return &Classifier{m: m, logger: logger}, nil
}

// Save persists the classifier as an opaque versioned artifact.
func (c *Classifier) Save(path string) error {
	return c.m.save(path)
}

// Predict scores the description against every trained class and returns the
// argmax with its posterior probability as calibrated confidence.
func (c *Classifier) Predict(_ context.Context, description string) (model.CategorizationResult, error) {
	tokens := tokenize(description)

	classes := c.classes()
	logProbs := make([]float64, len(classes))
	for i, class := range classes {
		logProbs[i] = c.logPosterior(class, tokens)
	}

	// Softmax over log posteriors, shifted for numerical stability.
	maxLog := logProbs[0]
	for _, lp := range logProbs[1:] {
		if lp > maxLog {
			maxLog = lp
		}
	}
	var sum float64
	probs := make([]float64, len(logProbs))
	for i, lp := range logProbs {
		probs[i] = math.Exp(lp - maxLog)
		sum += probs[i]
	}

	best := 0
	for i := range probs {
		probs[i] /= sum
		if probs[i] > probs[best] {
			best = i
		}
	}

	return model.CategorizationResult{
		Category:   classes[best],
		Confidence: probs[best],
		Method:     model.MethodMLPrimary,
	}, nil
}

// Categories returns every class seen during training, in canonical
// enumeration order.
func (c *Classifier) Categories() []model.Category {
	return c.classes()
}

// classes returns trained classes ordered by the canonical enumeration so
// prediction is independent of map iteration order.
func (c *Classifier) classes() []model.Category {
	var classes []model.Category
	for _, cat := range model.Categories() {
		if c.m.ClassDocs[cat] > 0 {
			classes = append(classes, cat)
		}
	}
	return classes
}

// logPosterior computes log P(class) + sum log P(token|class) with Laplace
// smoothing.
func (c *Classifier) logPosterior(class model.Category, tokens []string) float64 {
	lp := math.Log(float64(c.m.ClassDocs[class]) / float64(c.m.TotalDocs))

	denom := float64(c.m.ClassTokens[class] + c.m.VocabSize)
	for _, tok := range tokens {
		count := c.m.WordCounts[class][tok]
		lp += math.Log(float64(count+1) / denom)
	}
	return lp
}
