package classify

import (
	"context"

	"vocanalyzer/internal/config"
	"vocanalyzer/internal/domain"
)

// Classifier produces one classification per complaint record.
type Classifier interface {
	Classify(ctx context.Context, rec domain.ComplaintRecord) domain.ClassificationResult
}

// ForConfig selects the classification strategy once: the live client when a
// credential is configured, the static demo table otherwise. Callers should
// not branch per record.
func ForConfig(cfg config.Config) (Classifier, bool) {
	live := NewLiveClassifier(cfg)
	if live.IsAvailable() {
		return live, true
	}
	return DemoClassifier{}, false
}
