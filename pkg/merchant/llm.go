package merchant

import "context"

// Classifier predicts the intent of the latest visitor utterance given the
// whole conversation. Implementations must degrade unparseable model output
// to IntentUnknown instead of returning an error; errors are reserved for
// transport and service failures.
type Classifier interface {
	Classify(ctx context.Context, system string, history []Turn) (Decision, error)
}

// Responder generates the merchant's next line given a system prompt and the
// conversation so far.
type Responder interface {
	Reply(ctx context.Context, system string, history []Turn) (string, error)
}
