// Package merchant provides the conversation orchestrator for the shop's
// voice channel. Each visitor utterance flows through a fixed pipeline:
// append the visitor turn, classify intent, then branch to a trade,
// smalltalk, or clarifying reply. Per-session history lives in a keyed
// store with an explicit lifecycle.
//
// Example usage:
//
//	assistant, err := merchant.NewAssistant(catalog, purchaseFn,
//	    merchant.WithClassifier(chat),
//	    merchant.WithResponder(chat),
//	    merchant.WithVisitorName("Arden"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := assistant.Process(ctx, "I'd like a heal potion", assistant.SessionID())
package merchant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tavernworks/go-merchant/pkg/shop"
)

// PurchaseFunc executes a purchase for a candidate item name and blocks until
// the outcome is known. In production this is the bridge's Submit.
type PurchaseFunc func(rawName string) (shop.PurchaseOutcome, error)

// Assistant orchestrates merchant conversations. Safe for use from a single
// worker goroutine per utterance; the session store underneath is
// concurrency-safe.
type Assistant struct {
	catalog     shop.Catalog
	catalogText string
	purchase    PurchaseFunc
	classifier  Classifier
	responder   Responder
	sessions    *Sessions
	visitor     string
	namespace   string
	logger      *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithClassifier sets the intent classification service.
func WithClassifier(c Classifier) AssistantOption {
	return func(a *Assistant) { a.classifier = c }
}

// WithResponder sets the reply generation service.
func WithResponder(r Responder) AssistantOption {
	return func(a *Assistant) { a.responder = r }
}

// WithVisitorName sets the visitor the merchant addresses. Blank defaults to
// "traveler".
func WithVisitorName(name string) AssistantOption {
	return func(a *Assistant) { a.visitor = strings.TrimSpace(name) }
}

// WithNamespace sets the session namespace. Default "merchant".
func WithNamespace(ns string) AssistantOption {
	return func(a *Assistant) { a.namespace = ns }
}

// WithSessions sets a shared session store.
func WithSessions(s *Sessions) AssistantOption {
	return func(a *Assistant) { a.sessions = s }
}

// WithAssistantLogger sets the structured logger.
func WithAssistantLogger(logger *slog.Logger) AssistantOption {
	return func(a *Assistant) { a.logger = logger.With("component", "merchant.assistant") }
}

// NewAssistant creates the orchestrator for one shop's catalog.
func NewAssistant(catalog shop.Catalog, purchase PurchaseFunc, opts ...AssistantOption) (*Assistant, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	if purchase == nil {
		return nil, ErrNoPurchaseHandler
	}

	a := &Assistant{
		catalog:     catalog,
		catalogText: catalog.Text(),
		purchase:    purchase,
		namespace:   "merchant",
		logger:      slog.Default().With("component", "merchant.assistant"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.visitor == "" {
		a.visitor = "traveler"
	}
	if a.sessions == nil {
		a.sessions = NewSessions()
	}
	if a.classifier == nil || a.responder == nil {
		return nil, fmt.Errorf("merchant: classifier and responder are required")
	}
	return a, nil
}

// SessionID returns the stable session key for this assistant's visitor.
func (a *Assistant) SessionID() string {
	return SessionID(a.namespace, a.visitor)
}

// Visitor returns the visitor name the merchant addresses.
func (a *Assistant) Visitor() string {
	return a.visitor
}

// Sessions exposes the underlying session store.
func (a *Assistant) Sessions() *Sessions {
	return a.sessions
}

// ResetConversation discards the given session's history, leaving every other
// session untouched.
func (a *Assistant) ResetConversation(sessionID string) {
	a.sessions.Reset(sessionID)
	a.logger.Debug("conversation reset", "session", sessionID)
}

// Process ingests one utterance and produces the merchant's reply.
//
// When the utterance triggers a trade, the purchase executes before the reply
// is generated. If reply generation then fails, Process returns both a
// non-nil Result carrying the authoritative trade outcome and the error:
// callers must not drop the outcome just because the narration was lost.
func (a *Assistant) Process(ctx context.Context, input, sessionID string) (*Result, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmptyUtterance
	}

	a.sessions.Append(sessionID, RoleVisitor, trimmed)

	decision, err := a.classifier.Classify(ctx, classifierSystem(a.visitor, a.catalogText), a.sessions.History(sessionID))
	if err != nil {
		return nil, fmt.Errorf("merchant: classify intent: %w", err)
	}
	a.logger.Info("intent decision",
		"session", sessionID,
		"intent", decision.Intent,
		"item", decision.Item,
		"confidence", decision.Confidence,
	)

	switch decision.Intent {
	case IntentTrade:
		return a.respondTrade(ctx, sessionID, decision)
	case IntentSmalltalk:
		return a.respond(ctx, sessionID, IntentSmalltalk, smalltalkSystem(a.visitor))
	default:
		return a.respond(ctx, sessionID, IntentUnknown, fallbackSystem(a.visitor))
	}
}

// respondTrade executes the purchase through the handler, then narrates the
// outcome.
func (a *Assistant) respondTrade(ctx context.Context, sessionID string, decision Decision) (*Result, error) {
	outcome, err := a.purchase(decision.Item)
	if err != nil {
		return nil, fmt.Errorf("merchant: execute purchase: %w", err)
	}
	a.logger.Info("trade outcome",
		"session", sessionID,
		"success", outcome.Success,
		"item", outcome.ItemName,
		"price", outcome.PricePaid,
		"message", outcome.Message,
	)

	result := &Result{
		Intent:        IntentTrade,
		CandidateItem: decision.Item,
		Trade:         &outcome,
	}

	reply, err := a.responder.Reply(ctx, tradeSystem(a.visitor, a.catalogText, outcome.Message), a.sessions.History(sessionID))
	if err != nil {
		// The trade already happened; surface it alongside the error.
		return result, fmt.Errorf("merchant: generate trade reply: %w", err)
	}

	a.sessions.Append(sessionID, RoleMerchant, reply)
	result.Text = reply
	return result, nil
}

func (a *Assistant) respond(ctx context.Context, sessionID string, intent Intent, system string) (*Result, error) {
	reply, err := a.responder.Reply(ctx, system, a.sessions.History(sessionID))
	if err != nil {
		return nil, fmt.Errorf("merchant: generate reply: %w", err)
	}

	a.sessions.Append(sessionID, RoleMerchant, reply)
	return &Result{Intent: intent, Text: reply}, nil
}
