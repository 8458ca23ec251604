package merchant

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tavernworks/go-merchant/pkg/shop"
)

// Intent is the classified purpose of one visitor utterance.
type Intent string

const (
	IntentTrade     Intent = "trade"
	IntentSmalltalk Intent = "smalltalk"
	IntentUnknown   Intent = "unknown"
)

// ParseIntent maps a raw model label to a known intent. Anything it does not
// recognize becomes IntentUnknown; a malformed label must never fail a turn.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentTrade:
		return IntentTrade
	case IntentSmalltalk:
		return IntentSmalltalk
	default:
		return IntentUnknown
	}
}

// Decision is the structured output of intent classification for one
// utterance. It is not persisted beyond the turn it causes.
type Decision struct {
	Intent Intent

	// Item is the catalog item the visitor asked for, when Intent is trade.
	Item string

	// Confidence is the model's self-reported score in [0,1], 0 when absent.
	// Informational only; routing uses Intent alone.
	Confidence float64
}

// Role identifies the speaker of a Turn.
type Role string

const (
	RoleVisitor  Role = "visitor"
	RoleMerchant Role = "merchant"
)

// Turn is one utterance in a session's history. Never mutated after append.
type Turn struct {
	ID   string
	Role Role
	Text string
	At   time.Time
}

func newTurn(role Role, text string) Turn {
	return Turn{
		ID:   ulid.Make().String(),
		Role: role,
		Text: text,
		At:   time.Now(),
	}
}

// Result is what one processed utterance produced.
type Result struct {
	Intent        Intent
	Text          string
	CandidateItem string

	// Trade is the purchase outcome when the utterance triggered one.
	// It is authoritative: when set, the game state has already changed,
	// even if reply generation failed afterwards.
	Trade *shop.PurchaseOutcome
}
