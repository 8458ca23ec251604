package shop

import (
	"fmt"
	"log/slog"
	"strings"
)

// PurchaseOutcome is the immutable result of one purchase attempt.
// A success always means the gold debit and the inventory grant have both
// already happened; a failure means nothing changed.
type PurchaseOutcome struct {
	Success   bool   `json:"success"`
	ItemName  string `json:"item_name,omitempty"`
	Message   string `json:"message"`
	PricePaid int    `json:"price_paid,omitempty"`
}

// Shop binds the catalog, the stock ledger, and the visiting player together
// and resolves purchase requests against them.
type Shop struct {
	Catalog Catalog
	Stock   map[string]int
	Player  *Player

	logger *slog.Logger
}

// New creates a shop. A nil stock map means everything is unlimited.
func New(catalog Catalog, stock map[string]int, player *Player) *Shop {
	if stock == nil {
		stock = make(map[string]int)
	}
	return &Shop{
		Catalog: catalog,
		Stock:   stock,
		Player:  player,
		logger:  slog.Default().With("component", "shop"),
	}
}

// Remaining returns the ledger count for an item and whether the item is
// finite-stocked at all.
func (s *Shop) Remaining(item Item) (int, bool) {
	if item.StockKey == "" {
		return 0, false
	}
	return s.Stock[item.StockKey], true
}

// Resolve maps a spoken item name to a catalog entry and attempts the
// purchase. Main-loop only.
func (s *Shop) Resolve(rawName string) PurchaseOutcome {
	raw := strings.TrimSpace(rawName)
	if raw == "" {
		return PurchaseOutcome{Message: "I did not catch which item you want."}
	}

	item, ok := s.resolveItemName(raw)
	if !ok {
		s.logger.Debug("item name unresolved", "raw", raw)
		return PurchaseOutcome{Message: fmt.Sprintf("I do not have '%s' in stock.", raw)}
	}
	return s.Buy(item)
}

// BuyIndex purchases the catalog entry at the given position. It backs the
// non-voice buttons channel. Main-loop only.
func (s *Shop) BuyIndex(i int) PurchaseOutcome {
	if i < 0 || i >= len(s.Catalog) {
		return PurchaseOutcome{Message: "That item is not on display."}
	}
	return s.Buy(s.Catalog[i])
}

// Buy validates stock and funds, then applies the whole purchase or nothing.
// Main-loop only.
func (s *Shop) Buy(item Item) PurchaseOutcome {
	if remaining, finite := s.Remaining(item); finite && remaining <= 0 {
		return PurchaseOutcome{
			ItemName: item.Name,
			Message:  fmt.Sprintf("%s is out of stock!", item.Name),
		}
	}

	if !s.Player.SpendGold(item.Price) {
		return PurchaseOutcome{
			ItemName: item.Name,
			Message:  fmt.Sprintf("Not enough gold for %dg.", item.Price),
		}
	}

	s.Player.Inventory.Add(item)
	if item.StockKey != "" {
		if remaining := s.Stock[item.StockKey]; remaining > 0 {
			s.Stock[item.StockKey] = remaining - 1
		}
	}

	s.logger.Info("purchase completed",
		"item", item.Name,
		"price", item.Price,
		"gold_left", s.Player.Gold,
	)
	return PurchaseOutcome{
		Success:   true,
		ItemName:  item.Name,
		Message:   fmt.Sprintf("Bought %s for %dg.", item.Name, item.Price),
		PricePaid: item.Price,
	}
}

// resolveItemName matches raw against catalog names: exact case-insensitive
// first, then fuzzy with a similarity cutoff. Ambiguous fuzzy results resolve
// to nothing.
func (s *Shop) resolveItemName(raw string) (Item, bool) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return Item{}, false
	}
	if item, ok := s.Catalog.Find(lowered); ok {
		return item, true
	}
	name, ok := closestName(lowered, s.Catalog.Names(), matchCutoff)
	if !ok {
		return Item{}, false
	}
	return s.Catalog.Find(name)
}
