// Package shop holds the merchant's catalog, the stock ledger, the player's
// gold and inventory, and the purchase resolver that mutates them.
//
// All mutating methods are main-loop-only: the surrounding game confines every
// game-state mutation to a single goroutine, so the resolver never locks.
// Background workers must go through the bridge package instead of calling
// Resolve directly.
package shop

import (
	"fmt"
	"strings"
)

// Kind classifies a catalog item.
type Kind string

const (
	KindWeapon Kind = "weapon"
	KindShield Kind = "shield"
	KindPotion Kind = "potion"
)

// Item is one entry in the merchant's catalog.
type Item struct {
	// Name uniquely identifies the item.
	Name string

	// Kind determines inventory and equip behavior on purchase.
	Kind Kind

	// Price in gold. Never negative.
	Price int

	// StockKey references the stock ledger. Empty means unlimited supply.
	StockKey string

	// Bonus is the short human-readable effect description.
	Bonus string
}

// Catalog is the merchant's item list, in display order.
type Catalog []Item

// Find returns the item with the given name (exact, case-insensitive).
func (c Catalog) Find(name string) (Item, bool) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, item := range c {
		if strings.ToLower(item.Name) == lowered {
			return item, true
		}
	}
	return Item{}, false
}

// Names returns all item names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, item := range c {
		names[i] = item.Name
	}
	return names
}

// Text renders the catalog description handed to the language services.
func (c Catalog) Text() string {
	var b strings.Builder
	for i, item := range c {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s) costs %d gold. %s", item.Name, item.Kind, item.Price, item.Bonus)
	}
	return b.String()
}

// DefaultCatalog returns the standard shop lineup.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Short Sword", Kind: KindWeapon, Price: 50, Bonus: "+6 ATK"},
		{Name: "Steel Sword", Kind: KindWeapon, Price: 120, Bonus: "+12 ATK"},
		{Name: "Wooden Shield", Kind: KindShield, Price: 40, Bonus: "+2 DEF"},
		{Name: "Iron Shield", Kind: KindShield, Price: 110, Bonus: "+5 DEF"},
		{Name: "Heal Potion", Kind: KindPotion, Price: 20, StockKey: "Heal Potion", Bonus: "Restores 40 HP"},
		{Name: "Mana Potion", Kind: KindPotion, Price: 20, Bonus: "Restores 40 MP"},
	}
}

// DefaultStock returns the starting stock ledger for DefaultCatalog.
// Items without a ledger entry are unlimited.
func DefaultStock() map[string]int {
	return map[string]int{"Heal Potion": 3}
}
