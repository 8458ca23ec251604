package shop

import (
	"strings"
	"testing"
)

func newTestShop(gold int) *Shop {
	return New(DefaultCatalog(), DefaultStock(), NewPlayer("traveler", gold))
}

func TestResolveExactNames(t *testing.T) {
	s := newTestShop(1000)

	for _, item := range s.Catalog {
		for _, variant := range []string{
			item.Name,
			strings.ToLower(item.Name),
			strings.ToUpper(item.Name),
		} {
			got, ok := s.resolveItemName(variant)
			if !ok {
				t.Fatalf("resolveItemName(%q) found nothing", variant)
			}
			if got.Name != item.Name {
				t.Errorf("resolveItemName(%q) = %q, want %q", variant, got.Name, item.Name)
			}
		}
	}
}

func TestResolveFuzzyName(t *testing.T) {
	s := newTestShop(1000)

	got, ok := s.resolveItemName("Heall Poshun")
	if !ok {
		t.Fatal("expected fuzzy match for misspelled potion name")
	}
	if got.Name != "Heal Potion" {
		t.Errorf("fuzzy match = %q, want Heal Potion", got.Name)
	}
}

func TestResolveAmbiguousNameFails(t *testing.T) {
	s := newTestShop(1000)

	// "sword" is equally close to Short Sword and Steel Sword.
	if _, ok := s.resolveItemName("Sword"); ok {
		t.Error("ambiguous name should not resolve")
	}

	outcome := s.Resolve("Sword")
	if outcome.Success {
		t.Error("ambiguous purchase should fail")
	}
	if !strings.Contains(outcome.Message, "in stock") {
		t.Errorf("unexpected message: %q", outcome.Message)
	}
}

func TestResolveGibberishFails(t *testing.T) {
	s := newTestShop(1000)

	if _, ok := s.resolveItemName("xqzzzyx"); ok {
		t.Error("gibberish should not clear the cutoff")
	}
}

func TestResolveEmptyName(t *testing.T) {
	s := newTestShop(1000)

	for _, raw := range []string{"", "   "} {
		outcome := s.Resolve(raw)
		if outcome.Success {
			t.Errorf("Resolve(%q) succeeded", raw)
		}
		if s.Player.Gold != 1000 {
			t.Errorf("gold changed on empty name: %d", s.Player.Gold)
		}
	}
}

func TestPurchaseSuccessUpdatesState(t *testing.T) {
	s := newTestShop(25)

	outcome := s.Resolve("heal potion")
	if !outcome.Success {
		t.Fatalf("expected success, got %q", outcome.Message)
	}
	if outcome.PricePaid != 20 {
		t.Errorf("price paid = %d, want 20", outcome.PricePaid)
	}
	if s.Player.Gold != 5 {
		t.Errorf("gold = %d, want 5", s.Player.Gold)
	}
	if s.Stock["Heal Potion"] != 2 {
		t.Errorf("stock = %d, want 2", s.Stock["Heal Potion"])
	}
	if s.Player.Inventory.Potions["Heal Potion"] != 1 {
		t.Errorf("potion count = %d, want 1", s.Player.Inventory.Potions["Heal Potion"])
	}
}

func TestPurchaseInsufficientGold(t *testing.T) {
	s := newTestShop(5)

	outcome := s.Resolve("Heal Potion")
	if outcome.Success {
		t.Fatal("purchase should fail with 5 gold")
	}
	if !strings.Contains(outcome.Message, "Not enough gold") {
		t.Errorf("unexpected message: %q", outcome.Message)
	}
	if s.Player.Gold != 5 {
		t.Errorf("gold = %d, want 5 (unchanged)", s.Player.Gold)
	}
	if s.Stock["Heal Potion"] != 3 {
		t.Errorf("stock = %d, want 3 (unchanged)", s.Stock["Heal Potion"])
	}
}

func TestPurchaseAtomicity(t *testing.T) {
	s := newTestShop(70)

	attempts := []string{"Heal Potion", "Steel Sword", "Short Sword", "Iron Shield", "Heal Potion"}
	for _, name := range attempts {
		goldBefore := s.Player.Gold
		item, _ := s.Catalog.Find(name)
		countBefore := s.Player.Inventory.Count(item)

		outcome := s.Resolve(name)

		goldDelta := goldBefore - s.Player.Gold
		countDelta := s.Player.Inventory.Count(item) - countBefore
		if outcome.Success {
			if goldDelta != item.Price || countDelta != 1 {
				t.Errorf("%s: partial success state (gold -%d, count +%d)", name, goldDelta, countDelta)
			}
		} else {
			if goldDelta != 0 || countDelta != 0 {
				t.Errorf("%s: failed purchase mutated state (gold -%d, count +%d)", name, goldDelta, countDelta)
			}
		}
	}
}

func TestStockExhaustion(t *testing.T) {
	s := newTestShop(1000)

	for i := 0; i < 3; i++ {
		if outcome := s.Resolve("Heal Potion"); !outcome.Success {
			t.Fatalf("purchase %d failed: %q", i, outcome.Message)
		}
	}
	goldAfter := s.Player.Gold

	for i := 0; i < 3; i++ {
		outcome := s.Resolve("Heal Potion")
		if outcome.Success {
			t.Fatal("purchase should fail once stock is exhausted")
		}
		if !strings.Contains(outcome.Message, "out of stock") {
			t.Errorf("unexpected message: %q", outcome.Message)
		}
	}
	if s.Player.Gold != goldAfter {
		t.Errorf("gold changed on out-of-stock purchases: %d != %d", s.Player.Gold, goldAfter)
	}
}

func TestFirstWeaponAndShieldAutoEquip(t *testing.T) {
	s := newTestShop(1000)

	s.Resolve("Short Sword")
	if s.Player.Inventory.EquippedWeapon != "Short Sword" {
		t.Errorf("equipped weapon = %q, want Short Sword", s.Player.Inventory.EquippedWeapon)
	}

	// A later weapon purchase must not replace the equipped one.
	s.Resolve("Steel Sword")
	if s.Player.Inventory.EquippedWeapon != "Short Sword" {
		t.Errorf("equipped weapon = %q, want Short Sword", s.Player.Inventory.EquippedWeapon)
	}

	s.Resolve("Iron Shield")
	if s.Player.Inventory.EquippedShield != "Iron Shield" {
		t.Errorf("equipped shield = %q, want Iron Shield", s.Player.Inventory.EquippedShield)
	}
}

func TestBuyIndex(t *testing.T) {
	s := newTestShop(100)

	outcome := s.BuyIndex(0)
	if !outcome.Success || outcome.ItemName != "Short Sword" {
		t.Errorf("BuyIndex(0) = %+v", outcome)
	}

	if outcome := s.BuyIndex(99); outcome.Success {
		t.Error("BuyIndex out of range should fail")
	}
	if outcome := s.BuyIndex(-1); outcome.Success {
		t.Error("BuyIndex(-1) should fail")
	}
}

func TestCatalogText(t *testing.T) {
	text := DefaultCatalog().Text()

	if !strings.Contains(text, "- Heal Potion (potion) costs 20 gold. Restores 40 HP") {
		t.Errorf("catalog text missing potion line:\n%s", text)
	}
	if got := len(strings.Split(text, "\n")); got != 6 {
		t.Errorf("catalog text has %d lines, want 6", got)
	}
}
