package shop

// Player is the visiting customer: a name, a gold purse, and an inventory.
type Player struct {
	Name      string
	Gold      int
	Inventory *Inventory
}

// NewPlayer creates a player with the given starting gold.
func NewPlayer(name string, gold int) *Player {
	return &Player{
		Name:      name,
		Gold:      gold,
		Inventory: NewInventory(),
	}
}

// SpendGold debits amount if the purse covers it. Reports whether it did.
func (p *Player) SpendGold(amount int) bool {
	if p.Gold >= amount {
		p.Gold -= amount
		return true
	}
	return false
}

// AddGold credits amount to the purse.
func (p *Player) AddGold(amount int) {
	p.Gold += amount
}

// Inventory tracks owned item counts per kind plus the equipped weapon and shield.
type Inventory struct {
	Weapons map[string]int
	Shields map[string]int
	Potions map[string]int

	// EquippedWeapon and EquippedShield are item names, empty when nothing
	// of that category is equipped.
	EquippedWeapon string
	EquippedShield string
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Weapons: make(map[string]int),
		Shields: make(map[string]int),
		Potions: make(map[string]int),
	}
}

// Add records one unit of the item. The first weapon or shield the player
// owns is equipped automatically.
func (inv *Inventory) Add(item Item) {
	switch item.Kind {
	case KindWeapon:
		inv.Weapons[item.Name]++
		if inv.EquippedWeapon == "" {
			inv.EquippedWeapon = item.Name
		}
	case KindShield:
		inv.Shields[item.Name]++
		if inv.EquippedShield == "" {
			inv.EquippedShield = item.Name
		}
	default:
		inv.Potions[item.Name]++
	}
}

// Count returns how many units of the item the player owns.
func (inv *Inventory) Count(item Item) int {
	switch item.Kind {
	case KindWeapon:
		return inv.Weapons[item.Name]
	case KindShield:
		return inv.Shields[item.Name]
	default:
		return inv.Potions[item.Name]
	}
}
