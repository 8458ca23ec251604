package web

import (
	"github.com/gofiber/fiber/v2"
)

// statusResponse is the /api/status payload.
type statusResponse struct {
	State  string `json:"state"`
	Status string `json:"status"`
	Gold   int    `json:"gold"`
}

// catalogItem is one /api/catalog entry.
type catalogItem struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Price     int    `json:"price"`
	Bonus     string `json:"bonus,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

// handleStatus returns the channel state and the player's gold.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(statusResponse{
		State:  s.controller.State().String(),
		Status: s.controller.Status(),
		Gold:   s.store.Player.Gold,
	})
}

// handleLog returns the scrollback log, oldest first.
func (s *Server) handleLog(c *fiber.Ctx) error {
	return c.JSON(s.controller.Log())
}

// handleCatalog returns the catalog with remaining stock for finite items.
func (s *Server) handleCatalog(c *fiber.Ctx) error {
	items := make([]catalogItem, 0, len(s.store.Catalog))
	for _, item := range s.store.Catalog {
		entry := catalogItem{
			Name:  item.Name,
			Kind:  string(item.Kind),
			Price: item.Price,
			Bonus: item.Bonus,
		}
		if remaining, finite := s.store.Remaining(item); finite {
			r := remaining
			entry.Remaining = &r
		}
		items = append(items, entry)
	}
	return c.JSON(items)
}
