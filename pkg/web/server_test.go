package web

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/tavernworks/go-merchant/pkg/audioio"
	"github.com/tavernworks/go-merchant/pkg/bridge"
	"github.com/tavernworks/go-merchant/pkg/channel"
	"github.com/tavernworks/go-merchant/pkg/merchant"
	"github.com/tavernworks/go-merchant/pkg/shop"
)

func newTestServer(t *testing.T) (*Server, *shop.Shop) {
	t.Helper()

	store := shop.New(shop.DefaultCatalog(), shop.DefaultStock(), shop.NewPlayer("Arden", 100))
	br := bridge.New()
	assistant, err := merchant.NewAssistant(store.Catalog, func(rawName string) (shop.PurchaseOutcome, error) {
		return br.Submit(rawName)
	},
		merchant.WithClassifier(&merchant.MockClassifier{}),
		merchant.WithResponder(&merchant.MockResponder{}),
		merchant.WithVisitorName("Arden"),
	)
	if err != nil {
		t.Fatalf("new assistant: %v", err)
	}

	controller := channel.NewController(nil, assistant, br, store, &audioio.MockPlayer{})
	t.Cleanup(func() { controller.Shutdown() })

	return NewServer("0", controller, store), store
}

func TestHandleStatus(t *testing.T) {
	s, store := newTestServer(t)
	store.Player.Gold = 75

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	var got statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Gold != 75 {
		t.Errorf("gold = %d, want 75", got.Gold)
	}
	// Controller was built without voice services.
	if got.State != "error" {
		t.Errorf("state = %q, want error", got.State)
	}
}

func TestHandleLog(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/log", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var entries []channel.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("log is empty, expected the greeting")
	}
	if entries[0].Speaker != merchant.Persona {
		t.Errorf("first speaker = %q", entries[0].Speaker)
	}
}

func TestHandleCatalog(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/catalog", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var items []catalogItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("catalog has %d items, want 6", len(items))
	}

	var potion *catalogItem
	for i := range items {
		if items[i].Name == "Heal Potion" {
			potion = &items[i]
		}
	}
	if potion == nil {
		t.Fatal("Heal Potion missing from catalog")
	}
	if potion.Remaining == nil || *potion.Remaining != 3 {
		t.Errorf("heal potion remaining = %v, want 3", potion.Remaining)
	}

	for _, item := range items {
		if item.Name != "Heal Potion" && item.Remaining != nil {
			t.Errorf("%s should be unlimited, got remaining %d", item.Name, *item.Remaining)
		}
	}
}
