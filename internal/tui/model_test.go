package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/keyidle/internal/engine"
	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/runner"
)

type memStore struct {
	saves   map[string][]byte
	results []model.ChallengeResult
}

func (s *memStore) PutSave(_ context.Context, slot string, _ int, data []byte, _ time.Time) error {
	if s.saves == nil {
		s.saves = map[string][]byte{}
	}
	s.saves[slot] = data
	return nil
}

func (s *memStore) GetSave(_ context.Context, slot string) ([]byte, bool, error) {
	data, ok := s.saves[slot]
	return data, ok, nil
}

func (s *memStore) InsertChallengeResults(_ context.Context, results []model.ChallengeResult) error {
	s.results = append(s.results, results...)
	return nil
}

func newTestModel(t *testing.T) (*Model, *engine.Engine, *memStore) {
	t.Helper()
	eng := engine.New(engine.Options{Clock: engine.NewFakeClock(time.Unix(0, 0))})
	st := &memStore{}
	r := runner.New(eng, st, "test", time.Minute)
	return NewModel(context.Background(), r, 10), eng, st
}

func press(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestClickKeyAddsResources(t *testing.T) {
	m, eng, _ := newTestModel(t)
	press(m, "c")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if eng.Resources() != 2 {
		t.Fatalf("expected 2 resources, got %v", eng.Resources())
	}
}

func TestTypingLockedStaysInShop(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != modeShop {
		t.Fatalf("expected shop mode while typing is locked")
	}
	if m.status == "" {
		t.Fatalf("expected status message")
	}
}

func TestBuySelectedProducer(t *testing.T) {
	m, eng, _ := newTestModel(t)
	eng.Cheat()
	m.refresh()
	if len(m.rows) == 0 || m.rows[0].id != "macro" {
		t.Fatalf("expected macro as first shop row, got %+v", m.rows)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := eng.Resources(); got != 985 {
		t.Fatalf("expected 985 after buying macro, got %v", got)
	}
	if m.view.Producers[1].Quantity != 1 {
		t.Fatalf("expected one macro, got %d", m.view.Producers[1].Quantity)
	}
}

func TestTypingModeFeedsEngine(t *testing.T) {
	m, eng, _ := newTestModel(t)
	eng.Cheat()
	if !eng.PurchaseUpgrade("typing") {
		t.Fatalf("expected typing upgrade purchase")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != modeTyping {
		t.Fatalf("expected typing mode")
	}
	before := eng.Resources()
	press(m, "hi")
	if string(m.typed) != "hi" {
		t.Fatalf("expected echo hi, got %q", string(m.typed))
	}
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if len(m.typed) != 0 {
		t.Fatalf("expected echo cleared after space")
	}
	if eng.Resources() <= before {
		t.Fatalf("expected typing reward")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeShop {
		t.Fatalf("expected shop mode after esc")
	}
}

func TestQuitSavesGame(t *testing.T) {
	m, _, st := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := st.saves["test"]; !ok {
		t.Fatalf("expected save on quit")
	}
}

func TestTickAdvancesEngine(t *testing.T) {
	m, eng, _ := newTestModel(t)
	eng.Cheat()
	eng.PurchaseProducer("macro")
	_, cmd := m.Update(tickMsg(time.Unix(10, 0)))
	if cmd == nil {
		t.Fatalf("expected next tick scheduled")
	}
	if got := m.view.Resources; got != 986 {
		t.Fatalf("expected 986 after ten seconds of one macro, got %v", got)
	}
}
