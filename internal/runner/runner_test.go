package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keyidle/internal/engine"
	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/save"
	"github.com/verte-zerg/keyidle/internal/store"
)

type firstPicker struct{}

func (firstPicker) Intn(int) int { return 0 }

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "keyidle.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestAutosaveAndRestore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	clock := engine.NewFakeClock(time.Unix(1000, 0))
	eng := engine.New(engine.Options{Clock: clock, Picker: firstPicker{}})
	r := New(eng, st, "", time.Minute)
	if r.Slot() != DefaultSlot {
		t.Fatalf("expected default slot, got %q", r.Slot())
	}

	if ok, err := r.Restore(ctx, clock.Now()); err != nil || ok {
		t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
	}
	eng.Cheat()
	clock.Advance(30 * time.Second)
	if err := r.Tick(ctx, clock.Now()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if _, ok, _ := st.GetSave(ctx, DefaultSlot); ok {
		t.Fatalf("expected no save before interval")
	}
	clock.Advance(30 * time.Second)
	if err := r.Tick(ctx, clock.Now()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	data, ok, err := st.GetSave(ctx, DefaultSlot)
	if err != nil || !ok {
		t.Fatalf("expected autosave, got ok=%v err=%v", ok, err)
	}
	if !save.IsCompressed(data) {
		t.Fatalf("expected compressed save payload")
	}

	other := engine.New(engine.Options{Clock: clock, Picker: firstPicker{}})
	restored := New(other, st, DefaultSlot, time.Minute)
	ok, err = restored.Restore(ctx, clock.Now())
	if err != nil || !ok {
		t.Fatalf("expected restore, got ok=%v err=%v", ok, err)
	}
	if other.Resources() != 1000 {
		t.Fatalf("expected restored resources 1000, got %v", other.Resources())
	}
}

func TestRestoreCorruptSaveLeavesEngine(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.PutSave(ctx, "bad", 2, []byte(`{"resources": "many"}`), time.Unix(0, 0)); err != nil {
		t.Fatalf("put save: %v", err)
	}
	eng := engine.New(engine.Options{Clock: engine.NewFakeClock(time.Unix(0, 0))})
	eng.Click()
	r := New(eng, st, "bad", time.Minute)
	if _, err := r.Restore(ctx, time.Unix(0, 0)); err == nil {
		t.Fatalf("expected corrupt save error")
	}
	if eng.Resources() != 1 {
		t.Fatalf("expected engine untouched, got %v", eng.Resources())
	}
}

func TestChallengeResultsRecorded(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	clock := engine.NewFakeClock(time.Unix(0, 0))
	eng := engine.New(engine.Options{Clock: clock, Picker: firstPicker{}})
	r := New(eng, st, "main", time.Minute)

	for i := 0; i < 3; i++ {
		eng.Cheat()
	}
	eng.PurchaseUpgrade("typing")
	eng.PurchaseUpgrade("challenges")
	eng.TriggerChallenge()
	eng.TypeChar('\n')
	eng.TypeChar('x')
	if r.Pending() != 1 {
		t.Fatalf("expected one pending result, got %d", r.Pending())
	}
	if err := r.Save(ctx, clock.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if r.Pending() != 0 {
		t.Fatalf("expected pending results flushed")
	}
	results, err := st.ListChallengeResults(ctx, model.StatsConfig{Slot: "main"})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 || results[0].Completed || results[0].Reason != "mistype" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[0].RunID != r.RunID() || results[0].ChallengeID != "quick-fox" {
		t.Fatalf("unexpected result identity: %+v", results[0])
	}
}
