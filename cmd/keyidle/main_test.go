package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/keyidle/internal/config"
	"github.com/verte-zerg/keyidle/internal/model"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Game.Slot != nil || cfg.Server.Addr != nil {
		t.Fatalf("expected all template values commented out")
	}
}

func TestDefaultConfigTemplateUncommented(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	var cfg config.FileConfig
	meta, err := toml.Decode(strings.Join(lines, "\n"), &cfg)
	if err != nil {
		t.Fatalf("decode uncommented template: %v", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		t.Fatalf("unknown key in template: %v", undecoded[0])
	}
	if cfg.Game.TickRate == nil || *cfg.Game.TickRate != 10 {
		t.Fatalf("expected tick-rate 10 in template")
	}
}

func TestValidateGameConfig(t *testing.T) {
	valid := model.GameConfig{Slot: "main", TickRate: 10, SaveInterval: time.Minute, FocusFactor: 2, FocusWindow: 50}
	if err := validateGameConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := []func(*model.GameConfig){
		func(c *model.GameConfig) { c.Slot = "" },
		func(c *model.GameConfig) { c.TickRate = 0 },
		func(c *model.GameConfig) { c.TickRate = 500 },
		func(c *model.GameConfig) { c.SaveInterval = 0 },
		func(c *model.GameConfig) { c.FocusFactor = -1 },
		func(c *model.GameConfig) { c.FocusWindow = -1 },
	}
	for i, mutate := range cases {
		cfg := valid
		mutate(&cfg)
		if err := validateGameConfig(cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestResolveGameConfigFlagOverridesFile(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("slot", "cli"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileSlot := "file"
	fileRate := 20
	cfg, err := resolveGameConfig(cmd, config.FileConfig{Game: config.GameConfig{Slot: &fileSlot, TickRate: &fileRate}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Slot != "cli" {
		t.Fatalf("expected flag slot, got %q", cfg.Slot)
	}
	if cfg.TickRate != 20 {
		t.Fatalf("expected file tick rate 20, got %d", cfg.TickRate)
	}
}

func TestLoadCatalogCustomChallenges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "challenges.txt")
	if err := os.WriteFile(path, []byte("# mine\nfirst line\nsecond line\n"), 0o644); err != nil {
		t.Fatalf("write challenges: %v", err)
	}
	cat, err := loadCatalog(model.GameConfig{ChallengesPath: path})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(cat.Challenges) != 2 || cat.Challenges[0].Text != "first line" {
		t.Fatalf("unexpected challenges: %+v", cat.Challenges)
	}
}

func TestWriteSlots(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSlots(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "No saves found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
	buf.Reset()
	slots := []model.SaveSlot{{Name: "main", Version: 2, Size: 120, UpdatedAt: time.Unix(0, 0)}}
	if err := writeSlots(&buf, slots); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "main") {
		t.Fatalf("unexpected slot listing: %q", buf.String())
	}
}
