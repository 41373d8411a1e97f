// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keyidle/internal/engine"
	"github.com/verte-zerg/keyidle/internal/runner"
	"github.com/verte-zerg/keyidle/internal/typing"
)

type mode int

const (
	modeShop mode = iota
	modeTyping
)

type tickMsg time.Time

type rowKind int

const (
	rowProducer rowKind = iota
	rowUpgrade
	rowClickPower
	rowSpeed
)

type shopRow struct {
	kind rowKind
	id   string
}

// Model implements the Bubble Tea game UI.
type Model struct {
	ctx    context.Context
	runner *runner.Runner
	eng    *engine.Engine
	tick   time.Duration

	mode  mode
	view  engine.View
	shop  table.Model
	rows  []shopRow
	keys  keyMap
	help  help.Model
	typed []rune

	status string
	width  int
	height int
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	awaitingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs the game UI around a runner. tickRate is the number of
// engine updates per second.
func NewModel(ctx context.Context, r *runner.Runner, tickRate int) *Model {
	if tickRate <= 0 {
		tickRate = runner.DefaultTickRate
	}
	m := &Model{
		ctx:    ctx,
		runner: r,
		eng:    r.Engine(),
		tick:   time.Second / time.Duration(tickRate),
		keys:   newKeyMap(),
		help:   help.New(),
	}
	m.shop = table.New(
		table.WithColumns(shopColumns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(shopStyles()),
	)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.shop.SetColumns(shopColumns(msg.Width))
		m.shop.SetHeight(max(3, msg.Height-8))
		return m, nil
	case tickMsg:
		if err := m.runner.Tick(m.ctx, time.Time(msg)); err != nil {
			m.status = err.Error()
		}
		m.refresh()
		return m, m.scheduleTick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		if m.mode == modeTyping {
			m.handleTypingKey(msg)
		} else if key.Matches(msg, m.keys.Quit) {
			return m, m.quit()
		} else {
			m.handleShopKey(msg)
		}
		m.refresh()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) quit() tea.Cmd {
	if err := m.runner.Save(m.ctx, m.eng.Now()); err != nil {
		logErrf("failed to save game: %v\n", err)
	}
	return tea.Quit
}

func (m *Model) handleShopKey(msg tea.KeyMsg) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Click):
		m.eng.Click()
	case key.Matches(msg, m.keys.Up):
		m.shop.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.shop.MoveDown(1)
	case key.Matches(msg, m.keys.Buy):
		m.buySelected()
	case key.Matches(msg, m.keys.ClickPower):
		m.report(m.eng.PurchaseClickPowerUpgrade(), "cannot afford click power")
	case key.Matches(msg, m.keys.Speed):
		m.report(m.eng.PurchaseAutoBuySpeedUpgrade(), "buyer speed unavailable")
	case key.Matches(msg, m.keys.AutoBuy):
		m.report(m.eng.ToggleAutoBuy(), "auto-buy is locked")
	case key.Matches(msg, m.keys.Challenges):
		m.report(m.eng.ToggleChallenges(), "challenges are locked")
	case key.Matches(msg, m.keys.Trigger):
		if m.eng.TriggerChallenge() {
			m.enterTyping()
		} else {
			m.status = "no challenge available"
		}
	case key.Matches(msg, m.keys.Type):
		m.refresh()
		if m.view.Typing.Unlocked {
			m.enterTyping()
		} else {
			m.status = "buy Touch Typing first"
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
}

func (m *Model) enterTyping() {
	m.mode = modeTyping
	m.typed = nil
	m.status = ""
}

func (m *Model) handleTypingKey(msg tea.KeyMsg) {
	var runes []rune
	switch msg.Type {
	case tea.KeyTab, tea.KeyEsc:
		m.mode = modeShop
		return
	case tea.KeyEnter:
		runes = []rune{'\n'}
	case tea.KeySpace:
		runes = []rune{' '}
	case tea.KeyRunes:
		runes = msg.Runes
	default:
		return
	}
	for _, r := range runes {
		if !m.eng.TypeChar(r) {
			m.mode = modeShop
			return
		}
		if typing.IsBoundary(r) {
			m.typed = m.typed[:0]
			continue
		}
		m.typed = append(m.typed, r)
	}
}

func (m *Model) buySelected() {
	idx := m.shop.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return
	}
	row := m.rows[idx]
	var ok bool
	switch row.kind {
	case rowProducer:
		ok = m.eng.PurchaseProducer(row.id)
	case rowUpgrade:
		ok = m.eng.PurchaseUpgrade(row.id)
	case rowClickPower:
		ok = m.eng.PurchaseClickPowerUpgrade()
	case rowSpeed:
		ok = m.eng.PurchaseAutoBuySpeedUpgrade()
	}
	m.report(ok, "cannot afford that yet")
}

func (m *Model) report(ok bool, failure string) {
	if !ok {
		m.status = failure
	}
}

func (m *Model) refresh() {
	m.view = m.eng.State()
	rows, tableRows := buildShopRows(m.view)
	m.rows = rows
	m.shop.SetRows(tableRows)
	if c := m.shop.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.shop.SetCursor(len(rows) - 1)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render(renderHeader(m.view))
	var body, keys string
	if m.mode == modeTyping {
		body = m.renderTyping()
		keys = m.help.ShortHelpView(m.keys.typingHelp())
	} else {
		body = m.shop.View()
		keys = m.help.View(m.keys)
	}
	parts := []string{header, "", body, "", footerStyle.Render(renderFooter(m.view))}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, keys)
	content := strings.Join(parts, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}

func (m *Model) renderTyping() string {
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 60
	}
	ch := m.view.Typing.Challenge
	if ch == nil {
		prompt := "Type words. Streak x" + fmt.Sprintf("%.1f", m.view.Typing.Multiplier)
		return prompt + "\n\n" + correctStyle.Render(string(m.typed)) + pendingStyle.Underline(true).Render(" ")
	}
	state := "press enter to start"
	if ch.Started {
		state = fmt.Sprintf("%d/%d", ch.Progress, len([]rune(ch.Text)))
	}
	title := fmt.Sprintf("Challenge: %s (%s left, %s)", ch.Description,
		formatSeconds(time.Duration(ch.RemainingSeconds*float64(time.Second))), state)
	text := wrapStyledRunes(buildStyledRunes([]rune(ch.Text), ch.Progress, ch.Started), contentWidth)
	return title + "\n\n" + lipgloss.NewStyle().Width(contentWidth).Render(text)
}

func renderHeader(v engine.View) string {
	return fmt.Sprintf("%s keystrokes  (%s)", formatAmount(v.Resources), formatRate(v.ProductionRate))
}

func renderFooter(v engine.View) string {
	segments := []string{fmt.Sprintf("Click +%s", formatAmount(v.ClickPower.Value))}
	if v.Typing.Unlocked {
		segments = append(segments, fmt.Sprintf("Streak %d · x%.1f", v.Typing.Streak, v.Typing.Multiplier))
	}
	if v.Typing.ChallengesUnlocked {
		if v.Typing.ChallengesEnabled {
			segments = append(segments, fmt.Sprintf("Challenge in %d words", v.Typing.WordsUntilChallenge))
		} else {
			segments = append(segments, "Challenges off")
		}
		segments = append(segments, fmt.Sprintf("Won %d · Lost %d", v.Typing.Completed, v.Typing.Failed))
	}
	if v.AutoBuy.Unlocked {
		if v.AutoBuy.Enabled {
			segments = append(segments, fmt.Sprintf("Auto-buy in %.0fs", v.AutoBuy.SecondsUntilNext))
		} else {
			segments = append(segments, "Auto-buy off")
		}
	}
	return strings.Join(segments, "  ")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
