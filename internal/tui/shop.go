package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keyidle/internal/engine"
)

func shopColumns(width int) []table.Column {
	nameWidth := 24
	if width > 80 {
		nameWidth = 24 + (width-80)/2
	}
	return []table.Column{
		{Title: "Item", Width: nameWidth},
		{Title: "Owned", Width: 6},
		{Title: "Cost", Width: 10},
		{Title: "Rate", Width: 10},
		{Title: "", Width: 6},
	}
}

func shopStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#6E6E6E")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#1C1C1C")).
		Background(lipgloss.Color("#C89A3A")).
		Bold(false)
	return styles
}

// buildShopRows lists visible producers, then unpurchased upgrades, then the
// click power and buyer speed levels. The manual producer is not for sale.
func buildShopRows(v engine.View) ([]shopRow, []table.Row) {
	rows := []shopRow{}
	out := []table.Row{}
	for _, p := range v.Producers {
		if p.Manual || !p.Visible {
			continue
		}
		mark := ""
		if p.ID == v.BestValueID {
			mark = "best"
		}
		rows = append(rows, shopRow{kind: rowProducer, id: p.ID})
		out = append(out, table.Row{
			p.Name,
			fmt.Sprintf("%d", p.Quantity),
			formatAmount(p.Cost),
			formatRate(p.ProductionRate),
			mark,
		})
	}
	for _, u := range v.Upgrades {
		if u.Purchased {
			continue
		}
		rows = append(rows, shopRow{kind: rowUpgrade, id: u.ID})
		out = append(out, table.Row{u.Name, "-", formatAmount(u.Cost), "", "new"})
	}
	rows = append(rows, shopRow{kind: rowClickPower})
	out = append(out, table.Row{
		"Click Power",
		fmt.Sprintf("%d", v.ClickPower.Level),
		formatAmount(v.ClickPower.NextCost),
		"+" + formatAmount(v.ClickPower.Value),
		"",
	})
	if v.AutoBuy.Unlocked {
		cost := "max"
		if !v.AutoBuy.MaxedOut {
			cost = formatAmount(v.AutoBuy.NextUpgradeCost)
		}
		rows = append(rows, shopRow{kind: rowSpeed})
		out = append(out, table.Row{
			"Buyer Speed",
			fmt.Sprintf("%d/%d", v.AutoBuy.SpeedLevel, v.AutoBuy.MaxLevel),
			cost,
			fmt.Sprintf("%.0fs", float64(v.AutoBuy.IntervalMs)/1000),
			"",
		})
	}
	return rows, out
}
