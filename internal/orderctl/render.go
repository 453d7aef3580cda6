package orderctl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/stageorder/internal/domain/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginTop(1)
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)
	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// Render writes one table per running order.
func Render(w io.Writer, orders []types.RunningOrder, explain bool) error {
	for i, ro := range orders {
		title := ro.EventID
		if title == "" {
			title = "lineup " + strconv.Itoa(i+1)
		}
		if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if _, err := fmt.Fprintln(w, renderTable(ro, explain)); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return nil
}

func renderTable(ro types.RunningOrder, explain bool) string {
	headers := []string{"#", "BAND", "NOTE"}
	if explain {
		headers = append(headers, "PREF", "MEMBERS", "SONGS", "FLAGS", "SCORE")
	}

	rows := make([][]string, 0, len(ro.Order))
	for _, slot := range ro.Order {
		row := []string{strconv.Itoa(slot.Position + 1), slot.Band.Name, truncate(slot.Band.Note(), 24)}
		if explain && slot.Detail != nil {
			d := slot.Detail
			row = append(row,
				string(d.Preference),
				strconv.Itoa(d.MemberCount),
				strconv.Itoa(d.SongCount),
				flags(d),
				strconv.FormatFloat(d.Score, 'f', 2, 64),
			)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Render(),
		footerStyle.Render(strconv.Itoa(len(ro.Order))+" bands"),
	)
}

func flags(d *types.SlotDetail) string {
	var out []string
	if d.IsJam {
		out = append(out, "jam")
	}
	if d.BigBand {
		out = append(out, "big")
	}
	if d.Heavy {
		out = append(out, "keys")
	}
	return strings.Join(out, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
