package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"swarm-console/internal/catalog"
	"swarm-console/internal/display"
)

const cardWidth = 44

// RenderCatalog draws the swarm marketplace as a grid of cards.
func RenderCatalog(c *catalog.Catalog, width int) string {
	styles := DefaultStyles()
	perRow := max(1, width/(cardWidth+2))

	cards := make([]string, len(c.Swarms))
	for i, s := range c.Swarms {
		cards[i] = renderCard(styles, s)
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	title := styles.Title.Render("SwarmOS") + "  " + styles.Subtle.Render("Autonomous Enterprise Workforce Platform")
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, rows...)...)
}

func renderCard(styles Styles, s catalog.Swarm) string {
	accent := Accent(s.Color)
	name := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(s.Name)
	head := name + "  " + styles.Subtle.Render("["+s.ID+"]")

	var sb strings.Builder
	sb.WriteString(head + "\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(accent).Render(s.Specialty) + "  " + s.PriceModel + "\n\n")
	sb.WriteString(s.Description + "\n\n")
	sb.WriteString(styles.Subtle.Render("Team: ") + display.FormatTeam(s.Agents))

	return styles.Panel.
		BorderForeground(accent).
		Width(cardWidth).
		Padding(0, 1).
		Render(sb.String())
}
