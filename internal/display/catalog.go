package display

import (
	"fmt"
	"strings"

	"swarm-console/internal/catalog"
)

func FormatSwarmCatalog(c *catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d swarm(s) for hire:\n", len(c.Swarms)))
	for i, s := range c.Swarms {
		sb.WriteString(fmt.Sprintf("  %2d. %-24s %-10s %s\n", i+1, s.Name, "["+s.ID+"]", s.PriceModel))
		sb.WriteString(fmt.Sprintf("      %s\n", s.Specialty))
		sb.WriteString(fmt.Sprintf("      %s\n", oneLine(s.Description, maxLineLength)))
		sb.WriteString(fmt.Sprintf("      Team: %s\n", FormatTeam(s.Agents)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatTeam(agents []catalog.Agent) string {
	team := make([]string, len(agents))
	for i, a := range agents {
		team[i] = fmt.Sprintf("%s %s (%s)", a.Avatar, a.Name, a.Role)
	}
	return strings.Join(team, ", ")
}

func FormatBriefing(s catalog.Swarm) string {
	return fmt.Sprintf("Briefing: %s\nTeam: %s", s.Name, FormatTeam(s.Agents))
}
