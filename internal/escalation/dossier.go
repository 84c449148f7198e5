// Package escalation implements the Escalation Orchestrator (spec.md
// §4.6): acquiring a worker identity, creating or reusing the per-user
// operator group, posting the dossier, and copying pending messages.
package escalation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/narvesen/supportbot/store"
)

const dossierMaxLen = 4096

// productEmoji maps a drop's product name to the "P" column's emoji,
// spec.md §4.6.1. Unrecognized products fall back to a generic package
// emoji rather than failing rendering.
var productEmoji = map[string]string{
	"snus":      "🟤",
	"cannabis":  "🌿",
	"mdma":      "💊",
	"cocaine":   "❄️",
	"speed":     "⚡",
	"lsd":       "🔳",
	"ketamine":  "🔷",
	"shrooms":   "🍄",
	"hash":      "🟫",
}

func emojiFor(productName string) string {
	if e, ok := productEmoji[strings.ToLower(productName)]; ok {
		return e
	}
	return "📦"
}

// statusLabel renders a Drop's status cell per spec.md §4.6.1: angry_redrop
// reads "🤡 Redrop", lost appends "(Lost)".
func statusLabel(d *store.Drop) string {
	label := string(d.Status)
	if d.Status == store.DropStatusAngryRedrop {
		label = "🤡 Redrop"
	}
	if d.Lost {
		label += " (Lost)"
	}
	return label
}

// renderDossier builds the full Markdown dossier for a user (spec.md
// §4.6.1), then splits it into parts under dossierMaxLen characters if
// needed.
func renderDossier(data *store.UserDossierData) []string {
	userSummary := renderUserSummary(data)
	table := renderDropTable(data.Drops)

	full := userSummary + "\n\n" + table
	if utf8.RuneCountInString(full) <= dossierMaxLen {
		return []string{full}
	}

	// First try "user+summary" in part 1 and "table" in part 2.
	if utf8.RuneCountInString(userSummary) <= dossierMaxLen && utf8.RuneCountInString(table) <= dossierMaxLen {
		return prefixParts([]string{userSummary, table})
	}

	// Otherwise split the table itself by rows, keeping headers in both.
	return prefixParts(append([]string{userSummary}, splitTableByRows(data.Drops)...))
}

func renderUserSummary(data *store.UserDossierData) string {
	u := data.User
	var b strings.Builder
	handle := u.Handle
	if handle == "" {
		handle = "(no username)"
	}
	fmt.Fprintf(&b, "**@%s** (`%d`)\n", handle, u.ID)
	fmt.Fprintf(&b, "Name: %s\n", u.FullName())
	fmt.Fprintf(&b, "Roles: %s\n", rolesList(u.Roles))
	fmt.Fprintf(&b, "First interaction: %s\n", formatTs(data.FirstSeenTs))
	fmt.Fprintf(&b, "Last interaction: %s\n", formatTs(data.LastSeenTs))
	return b.String()
}

func rolesList(roles []string) string {
	if len(roles) == 0 {
		return "none"
	}
	return strings.Join(roles, ", ")
}

func formatTs(ts int64) string {
	if ts == 0 {
		return "-"
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}

const tableHeader = "| ID | P | Amt | Area | Date | Status |\n|---|---|---|---|---|---|\n"

func renderDropTable(drops []*store.Drop) string {
	var b strings.Builder
	b.WriteString(tableHeader)
	for _, d := range drops {
		writeDropRow(&b, d)
	}
	b.WriteString("\n")
	b.WriteString(renderCounts(drops))
	return b.String()
}

func writeDropRow(b *strings.Builder, d *store.Drop) {
	date := time.Unix(d.CreatedTs, 0).UTC().Format("2006-01-02")
	fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s |\n",
		d.ID, emojiFor(d.ProductName), d.Amount, d.Area, date, statusLabel(d))
}

// renderCounts summarizes paid/lost/normal-redrop/angry-redrop counts,
// showing only non-zero rows (spec.md §4.6.1).
func renderCounts(drops []*store.Drop) string {
	var paid, lost, redrop, angry int
	for _, d := range drops {
		switch {
		case d.Status == store.DropStatusAngryRedrop:
			angry++
		case d.Status == store.DropStatusRedrop:
			redrop++
		case d.Lost || d.Status == store.DropStatusLost:
			lost++
		case d.Status == store.DropStatusPaid:
			paid++
		}
	}

	var lines []string
	if paid > 0 {
		lines = append(lines, fmt.Sprintf("Paid: %d", paid))
	}
	if lost > 0 {
		lines = append(lines, fmt.Sprintf("Lost: %d", lost))
	}
	if redrop > 0 {
		lines = append(lines, fmt.Sprintf("Redrops: %d", redrop))
	}
	if angry > 0 {
		lines = append(lines, fmt.Sprintf("Angry redrops: %d", angry))
	}
	return strings.Join(lines, "\n")
}

// splitTableByRows splits the drop table by row into <=dossierMaxLen
// chunks, repeating tableHeader in each chunk (spec.md §4.6.1).
func splitTableByRows(drops []*store.Drop) []string {
	var parts []string
	var cur strings.Builder
	cur.WriteString(tableHeader)

	flush := func() {
		if cur.Len() > len(tableHeader) {
			parts = append(parts, cur.String())
		}
		cur.Reset()
		cur.WriteString(tableHeader)
	}

	for _, d := range drops {
		var row strings.Builder
		writeDropRow(&row, d)
		if cur.Len()+row.Len() > dossierMaxLen {
			flush()
		}
		cur.WriteString(row.String())
	}
	flush()

	if len(parts) == 0 {
		parts = []string{tableHeader}
	}
	// Append counts to the final part.
	parts[len(parts)-1] += "\n" + renderCounts(drops)
	return parts
}

// prefixParts prefixes each part with "Part i/N" (spec.md §4.6.1).
func prefixParts(parts []string) []string {
	n := len(parts)
	if n <= 1 {
		return parts
	}
	out := make([]string, n)
	for i, p := range parts {
		out[i] = fmt.Sprintf("Part %d/%d\n\n%s", i+1, n, p)
	}
	return out
}
