package present

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitfolio/gitfolio/internal/github"
)

// Card layout bounds.
const (
	defaultCardWidth = 72
	minCardWidth     = 40
	descMaxLines     = 3
)

// Renderer draws repository records as styled terminal cards.
type Renderer struct {
	theme Theme
	width int
}

// NewRenderer creates a renderer for the given theme and terminal width.
// Widths below the minimum are raised to it; zero means the default.
func NewRenderer(theme Theme, width int) *Renderer {
	if width <= 0 {
		width = defaultCardWidth
	}
	if width < minCardWidth {
		width = minCardWidth
	}
	return &Renderer{theme: theme, width: width}
}

// Cards writes one card per record to w. An empty set renders an explicit
// "no results" panel instead of nothing. A panic while rendering a record
// (a malformed record must not take the page down) is recovered into a
// visible error panel and a nil return.
func (r *Renderer) Cards(w io.Writer, records []github.Repository) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = r.writeErrorPanel(w, fmt.Sprintf("rendering failed: %v", rec))
		}
	}()

	if len(records) == 0 {
		_, err = fmt.Fprintln(w, r.NoResultsPanel())
		return err
	}

	for _, repo := range records {
		if _, err = fmt.Fprintln(w, r.Card(repo)); err != nil {
			return err
		}
	}
	return nil
}

// writeErrorPanel writes an error panel to w. The writer itself may be the
// reason rendering failed, so a panic raised here is absorbed and reported
// as an error instead of escaping the recovery path in Cards.
func (r *Renderer) writeErrorPanel(w io.Writer, message string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s: error panel write failed: %v", message, rec)
		}
	}()
	_, err = fmt.Fprintln(w, r.ErrorPanel(message))
	return err
}

// Card renders a single repository card.
func (r *Renderer) Card(repo github.Repository) string {
	width := r.width - 4 // border + padding

	var b strings.Builder
	b.WriteString(r.theme.Title.Render(truncate(sanitizeText(repo.Name), width)))
	b.WriteString("\n")

	if desc := sanitizeText(repo.DescriptionText()); desc != "" {
		b.WriteString(r.theme.Text.Width(width).MaxHeight(descMaxLines).Render(desc))
		b.WriteString("\n")
	}

	b.WriteString(r.theme.Faint.Render(r.metaLine(repo, width)))

	return r.theme.Card.Width(r.width).Render(b.String())
}

// FeaturedCard renders a carousel card with a position indicator.
func (r *Renderer) FeaturedCard(repo github.Repository, index, total int) string {
	card := r.Card(repo)
	indicator := r.theme.Faint.Render(fmt.Sprintf("%d / %d", index+1, total))
	return lipgloss.JoinVertical(lipgloss.Center, card, indicator)
}

// ProfileCard renders a user profile.
func (r *Renderer) ProfileCard(p github.Profile) string {
	width := r.width - 4

	var b strings.Builder
	b.WriteString(r.theme.Title.Render(truncate(sanitizeText(p.DisplayName()), width)))
	b.WriteString("\n")
	if bio := sanitizeText(p.BioText()); bio != "" {
		b.WriteString(r.theme.Text.Width(width).Render(bio))
		b.WriteString("\n")
	}
	b.WriteString(r.theme.Faint.Render(fmt.Sprintf(
		"%d repos · %d followers · %d following", p.PublicRepos, p.Followers, p.Following)))
	b.WriteString("\n")
	b.WriteString(r.theme.Accent.Render(sanitizeText(p.HTMLURL)))

	return r.theme.Card.Width(r.width).Render(b.String())
}

// NoResultsPanel is shown when the visible set is empty.
func (r *Renderer) NoResultsPanel() string {
	return r.theme.Panel.Width(r.width).Render("No repositories to show.")
}

// ErrorPanel renders a non-fatal inline error.
func (r *Renderer) ErrorPanel(message string) string {
	return r.theme.ErrPanel.Width(r.width).Render(sanitizeText(message))
}

// FetchFailedPanel is the inline message shown when repository data could
// not be loaded after retries. It replaces the card list, not the page.
func (r *Renderer) FetchFailedPanel() string {
	return r.ErrorPanel("Failed to load repositories. Check your connection and try again.")
}

// metaLine assembles the language / stars / updated footer.
func (r *Renderer) metaLine(repo github.Repository, width int) string {
	parts := make([]string, 0, 4)
	if lang := sanitizeText(repo.LanguageName()); lang != "" {
		parts = append(parts, lang)
	}
	parts = append(parts, fmt.Sprintf("★ %d", repo.Stars()))
	if !repo.UpdatedAt.IsZero() {
		parts = append(parts, "updated "+humanizeSince(repo.UpdatedAt))
	}
	if repo.Archived {
		parts = append(parts, "archived")
	}
	return truncate(strings.Join(parts, " · "), width)
}

// humanizeSince formats the elapsed time since t in coarse units.
func humanizeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return "just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// sanitizeText strips control characters from record text before it reaches
// the terminal. Repository metadata is attacker-controlled; an embedded
// escape sequence must render as nothing, not as a terminal command. This
// is the terminal counterpart of the HTML escaping in html.go.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
