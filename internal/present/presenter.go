// Package present turns repository records into rendered output: filtered,
// sorted, paginated card lists for the terminal, a featured carousel with
// bounded navigation, and a static HTML portfolio export.
//
// Presentation state lives in Presenter and is mutated through explicit
// setters; interested parties observe changes through the Listener
// interface instead of being wired up to rendering side effects. Rendering
// itself is a separate concern (see render.go and html.go).
package present

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gitfolio/gitfolio/internal/github"
)

// DefaultPageSize is the number of cards revealed per page.
const DefaultPageSize = 6

// SortKey selects the ordering of the visible set.
type SortKey string

// Supported sort keys.
const (
	// SortName orders by repository name using locale-aware collation.
	SortName SortKey = "name"

	// SortUpdated orders by last update, newest first.
	SortUpdated SortKey = "updated"

	// SortStars orders by star count, highest first. Missing counts sort
	// as zero.
	SortStars SortKey = "stars"
)

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortName:
		return SortName, true
	case SortUpdated:
		return SortUpdated, true
	case SortStars:
		return SortStars, true
	}
	return "", false
}

// Snapshot is an immutable view of presenter state handed to listeners.
type Snapshot struct {
	// Visible is the currently revealed, filtered, sorted set.
	Visible []github.Repository

	// Hidden is the number of matching records not yet revealed.
	Hidden int

	// Remaining is the size of the description-less partition that has not
	// been loaded into the visible set.
	Remaining int

	FilterText     string
	LanguageFilter string
	SortKey        SortKey

	FeaturedIndex int
	FeaturedLen   int
}

// Listener observes presenter state changes.
type Listener interface {
	StateChanged(Snapshot)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Snapshot)

// StateChanged implements Listener.
func (f ListenerFunc) StateChanged(s Snapshot) { f(s) }

// Config controls presenter construction.
type Config struct {
	// PageSize is the reveal increment. Defaults to DefaultPageSize.
	PageSize int

	// Locale selects the collation used by the name sort. Defaults to
	// English when empty or unparseable.
	Locale string
}

// Presenter owns presentation state for a set of repository records:
// partitioning, filtering, sorting, pagination-by-reveal, and the featured
// carousel cursor. Thread-safe; a background fetch may apply results while
// an interactive view reads state.
type Presenter struct {
	mu sync.Mutex

	all                []github.Repository
	withDescription    []github.Repository
	withoutDescription []github.Repository

	filterText     string
	languageFilter string
	sortKey        SortKey

	pageSize         int
	revealed         int
	includeRemaining bool

	featured      []github.Repository
	featuredIndex int

	// generation tracks the current request token. Results applied with an
	// older token are discarded, so a fetch superseded by the user is never
	// rendered.
	generation uint64

	listeners []Listener
	collator  *collate.Collator
}

// New creates a presenter.
func New(cfg Config) *Presenter {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil || cfg.Locale == "" {
		tag = language.English
	}
	return &Presenter{
		sortKey:  SortUpdated,
		pageSize: cfg.PageSize,
		collator: collate.New(tag),
	}
}

// Subscribe registers a listener for state changes.
func (p *Presenter) Subscribe(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// BeginRequest mints a request token. A later BeginRequest supersedes every
// earlier token; Apply with a superseded token is a no-op.
func (p *Presenter) BeginRequest() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	return p.generation
}

// Apply loads records if token is still current. Returns false when the
// result was discarded because a newer request superseded it.
func (p *Presenter) Apply(token uint64, records []github.Repository) bool {
	p.mu.Lock()
	if token != p.generation {
		p.mu.Unlock()
		return false
	}
	p.loadLocked(records)
	p.mu.Unlock()
	p.notify()
	return true
}

// Load replaces the record set: records are partitioned by whether they
// carry a description, filters are reset, and the first page of the
// described partition becomes visible.
func (p *Presenter) Load(records []github.Repository) {
	p.mu.Lock()
	p.loadLocked(records)
	p.mu.Unlock()
	p.notify()
}

func (p *Presenter) loadLocked(records []github.Repository) {
	p.all = append([]github.Repository(nil), records...)
	p.withDescription = p.withDescription[:0]
	p.withoutDescription = p.withoutDescription[:0]
	for _, r := range p.all {
		if r.HasDescription() {
			p.withDescription = append(p.withDescription, r)
		} else {
			p.withoutDescription = append(p.withoutDescription, r)
		}
	}

	p.filterText = ""
	p.languageFilter = ""
	p.sortKey = SortUpdated
	p.revealed = p.pageSize
	p.includeRemaining = false
}

// SetTextFilter filters the visible set by case-insensitive substring match
// on name or description.
func (p *Presenter) SetTextFilter(query string) {
	p.mu.Lock()
	p.filterText = strings.TrimSpace(query)
	p.revealed = p.pageSize
	p.mu.Unlock()
	p.notify()
}

// SetLanguageFilter narrows the visible set to an exact language match. An
// empty language clears the filter.
func (p *Presenter) SetLanguageFilter(language string) {
	p.mu.Lock()
	p.languageFilter = strings.TrimSpace(language)
	p.revealed = p.pageSize
	p.mu.Unlock()
	p.notify()
}

// SetSortKey changes the ordering of the visible set.
func (p *Presenter) SetSortKey(key SortKey) {
	p.mu.Lock()
	p.sortKey = key
	p.mu.Unlock()
	p.notify()
}

// Reveal exposes one more page of matching records.
func (p *Presenter) Reveal() {
	p.mu.Lock()
	p.revealed += p.pageSize
	p.mu.Unlock()
	p.notify()
}

// LoadRemaining folds the description-less partition into the visible set
// and reveals everything.
func (p *Presenter) LoadRemaining() {
	p.mu.Lock()
	p.includeRemaining = true
	p.revealed = len(p.all)
	p.mu.Unlock()
	p.notify()
}

// RevealAll exposes every matching record, description-less ones included.
func (p *Presenter) RevealAll() {
	p.LoadRemaining()
}

// Visible returns the revealed portion of the filtered, sorted set.
func (p *Presenter) Visible() []github.Repository {
	p.mu.Lock()
	defer p.mu.Unlock()
	visible, _ := p.visibleLocked()
	return visible
}

// Remaining returns the number of description-less records not yet loaded.
func (p *Presenter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.includeRemaining {
		return 0
	}
	return len(p.withoutDescription)
}

// Languages returns the distinct languages present in the loaded records,
// sorted with the presenter's collator. Used for the language facet.
func (p *Presenter) Languages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]struct{})
	var langs []string
	for _, r := range p.all {
		lang := r.LanguageName()
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; !ok {
			seen[lang] = struct{}{}
			langs = append(langs, lang)
		}
	}
	sort.Slice(langs, func(i, j int) bool {
		return p.collator.CompareString(langs[i], langs[j]) < 0
	})
	return langs
}

// visibleLocked computes the filtered, sorted, revealed set and the count
// of matching records beyond the reveal horizon. Caller must hold mu.
func (p *Presenter) visibleLocked() ([]github.Repository, int) {
	source := p.withDescription
	if p.includeRemaining {
		source = p.all
	}

	matched := make([]github.Repository, 0, len(source))
	needle := strings.ToLower(p.filterText)
	for _, r := range source {
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Name), needle) &&
			!strings.Contains(strings.ToLower(r.DescriptionText()), needle) {
			continue
		}
		if p.languageFilter != "" && !strings.EqualFold(r.LanguageName(), p.languageFilter) {
			continue
		}
		matched = append(matched, r)
	}

	p.sortLocked(matched)

	hidden := 0
	if len(matched) > p.revealed {
		hidden = len(matched) - p.revealed
		matched = matched[:p.revealed]
	}
	return matched, hidden
}

// sortLocked orders records in place by the active sort key. Caller must
// hold mu.
func (p *Presenter) sortLocked(records []github.Repository) {
	switch p.sortKey {
	case SortName:
		sort.SliceStable(records, func(i, j int) bool {
			return p.collator.CompareString(records[i].Name, records[j].Name) < 0
		})
	case SortStars:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Stars() > records[j].Stars()
		})
	case SortUpdated:
		fallthrough
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		})
	}
}

// SetFeatured builds the featured subset (top five described repositories
// by recency then stars) and resets the carousel cursor.
func (p *Presenter) SetFeatured(records []github.Repository) {
	p.mu.Lock()
	p.featured = github.Featured(records, github.FeaturedSize)
	p.featuredIndex = 0
	p.mu.Unlock()
	p.notify()
}

// Featured returns the featured subset.
func (p *Presenter) Featured() []github.Repository {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]github.Repository(nil), p.featured...)
}

// Next advances the carousel cursor. Navigating past the last entry is a
// no-op, not an error.
func (p *Presenter) Next() {
	p.mu.Lock()
	if p.featuredIndex < len(p.featured)-1 {
		p.featuredIndex++
	}
	p.mu.Unlock()
	p.notify()
}

// Previous moves the carousel cursor back, clamped at zero.
func (p *Presenter) Previous() {
	p.mu.Lock()
	if p.featuredIndex > 0 {
		p.featuredIndex--
	}
	p.mu.Unlock()
	p.notify()
}

// Current returns the featured record under the cursor. The cursor is
// clamped into range before the read, so a shrunken featured set cannot
// produce an out-of-range access.
func (p *Presenter) Current() (github.Repository, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.featured) == 0 {
		return github.Repository{}, false
	}
	if p.featuredIndex > len(p.featured)-1 {
		p.featuredIndex = len(p.featured) - 1
	}
	if p.featuredIndex < 0 {
		p.featuredIndex = 0
	}
	return p.featured[p.featuredIndex], true
}

// FeaturedIndex returns the carousel cursor.
func (p *Presenter) FeaturedIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.featuredIndex
}

// Snapshot returns the current state view.
func (p *Presenter) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Presenter) snapshotLocked() Snapshot {
	visible, hidden := p.visibleLocked()
	remaining := len(p.withoutDescription)
	if p.includeRemaining {
		remaining = 0
	}
	return Snapshot{
		Visible:        visible,
		Hidden:         hidden,
		Remaining:      remaining,
		FilterText:     p.filterText,
		LanguageFilter: p.languageFilter,
		SortKey:        p.sortKey,
		FeaturedIndex:  p.featuredIndex,
		FeaturedLen:    len(p.featured),
	}
}

// notify delivers the current snapshot to all listeners. Called without mu
// held so listeners may call back into the presenter.
func (p *Presenter) notify() {
	p.mu.Lock()
	listeners := append([]Listener(nil), p.listeners...)
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	for _, l := range listeners {
		l.StateChanged(snapshot)
	}
}
