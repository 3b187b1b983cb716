package present

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitfolio/gitfolio/internal/github"
)

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

var testBase = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testRepo(name, desc, lang string, stars int, updated time.Time) github.Repository {
	r := github.Repository{Name: name, UpdatedAt: updated}
	if desc != "" {
		r.Description = strptr(desc)
	}
	if lang != "" {
		r.Language = strptr(lang)
	}
	r.StargazersCount = intptr(stars)
	return r
}

func testRecords() []github.Repository {
	return []github.Repository{
		testRepo("zeta-cli", "A command line tool", "Go", 5, testBase.Add(4*time.Hour)),
		testRepo("alpha-lib", "A library for parsing", "Go", 20, testBase.Add(3*time.Hour)),
		testRepo("beta-web", "Web frontend", "TypeScript", 8, testBase.Add(2*time.Hour)),
		testRepo("gamma-api", "API server", "Go", 2, testBase.Add(5*time.Hour)),
		testRepo("dotfiles", "", "Shell", 1, testBase.Add(time.Hour)),
		testRepo("scratch", "", "", 0, testBase),
	}
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   SortKey
		wantOK bool
	}{
		{in: "name", want: SortName, wantOK: true},
		{in: "  Updated ", want: SortUpdated, wantOK: true},
		{in: "STARS", want: SortStars, wantOK: true},
		{in: "bogus", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseSortKey(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPresenter_LoadPartitionsAndPaginates(t *testing.T) {
	t.Parallel()

	p := New(Config{PageSize: 3})
	p.Load(testRecords())

	visible := p.Visible()
	require.Len(t, visible, 3, "only one page is revealed")
	for _, r := range visible {
		assert.True(t, r.HasDescription(), "the first page holds described records")
	}
	assert.Equal(t, "gamma-api", visible[0].Name, "default sort is most recently updated")

	assert.Equal(t, 2, p.Remaining(), "description-less records wait in the remaining partition")

	p.Reveal()
	assert.Len(t, p.Visible(), 4, "described partition is exhausted")

	p.LoadRemaining()
	assert.Len(t, p.Visible(), 6)
	assert.Equal(t, 0, p.Remaining())
}

func TestPresenter_RevealAll(t *testing.T) {
	t.Parallel()

	p := New(Config{PageSize: 3})
	p.Load(testRecords())
	require.Len(t, p.Visible(), 3)

	p.RevealAll()
	assert.Len(t, p.Visible(), 6, "every record is exposed in one step")
	assert.Equal(t, 0, p.Remaining())
}

func TestPresenter_TextFilter(t *testing.T) {
	t.Parallel()

	p := New(Config{})
	p.Load(testRecords())

	t.Run("matches name case-insensitively", func(t *testing.T) {
		p.SetTextFilter("ALPHA")
		visible := p.Visible()
		require.Len(t, visible, 1)
		assert.Equal(t, "alpha-lib", visible[0].Name)
	})

	t.Run("matches description", func(t *testing.T) {
		p.SetTextFilter("parsing")
		visible := p.Visible()
		require.Len(t, visible, 1)
		assert.Equal(t, "alpha-lib", visible[0].Name)
	})

	t.Run("no match yields empty set", func(t *testing.T) {
		p.SetTextFilter("nonexistent")
		assert.Empty(t, p.Visible())
	})

	t.Run("clearing the filter restores the set", func(t *testing.T) {
		p.SetTextFilter("")
		assert.Len(t, p.Visible(), 4)
	})
}

func TestPresenter_LanguageFilter(t *testing.T) {
	t.Parallel()

	p := New(Config{})
	p.Load(testRecords())

	p.SetLanguageFilter("go")
	visible := p.Visible()
	require.Len(t, visible, 3, "language match is exact but case-insensitive")
	for _, r := range visible {
		assert.Equal(t, "Go", r.LanguageName())
	}

	p.SetLanguageFilter("")
	assert.Len(t, p.Visible(), 4)
}

func TestPresenter_Sorting(t *testing.T) {
	t.Parallel()

	names := func(records []github.Repository) []string {
		out := make([]string, len(records))
		for i, r := range records {
			out[i] = r.Name
		}
		return out
	}

	t.Run("by name uses collation", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		p.Load(testRecords())
		p.SetSortKey(SortName)

		assert.Equal(t, []string{"alpha-lib", "beta-web", "gamma-api", "zeta-cli"}, names(p.Visible()))
	})

	t.Run("by stars descending", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		p.Load(testRecords())
		p.SetSortKey(SortStars)

		assert.Equal(t, []string{"alpha-lib", "beta-web", "zeta-cli", "gamma-api"}, names(p.Visible()))
	})

	t.Run("missing star counts sort as zero", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		records := []github.Repository{
			{Name: "counted", Description: strptr("d"), StargazersCount: intptr(1), UpdatedAt: testBase},
			{Name: "uncounted", Description: strptr("d"), UpdatedAt: testBase},
		}
		p.Load(records)
		p.SetSortKey(SortStars)

		assert.Equal(t, []string{"counted", "uncounted"}, names(p.Visible()))
	})

	t.Run("stars sort is stable for ties", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		records := []github.Repository{
			{Name: "first", Description: strptr("d"), StargazersCount: intptr(3), UpdatedAt: testBase},
			{Name: "second", Description: strptr("d"), StargazersCount: intptr(3), UpdatedAt: testBase},
		}
		p.Load(records)
		p.SetSortKey(SortStars)

		assert.Equal(t, []string{"first", "second"}, names(p.Visible()))
	})
}

func TestPresenter_FilterResetsPagination(t *testing.T) {
	t.Parallel()

	p := New(Config{PageSize: 2})
	p.Load(testRecords())
	p.Reveal()
	require.Len(t, p.Visible(), 4)

	p.SetTextFilter("a")
	snapshot := p.Snapshot()
	assert.LessOrEqual(t, len(snapshot.Visible), 2, "filter change resets to the first page")
}

func TestPresenter_RequestTokens(t *testing.T) {
	t.Parallel()

	p := New(Config{})

	first := p.BeginRequest()
	second := p.BeginRequest()

	assert.False(t, p.Apply(first, testRecords()), "superseded results are discarded")
	assert.Empty(t, p.Visible())

	assert.True(t, p.Apply(second, testRecords()))
	assert.NotEmpty(t, p.Visible())
}

func TestPresenter_Listeners(t *testing.T) {
	t.Parallel()

	p := New(Config{})

	var snapshots []Snapshot
	p.Subscribe(ListenerFunc(func(s Snapshot) {
		snapshots = append(snapshots, s)
	}))

	p.Load(testRecords())
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0].Visible, 4)

	p.SetTextFilter("alpha")
	require.Len(t, snapshots, 2)
	assert.Equal(t, "alpha", snapshots[1].FilterText)
	assert.Len(t, snapshots[1].Visible, 1)
}

func TestPresenter_Languages(t *testing.T) {
	t.Parallel()

	p := New(Config{})
	p.Load(testRecords())

	assert.Equal(t, []string{"Go", "Shell", "TypeScript"}, p.Languages())
}

func TestPresenter_Carousel(t *testing.T) {
	t.Parallel()

	records := []github.Repository{
		testRepo("one", "d", "Go", 1, testBase.Add(3*time.Hour)),
		testRepo("two", "d", "Go", 2, testBase.Add(2*time.Hour)),
		testRepo("three", "d", "Go", 3, testBase.Add(time.Hour)),
	}

	t.Run("navigation clamps at both ends", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		p.SetFeatured(records)

		p.Previous()
		assert.Equal(t, 0, p.FeaturedIndex(), "backing up before the first card is a no-op")

		p.Next()
		p.Next()
		p.Next()
		p.Next()
		assert.Equal(t, 2, p.FeaturedIndex(), "advancing past the last card is a no-op")

		current, ok := p.Current()
		require.True(t, ok)
		assert.Equal(t, "three", current.Name)
	})

	t.Run("empty featured set", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		p.SetFeatured(nil)

		_, ok := p.Current()
		assert.False(t, ok)

		p.Next()
		p.Previous()
		assert.Equal(t, 0, p.FeaturedIndex())
	})

	t.Run("cursor is clamped when the set shrinks", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		p.SetFeatured(records)
		p.Next()
		p.Next()
		require.Equal(t, 2, p.FeaturedIndex())

		p.SetFeatured(records[:1])
		current, ok := p.Current()
		require.True(t, ok)
		assert.Equal(t, "one", current.Name)
	})

	t.Run("undescribed records never reach the carousel", func(t *testing.T) {
		t.Parallel()
		p := New(Config{})
		p.SetFeatured(testRecords())

		for _, r := range p.Featured() {
			assert.True(t, r.HasDescription())
		}
	})
}

func TestPresenter_SnapshotCounts(t *testing.T) {
	t.Parallel()

	p := New(Config{PageSize: 2})
	p.Load(testRecords())

	s := p.Snapshot()
	assert.Len(t, s.Visible, 2)
	assert.Equal(t, 2, s.Hidden)
	assert.Equal(t, 2, s.Remaining)
	assert.Equal(t, SortUpdated, s.SortKey)
}
