package present

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitfolio/gitfolio/internal/github"
)

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	page := HTMLPage{
		Title: "octocat · portfolio",
		Profile: &github.Profile{
			Login: "octocat",
			Name:  strptr("The Octocat"),
			Bio:   strptr("I build things."),
		},
		Repositories: []github.Repository{
			testRepo("widget", "A widget library", "Go", 42, time.Now().Add(-time.Hour)),
		},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	var b strings.Builder
	require.NoError(t, RenderHTML(&b, page))
	out := b.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "octocat · portfolio")
	assert.Contains(t, out, "The Octocat")
	assert.Contains(t, out, "widget")
	assert.Contains(t, out, "A widget library")
	assert.Contains(t, out, "★ 42")
	assert.Contains(t, out, "Generated 2026-03-01 12:00")
}

func TestRenderHTML_EscapesRecordText(t *testing.T) {
	t.Parallel()

	payload := `<img src=x onerror=alert(1)>`
	page := HTMLPage{
		Title: "t",
		Repositories: []github.Repository{
			{
				Name:        payload,
				Description: strptr(`<script>alert("xss")</script>`),
				HTMLURL:     "https://github.com/octocat/x",
				UpdatedAt:   time.Now(),
			},
		},
	}

	var b strings.Builder
	require.NoError(t, RenderHTML(&b, page))
	out := b.String()

	assert.NotContains(t, out, payload, "markup in record text must never survive escaping")
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "&lt;img src=x onerror=alert(1)&gt;")
}

func TestRenderHTML_EmptySet(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, RenderHTML(&b, HTMLPage{Title: "t"}))

	assert.Contains(t, b.String(), "No repositories to show.")
	assert.NotContains(t, b.String(), `<div class="card">`)
}

func TestRenderHTML_NoProfile(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, RenderHTML(&b, HTMLPage{
		Title:        "t",
		Repositories: []github.Repository{testRepo("solo", "d", "Go", 0, time.Now())},
	}))

	assert.NotContains(t, b.String(), "<header>\n<h1></h1>")
	assert.Contains(t, b.String(), "solo")
}
