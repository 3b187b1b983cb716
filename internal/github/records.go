package github

import (
	"sort"
	"strings"
	"time"
)

// Repository is a repository record as returned by the GitHub REST API.
// The shape is owned by the upstream API; only the fields gitfolio consumes
// are decoded. Fields the API reports as null are pointers, with accessor
// methods applying defaults so fallbacks live at the API boundary instead of
// being scattered through rendering code. Records are never mutated after
// decoding, only filtered, sorted, and copied.
type Repository struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     *string   `json:"description"`
	Language        *string   `json:"language"`
	StargazersCount *int      `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	HTMLURL         string    `json:"html_url"`
	Homepage        *string   `json:"homepage"`
	Fork            bool      `json:"fork"`
	Archived        bool      `json:"archived"`
	Topics          []string  `json:"topics"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DescriptionText returns the description, or an empty string when the API
// reported null.
func (r Repository) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// HasDescription reports whether the repository carries a non-empty
// description.
func (r Repository) HasDescription() bool {
	return strings.TrimSpace(r.DescriptionText()) != ""
}

// LanguageName returns the primary language, or an empty string when the
// API reported null.
func (r Repository) LanguageName() string {
	if r.Language == nil {
		return ""
	}
	return *r.Language
}

// Stars returns the star count, treating a missing count as zero.
func (r Repository) Stars() int {
	if r.StargazersCount == nil {
		return 0
	}
	return *r.StargazersCount
}

// HomepageURL returns the homepage, or an empty string when unset.
func (r Repository) HomepageURL() string {
	if r.Homepage == nil {
		return ""
	}
	return *r.Homepage
}

// FeaturedSize is the size of the featured subset used by the carousel.
const FeaturedSize = 5

// Featured selects the featured subset from records: repositories with a
// non-empty description, ordered by last update (newest first) with star
// count as the tie-break, truncated to max entries. The input is not
// modified.
func Featured(records []Repository, max int) []Repository {
	described := make([]Repository, 0, len(records))
	for _, r := range records {
		if r.HasDescription() {
			described = append(described, r)
		}
	}

	sort.SliceStable(described, func(i, j int) bool {
		if !described[i].UpdatedAt.Equal(described[j].UpdatedAt) {
			return described[i].UpdatedAt.After(described[j].UpdatedAt)
		}
		return described[i].Stars() > described[j].Stars()
	})

	if max > 0 && len(described) > max {
		described = described[:max]
	}
	return described
}

// Profile is a GitHub user profile, decoded to the fields gitfolio renders.
type Profile struct {
	Login       string    `json:"login"`
	Name        *string   `json:"name"`
	Bio         *string   `json:"bio"`
	Company     *string   `json:"company"`
	Location    *string   `json:"location"`
	Blog        *string   `json:"blog"`
	AvatarURL   string    `json:"avatar_url"`
	HTMLURL     string    `json:"html_url"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayName returns the profile name, falling back to the login.
func (p Profile) DisplayName() string {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		return *p.Name
	}
	return p.Login
}

// BioText returns the bio, or an empty string when the API reported null.
func (p Profile) BioText() string {
	if p.Bio == nil {
		return ""
	}
	return *p.Bio
}

// Rate describes one rate-limit bucket.
type Rate struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// ResetTime returns the reset instant of the bucket.
func (r Rate) ResetTime() time.Time {
	return time.Unix(r.Reset, 0)
}

// RateLimits is the response of the /rate_limit endpoint.
type RateLimits struct {
	Resources struct {
		Core   Rate `json:"core"`
		Search Rate `json:"search"`
	} `json:"resources"`
}

// Release is a repository release, used by the update check.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// searchResult is the envelope of the /search/repositories endpoint.
type searchResult struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}
