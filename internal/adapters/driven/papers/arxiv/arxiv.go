// Package arxiv provides a PaperSource backed by the arXiv Atom API.
//
// arXiv asks clients to keep request rates below one call every three
// seconds, so all requests pass through a shared token bucket limiter.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.PaperSource = (*Source)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://export.arxiv.org/api/query"
	DefaultTimeout = 30 * time.Second

	// requestInterval is the minimum spacing between API calls that
	// arXiv's usage policy asks for.
	requestInterval = 3 * time.Second
)

// Config holds configuration for the arXiv source.
type Config struct {
	// BaseURL is the query endpoint (default: the public arXiv API).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Source searches arXiv.
type Source struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// feed is the subset of the Atom response we consume.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
}

type author struct {
	Name        string `xml:"name"`
	Affiliation string `xml:"affiliation"`
}

// New creates an arXiv source.
func New(cfg Config) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Source{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// Name identifies the source for logging.
func (s *Source) Name() string { return "arxiv" }

// query performs a rate-limited API call and parses the Atom feed.
func (s *Source) query(ctx context.Context, searchQuery string, maxResults int) (*feed, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("arxiv error (status %d): %s", resp.StatusCode, string(body))
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return &f, nil
}

// SearchPapers returns up to limit paper titles matching query.
func (s *Source) SearchPapers(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	f, err := s.query(ctx, "all:"+query, limit)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		title := normalizeTitle(e.Title)
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// SearchAuthor returns a profile assembled from the author's most
// recent arXiv submissions.
func (s *Source) SearchAuthor(ctx context.Context, name string) (*domain.AuthorProfile, error) {
	f, err := s.query(ctx, fmt.Sprintf("au:%q", name), 10)
	if err != nil {
		return nil, err
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("author %q on arxiv: %w", name, domain.ErrNotFound)
	}

	profile := &domain.AuthorProfile{Name: name}
	for _, e := range f.Entries {
		title := normalizeTitle(e.Title)
		if title == "" {
			continue
		}
		profile.RecentPapers = append(profile.RecentPapers, title)
		if profile.Affiliation == "" {
			for _, a := range e.Authors {
				if strings.EqualFold(a.Name, name) && a.Affiliation != "" {
					profile.Affiliation = a.Affiliation
					break
				}
			}
		}
	}
	return profile, nil
}

// normalizeTitle collapses the whitespace arXiv wraps long titles with.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}
