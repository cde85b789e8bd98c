package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// hrefPattern pulls hyperlink targets out of raw markup. This is a deliberate
// simplification over a structural HTML parse: the crawl only needs link
// targets, so malformed markup may silently miss or misresolve links.
var hrefPattern = regexp.MustCompile(`(?i)href=["']([^"']*)["']`)

// LinkExtractor finds in-domain hyperlinks in fetched page content. Links
// resolving to a host other than the configured base host are discarded, so
// the crawl never leaves the base domain.
type LinkExtractor struct {
	baseHost string
	logger   *zap.Logger
}

// NewLinkExtractor builds an extractor scoped to the host of baseURL.
func NewLinkExtractor(baseURL string, logger *zap.Logger) (*LinkExtractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}
	return &LinkExtractor{baseHost: u.Hostname(), logger: logger}, nil
}

// Extract returns the deduplicated, absolute, in-domain link targets found in
// content, resolving relative references against pageURL.
func (e *LinkExtractor) Extract(content, pageURL string) []string {
	seen := make(map[string]struct{})
	var links []string
	for _, m := range hrefPattern.FindAllStringSubmatch(content, -1) {
		raw := m[1]
		lower := strings.ToLower(raw)
		if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
			continue
		}
		resolved, ok := e.resolve(raw, pageURL)
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	}
	return links
}

// resolve turns a candidate href into an absolute in-domain URL. Malformed
// URLs and out-of-domain hosts are discarded, never raised as errors.
func (e *LinkExtractor) resolve(link, pageURL string) (string, bool) {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	if strings.TrimSpace(link) == "" {
		return "", false
	}

	ref, err := url.Parse(link)
	if err != nil {
		e.logger.Debug("discarding malformed link", zap.String("link", link), zap.Error(err))
		return "", false
	}
	if !ref.IsAbs() {
		base, err := url.Parse(pageURL)
		if err != nil {
			e.logger.Debug("discarding link with malformed page url",
				zap.String("link", link), zap.String("page_url", pageURL), zap.Error(err))
			return "", false
		}
		ref = base.ResolveReference(ref)
	}
	if ref.Hostname() != e.baseHost {
		return "", false
	}
	return ref.String(), true
}
