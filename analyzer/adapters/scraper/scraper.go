// Package scraper collects product reviews from Amazon marketplace pages.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"review-insights/analyzer/core"
)

const (
	maxProducts   = 5
	sourceName    = "amazon"
	defaultDomain = "com"
)

var domains = map[string]struct{}{
	"in": {}, "com": {}, "co.uk": {}, "de": {}, "fr": {},
}

var ratingExpr = regexp.MustCompile(`(\d+(?:[.,]\d+)?) (?:out of|von|sur) 5`)

type Config struct {
	UserAgent  string
	Timeout    time.Duration
	Delay      time.Duration
	MaxReviews int
	MaxPages   int
	Domain     string
	// BaseURL replaces https://www.amazon.<domain> when set.
	BaseURL string
}

type Scraper struct {
	log     *slog.Logger
	client  http.Client
	cfg     Config
	limiter *rate.Limiter
}

type product struct {
	asin  string
	title string
}

func New(cfg Config, log *slog.Logger) (*Scraper, error) {
	if cfg.MaxReviews < 1 {
		return nil, fmt.Errorf("wrong max reviews specified: %d", cfg.MaxReviews)
	}
	if cfg.MaxPages < 1 {
		return nil, fmt.Errorf("wrong max pages specified: %d", cfg.MaxPages)
	}
	if cfg.Domain == "" {
		cfg.Domain = defaultDomain
	}
	if _, ok := domains[cfg.Domain]; !ok {
		return nil, &core.InvalidConfigurationError{Param: "domain", Value: cfg.Domain}
	}
	return &Scraper{
		log:    log,
		client:  http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.Delay), 1),
	}, nil
}

// Fetch searches the marketplace for the query, once per competitor brand
// when competitors are given, and collects up to MaxReviews reviews for
// each matching product.
func (s *Scraper) Fetch(ctx context.Context, req core.ScrapeRequest) ([]core.Review, error) {
	domain := req.Domain
	if domain == "" {
		domain = s.cfg.Domain
	}
	if _, ok := domains[domain]; !ok {
		return nil, &core.InvalidConfigurationError{Param: "domain", Value: domain}
	}
	maxReviews := req.MaxReviews
	if maxReviews < 1 || maxReviews > s.cfg.MaxReviews {
		maxReviews = s.cfg.MaxReviews
	}
	base := s.cfg.BaseURL
	if base == "" {
		base = "https://www.amazon." + domain
	}

	s.log.Info("scrape started", "query", req.Query, "competitors", len(req.Competitors), "domain", domain)
	defer func(start time.Time) {
		s.log.Info("scrape finished", "duration", time.Since(start))
	}(time.Now())

	products, err := s.products(ctx, base, req)
	if err != nil {
		return nil, err
	}
	s.log.Debug("found products", "count", len(products))

	reviews := make([]core.Review, 0)
	seen := make(map[string]struct{})
	for _, p := range products {
		productReviews, err := s.reviews(ctx, base, p, maxReviews)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Error("failed to scrape product reviews", "asin", p.asin, "error", err)
			continue
		}
		for _, r := range productReviews {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

func (s *Scraper) products(ctx context.Context, base string, req core.ScrapeRequest) ([]product, error) {
	queries := []string{req.Query}
	if len(req.Competitors) > 0 {
		queries = queries[:0]
		for _, c := range req.Competitors {
			queries = append(queries, strings.TrimSpace(c+" "+req.Query))
		}
	}

	var found []product
	seen := make(map[string]struct{})
	for _, q := range queries {
		pageURL := base + "/s?" + url.Values{"k": {q}}.Encode()
		doc, err := s.document(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", q, err)
		}
		for _, p := range parseSearch(doc) {
			if _, ok := seen[p.asin]; ok || !matchesAny(p.title, req.Competitors) {
				continue
			}
			seen[p.asin] = struct{}{}
			found = append(found, p)
		}
		if len(found) >= maxProducts {
			break
		}
	}
	if len(found) > maxProducts {
		found = found[:maxProducts]
	}
	return found, nil
}

func matchesAny(title string, brands []string) bool {
	if len(brands) == 0 {
		return true
	}
	title = strings.ToLower(title)
	for _, b := range brands {
		if strings.Contains(title, strings.ToLower(strings.TrimSpace(b))) {
			return true
		}
	}
	return false
}

func (s *Scraper) reviews(ctx context.Context, base string, p product, limit int) ([]core.Review, error) {
	var out []core.Review
	for page := 1; page <= s.cfg.MaxPages && len(out) < limit; page++ {
		pageURL := fmt.Sprintf("%s/product-reviews/%s/?%s", base, url.PathEscape(p.asin), url.Values{
			"reviewerType": {"all_reviews"},
			"sortBy":       {"recent"},
			"pageNumber":   {strconv.Itoa(page)},
		}.Encode())

		doc, err := s.document(ctx, pageURL)
		if err != nil {
			return out, err
		}
		pageReviews := parseReviews(doc, p, base)
		if len(pageReviews) == 0 {
			break
		}
		for _, r := range pageReviews {
			if len(out) == limit {
				break
			}
			if r.ID == "" {
				r.ID = fmt.Sprintf("%s_%d", p.asin, len(out))
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func parseSearch(doc *goquery.Document) []product {
	var out []product
	doc.Find(`div[data-component-type="s-search-result"]`).Each(func(_ int, sel *goquery.Selection) {
		asin := strings.TrimSpace(sel.AttrOr("data-asin", ""))
		if asin == "" {
			return
		}
		title := clean(sel.Find("h2").First().Text())
		out = append(out, product{asin: asin, title: title})
	})
	return out
}

func parseReviews(doc *goquery.Document, p product, base string) []core.Review {
	var out []core.Review
	doc.Find(`div[data-hook="review"]`).Each(func(_ int, sel *goquery.Selection) {
		id := strings.TrimSpace(sel.AttrOr("id", ""))
		ratingText := sel.Find(`i[data-hook="review-star-rating"]`).Text()
		if ratingText == "" {
			ratingText = sel.Find(`i[data-hook="cmps-review-star-rating"]`).Text()
		}

		r := core.Review{
			ID:          id,
			ProductID:   p.asin,
			Text:        clean(sel.Find(`span[data-hook="review-body"]`).Text()),
			Rating:      parseRating(ratingText),
			Source:      sourceName,
			ProductName: p.title,
			Title:       clean(sel.Find(`[data-hook="review-title"] span`).Last().Text()),
			Author:      clean(sel.Find("span.a-profile-name").First().Text()),
			Date:        clean(sel.Find(`span[data-hook="review-date"]`).Text()),
		}
		if r.Title == "" {
			r.Title = clean(sel.Find(`[data-hook="review-title"]`).Text())
		}
		if r.Author == "" {
			r.Author = "Anonymous"
		}
		if id != "" {
			r.URL = base + "/gp/customer-reviews/" + url.PathEscape(id)
		}
		out = append(out, r)
	})
	return out
}

func parseRating(text string) *int {
	m := ratingExpr.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	rating := int(math.Round(v))
	if rating < 1 || rating > 5 {
		return nil
	}
	return &rating
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (s *Scraper) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request to %s not sent: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot get page: %w", err)
	}
	defer s.closeBody(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, core.ErrNotFound
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("marketplace replied %d: %w", resp.StatusCode, core.ErrServiceUnavailable)
	default:
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("cannot decode page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("cannot parse page: %w", err)
	}
	return doc, nil
}

func (s *Scraper) closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		s.log.Warn("failed to close response body", "error", err)
	}
}
