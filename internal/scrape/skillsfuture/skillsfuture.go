// Package skillsfuture scrapes a public course directory. Extraction is
// selector-driven from config so markup drift is a config edit, not a
// rebuild.
package skillsfuture

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"coursehub-engine/internal/config"
	"coursehub-engine/internal/domain"
	"coursehub-engine/internal/scrape/types"
	"coursehub-engine/internal/scrape/util"
)

type Scraper struct {
	cfg     config.DirectorySource
	hc      *http.Client
	limiter *util.HostLimiter
	workers int
}

func New(cfg config.DirectorySource, limiter *util.HostLimiter, maxConcurrent int) *Scraper {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		workers: maxConcurrent,
	}
}

func (s *Scraper) Name() string { return "skillsfuture" }

// Fetch pulls the directory listing, extracts one candidate per course card,
// then hydrates detail pages with bounded concurrency. A card that can't
// yield a title becomes an item error; only an unreachable listing fails the
// run.
func (s *Scraper) Fetch(ctx context.Context, emit func(types.Item)) error {
	doc, err := s.get(ctx, s.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("skillsfuture: listing: %w", err)
	}

	sel := s.cfg.Selectors
	var cards []domain.RawCourse
	var cardErrs []error

	doc.Find(sel.Item).Each(func(i int, card *goquery.Selection) {
		raw, err := s.extractCard(card, i)
		if err != nil {
			cardErrs = append(cardErrs, err)
			return
		}
		cards = append(cards, raw)
	})

	// Hydrate detail pages in parallel but bounded; the host limiter still
	// paces individual requests. Each goroutine owns its own slice slot.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range cards {
		g.Go(func() error {
			s.hydrate(gctx, &cards[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, raw := range cards {
		emit(types.Item{Raw: raw})
	}
	for _, cerr := range cardErrs {
		emit(types.Item{Err: cerr})
	}
	return nil
}

func (s *Scraper) extractCard(card *goquery.Selection, idx int) (domain.RawCourse, error) {
	sel := s.cfg.Selectors

	title := util.CleanText(card.Find(sel.Title).First().Text())
	if title == "" {
		return domain.RawCourse{}, fmt.Errorf("card %d: no title under %q", idx+1, sel.Title)
	}

	raw := domain.RawCourse{
		Title:        title,
		Provider:     util.CleanText(card.Find(sel.Provider).First().Text()),
		PriceText:    util.CleanText(card.Find(sel.Price).First().Text()),
		Description:  util.CleanText(card.Find(sel.Description).First().Text()),
		DurationText: util.CleanText(card.Find(sel.Duration).First().Text()),
		SeatsText:    util.CleanText(card.Find(sel.Seats).First().Text()),
		Location:     util.CleanText(card.Find(sel.Location).First().Text()),
	}

	if href, ok := card.Find(sel.Link).First().Attr("href"); ok {
		raw.SourceURL = s.absolute(strings.TrimSpace(href))
	}
	if raw.SourceURL == "" {
		// no detail page; keep the card keyed by the listing itself
		raw.SourceURL = fmt.Sprintf("%s#card-%d", s.cfg.BaseURL, idx+1)
	}
	return raw, nil
}

// hydrate fills gaps from the course detail page. Hydration is best effort:
// the card data already makes a usable record.
func (s *Scraper) hydrate(ctx context.Context, raw *domain.RawCourse) {
	if raw.SourceURL == "" || strings.Contains(raw.SourceURL, "#card-") {
		return
	}
	doc, err := s.get(ctx, raw.SourceURL)
	if err != nil {
		return
	}

	sel := s.cfg.Selectors
	if raw.Description == "" {
		raw.Description = util.CleanText(doc.Find(sel.Description).First().Text())
	}
	if raw.DurationText == "" {
		raw.DurationText = util.CleanText(doc.Find(sel.Duration).First().Text())
	}
	if raw.SeatsText == "" {
		raw.SeatsText = util.CleanText(doc.Find(sel.Seats).First().Text())
	}
	if raw.Location == "" {
		raw.Location = util.CleanText(doc.Find(sel.Location).First().Text())
	}
	if len(raw.LearningOutcomes) == 0 {
		raw.LearningOutcomes = util.SplitList(doc.Find(".outcomes, .learning-outcomes").Text())
	}
}

func (s *Scraper) get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "CourseHub/1.0 (+local)")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return goquery.NewDocumentFromReader(res.Body)
}

func (s *Scraper) absolute(href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
