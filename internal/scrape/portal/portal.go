// Package portal ingests courses from an authenticated provider portal API.
// The password comes from the OS keychain, never from config.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coursehub-engine/internal/domain"
	"coursehub-engine/internal/scrape/types"
	"coursehub-engine/internal/scrape/util"
)

// PasswordFunc resolves the portal password for a keyring account. Split out
// so tests don't need a keychain.
type PasswordFunc func(keyringAccount string) (string, error)

type Config struct {
	BaseURL        string
	Username       string
	KeyringAccount string
	PageSize       int
}

type Adapter struct {
	cfg      Config
	hc       *http.Client
	limiter  *util.HostLimiter
	password PasswordFunc
}

func New(cfg Config, limiter *util.HostLimiter, password PasswordFunc) *Adapter {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &Adapter{
		cfg:      cfg,
		hc:       &http.Client{Timeout: 20 * time.Second},
		limiter:  limiter,
		password: password,
	}
}

func (a *Adapter) Name() string { return "portal" }

type loginResponse struct {
	Token string `json:"token"`
}

type portalCourse struct {
	Ref         string   `json:"ref"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Provider    string   `json:"provider"`
	Category    string   `json:"category"`
	SkillArea   string   `json:"skillArea"`
	Price       string   `json:"price"`
	Duration    string   `json:"duration"`
	Seats       string   `json:"seats"`
	StartDate   string   `json:"startDate"` // RFC 3339 date
	EndDate     string   `json:"endDate"`
	Deadline    string   `json:"registrationDeadline"`
	Frequency   string   `json:"frequency"`
	Mode        string   `json:"mode"`
	Location    string   `json:"location"`
	Outcomes    []string `json:"outcomes"`
	URL         string   `json:"url"`
}

type coursePage struct {
	Courses []portalCourse `json:"courses"`
	HasMore bool           `json:"hasMore"`
}

// Fetch logs in, then walks the paged course list. Failing to establish a
// session fails the whole run; a malformed course entry is an item error.
func (a *Adapter) Fetch(ctx context.Context, emit func(types.Item)) error {
	token, err := a.login(ctx)
	if err != nil {
		return fmt.Errorf("portal: %w", err)
	}

	for page := 1; ; page++ {
		pg, err := a.fetchPage(ctx, token, page)
		if err != nil {
			if page == 1 {
				return fmt.Errorf("portal: first page: %w", err)
			}
			// later pages failing lose the tail, not the run
			emit(types.Item{Err: fmt.Errorf("page %d: %w", page, err)})
			return nil
		}
		for i, pc := range pg.Courses {
			raw, err := a.toRaw(pc)
			if err != nil {
				emit(types.Item{Err: fmt.Errorf("page %d entry %d: %w", page, i+1, err)})
				continue
			}
			emit(types.Item{Raw: raw})
		}
		if !pg.HasMore {
			return nil
		}
	}
}

func (a *Adapter) login(ctx context.Context) (string, error) {
	pw, err := a.password(a.cfg.KeyringAccount)
	if err != nil {
		return "", fmt.Errorf("credentials: %w", err)
	}

	body, _ := json.Marshal(map[string]string{
		"username": a.cfg.Username,
		"password": pw,
	})
	loginURL := strings.TrimRight(a.cfg.BaseURL, "/") + "/api/login"

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, loginURL); err != nil {
			return "", err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("login failed: status %d", res.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(res.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("login decode: %w", err)
	}
	if lr.Token == "" {
		return "", fmt.Errorf("login returned no token")
	}
	return lr.Token, nil
}

func (a *Adapter) fetchPage(ctx context.Context, token string, page int) (coursePage, error) {
	pageURL := fmt.Sprintf("%s/api/courses?page=%d&limit=%d",
		strings.TrimRight(a.cfg.BaseURL, "/"), page, a.cfg.PageSize)

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, pageURL); err != nil {
			return coursePage{}, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return coursePage{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := a.hc.Do(req)
	if err != nil {
		return coursePage{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return coursePage{}, fmt.Errorf("status %d", res.StatusCode)
	}

	var pg coursePage
	if err := json.NewDecoder(res.Body).Decode(&pg); err != nil {
		return coursePage{}, fmt.Errorf("decode: %w", err)
	}
	return pg, nil
}

func (a *Adapter) toRaw(pc portalCourse) (domain.RawCourse, error) {
	title := util.CleanText(pc.Title)
	if title == "" {
		return domain.RawCourse{}, fmt.Errorf("missing title (ref=%q)", pc.Ref)
	}

	raw := domain.RawCourse{
		Title:            title,
		Description:      util.CleanText(pc.Description),
		Provider:         util.CleanText(pc.Provider),
		ProviderRef:      pc.Ref,
		Category:         util.CleanText(pc.Category),
		SkillArea:        util.CleanText(pc.SkillArea),
		PriceText:        pc.Price,
		DurationText:     pc.Duration,
		SeatsText:        pc.Seats,
		Frequency:        pc.Frequency,
		Mode:             pc.Mode,
		Location:         util.CleanText(pc.Location),
		LearningOutcomes: pc.Outcomes,
		SourceURL:        pc.URL,
	}
	if raw.SourceURL == "" {
		raw.SourceURL = fmt.Sprintf("%s/courses/%s", strings.TrimRight(a.cfg.BaseURL, "/"), pc.Ref)
	}

	raw.StartDate = parseDate(pc.StartDate)
	raw.EndDate = parseDate(pc.EndDate)
	raw.RegistrationDue = parseDate(pc.Deadline)
	return raw, nil
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
