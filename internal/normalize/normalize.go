// Package normalize turns raw scraped strings into typed CourseRecord
// fields. Everything here is pure and deterministic: no network, no storage,
// no clock reads beyond the `now` the caller passes in.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"coursehub-engine/internal/domain"
)

// Defaults applied when a source omits a field. Ingestion favors having a
// record over having a complete one.
const (
	DefaultCategory      = "General"
	DefaultSkillArea     = "General"
	DefaultDurationHours = 40
	DefaultTotalSeats    = 20

	priceTolerance = 0.01
)

var DefaultLearningOutcomes = []string{"Complete the course objectives"}

var (
	priceRe    = regexp.MustCompile(`\$([0-9,]+\.?[0-9]*)`)
	subsidyRe  = regexp.MustCompile(`(?i)(\d+)%\s*subsidy`)
	durationRe = regexp.MustCompile(`(\d+)\s*(?:hours?|hrs?|h)\b`)
	seatsRe    = regexp.MustCompile(`(\d+)\s*(?:of|/)\s*(\d+)`)
	intRe      = regexp.MustCompile(`\d+`)
)

// ParsePrice extracts the first currency-formatted amount from s.
// Absent or unparseable prices default to 0.
func ParsePrice(s string) float64 {
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseSubsidy extracts an integer "NN% subsidy" percentage, clamped to
// 0..100. Absent subsidies default to 0.
func ParseSubsidy(s string) int {
	m := subsidyRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ParseDuration extracts an hour count from strings like "40 hours".
func ParseDuration(s string) int {
	m := durationRe.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return DefaultDurationHours
	}
	v, _ := strconv.Atoi(m[1])
	if v <= 0 {
		return DefaultDurationHours
	}
	return v
}

// ParseSeats reads "15 of 20" / "15/20" shaped seat counts, or a single
// number meaning both available and total.
func ParseSeats(s string) (available, total int) {
	if m := seatsRe.FindStringSubmatch(s); m != nil {
		available, _ = strconv.Atoi(m[1])
		total, _ = strconv.Atoi(m[2])
	} else if m := intRe.FindString(s); m != "" {
		available, _ = strconv.Atoi(m)
		total = available
	} else {
		return DefaultTotalSeats, DefaultTotalSeats
	}
	if total <= 0 {
		total = DefaultTotalSeats
	}
	if available < 0 {
		available = 0
	}
	if available > total {
		available = total
	}
	return available, total
}

// ResolvePricing derives whichever side of the subsidy equation is missing:
//
//	after = before * (1 - pct/100)
//
// When both sides are present but inconsistent beyond tolerance, the
// before-price is recomputed from the after-price (the after-price is what
// source sites actually display). Idempotent.
func ResolvePricing(before, after float64, pct int) (float64, float64) {
	if pct <= 0 {
		if before == 0 {
			before = after
		}
		if after == 0 {
			after = before
		}
		return before, after
	}
	factor := 1 - float64(pct)/100
	switch {
	case after > 0 && (before == 0 || math.Abs(before*factor-after) > priceTolerance):
		before = after / factor
	case before > 0 && after == 0:
		after = before * factor
	}
	return before, after
}

// Course converts a raw scraped candidate into a canonical CourseRecord.
// It never fails: missing fields fall back to defaults, and data-quality
// oddities (deadline after start, end before start) come back as warnings
// for the caller to log.
func Course(raw domain.RawCourse, now time.Time) (domain.CourseRecord, []string) {
	var warns []string

	after := ParsePrice(raw.PriceText)
	pct := ParseSubsidy(raw.PriceText)
	before, after := ResolvePricing(0, after, pct)

	available, total := ParseSeats(raw.SeatsText)

	start := now
	if raw.StartDate != nil && !raw.StartDate.IsZero() {
		start = raw.StartDate.UTC()
	}
	end := start.AddDate(0, 0, 30)
	if raw.EndDate != nil && !raw.EndDate.IsZero() {
		end = raw.EndDate.UTC()
	}
	if !end.After(start) {
		warns = append(warns, fmt.Sprintf("end date %s not after start date %s, pushed out 30 days",
			end.Format("2006-01-02"), start.Format("2006-01-02")))
		end = start.AddDate(0, 0, 30)
	}
	deadline := start.AddDate(0, 0, -7)
	if raw.RegistrationDue != nil && !raw.RegistrationDue.IsZero() {
		deadline = raw.RegistrationDue.UTC()
	}
	if deadline.After(start) {
		// source data violates deadline <= start; keep it, just flag it
		warns = append(warns, fmt.Sprintf("registration deadline %s after start date %s",
			deadline.Format("2006-01-02"), start.Format("2006-01-02")))
	}

	rec := domain.CourseRecord{
		Title:                cleanText(raw.Title),
		Description:          cleanText(raw.Description),
		Provider:             cleanText(raw.Provider),
		ProviderRef:          strings.TrimSpace(raw.ProviderRef),
		Category:             fallback(raw.Category, DefaultCategory),
		SkillArea:            fallback(raw.SkillArea, DefaultSkillArea),
		DurationHours:        ParseDuration(raw.DurationText),
		PriceBeforeSubsidy:   before,
		PriceAfterSubsidy:    after,
		SubsidyPercentage:    float64(pct),
		AvailableSeats:       available,
		TotalSeats:           total,
		StartDate:            start,
		EndDate:              end,
		RegistrationDeadline: deadline,
		Frequency:            Frequency(raw.Frequency),
		Mode:                 Mode(raw.Mode),
		Location:             cleanText(raw.Location),
		Prerequisites:        raw.Prerequisites,
		LearningOutcomes:     raw.LearningOutcomes,
		SourceURL:            strings.TrimSpace(raw.SourceURL),
		LastUpdated:          now,
	}
	if len(rec.LearningOutcomes) == 0 {
		rec.LearningOutcomes = append([]string(nil), DefaultLearningOutcomes...)
	}
	if rec.Mode != domain.ModeOnline && rec.Location == "" {
		warns = append(warns, "non-online course has no location")
	}
	return rec, warns
}

// Frequency maps free-form schedule wording onto the canonical set.
func Frequency(s string) string {
	switch f := strings.ToLower(strings.TrimSpace(s)); {
	case strings.Contains(f, "weekend"):
		return domain.FreqWeekend
	case strings.Contains(f, "evening"), strings.Contains(f, "night"):
		return domain.FreqEvening
	case strings.Contains(f, "full"):
		return domain.FreqFullTime
	case strings.Contains(f, "part"):
		return domain.FreqPartTime
	default:
		return domain.FreqWeekday
	}
}

// Mode maps delivery wording onto online / in-person / hybrid.
func Mode(s string) string {
	switch m := strings.ToLower(strings.TrimSpace(s)); {
	case strings.Contains(m, "hybrid"), strings.Contains(m, "blended"):
		return domain.ModeHybrid
	case strings.Contains(m, "online"), strings.Contains(m, "virtual"), strings.Contains(m, "e-learning"):
		return domain.ModeOnline
	default:
		return domain.ModeInPerson
	}
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

func fallback(s, def string) string {
	if s = cleanText(s); s == "" {
		return def
	}
	return s
}
