package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub-engine/internal/domain"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$160 (80% subsidy)", 160},
		{"$1,234.50", 1234.5},
		{"Course fee: $800", 800},
		{"Free", 0},
		{"", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParsePrice(c.in), "input %q", c.in)
	}
}

func TestParseSubsidy(t *testing.T) {
	assert.Equal(t, 80, ParseSubsidy("$160 (80% Subsidy)"))
	assert.Equal(t, 0, ParseSubsidy("$160"))
	assert.Equal(t, 100, ParseSubsidy("150% subsidy"))
	assert.Equal(t, 0, ParseSubsidy("80% discount")) // only subsidy wording counts
}

func TestResolvePricingDerivesBeforePrice(t *testing.T) {
	before, after := ResolvePricing(0, 160, 80)
	assert.InDelta(t, 800, before, 0.001)
	assert.Equal(t, 160.0, after)
}

func TestResolvePricingDerivesAfterPrice(t *testing.T) {
	before, after := ResolvePricing(1200, 0, 80)
	assert.Equal(t, 1200.0, before)
	assert.InDelta(t, 240, after, 0.001)
}

func TestResolvePricingRecomputesInconsistentBefore(t *testing.T) {
	// 500 * 0.2 != 160, so the before-price gets recomputed from the
	// displayed after-price.
	before, after := ResolvePricing(500, 160, 80)
	assert.InDelta(t, 800, before, 0.001)
	assert.Equal(t, 160.0, after)
}

func TestResolvePricingIdempotent(t *testing.T) {
	b1, a1 := ResolvePricing(0, 160, 80)
	b2, a2 := ResolvePricing(b1, a1, 80)
	assert.InDelta(t, b1, b2, 0.001)
	assert.InDelta(t, a1, a2, 0.001)
}

func TestParseSeats(t *testing.T) {
	av, tot := ParseSeats("15 of 20 seats left")
	assert.Equal(t, 15, av)
	assert.Equal(t, 20, tot)

	av, tot = ParseSeats("12/15")
	assert.Equal(t, 12, av)
	assert.Equal(t, 15, tot)

	// single number means both
	av, tot = ParseSeats("8 seats")
	assert.Equal(t, 8, av)
	assert.Equal(t, 8, tot)

	// available can never exceed total
	av, tot = ParseSeats("25 of 20")
	assert.Equal(t, 20, av)
	assert.Equal(t, 20, tot)

	av, tot = ParseSeats("")
	assert.Equal(t, DefaultTotalSeats, av)
	assert.Equal(t, DefaultTotalSeats, tot)
}

func TestCourseDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec, warns := Course(domain.RawCourse{
		Title:     "Data Analytics Fundamentals",
		Provider:  "TechSkills Institute",
		PriceText: "$160 (80% subsidy)",
		Mode:      "Online",
		SourceURL: "https://example.com/c/1",
	}, now)

	assert.Empty(t, warns)
	assert.Equal(t, DefaultCategory, rec.Category)
	assert.Equal(t, DefaultSkillArea, rec.SkillArea)
	assert.Equal(t, DefaultDurationHours, rec.DurationHours)
	assert.Equal(t, DefaultTotalSeats, rec.TotalSeats)
	assert.InDelta(t, 800, rec.PriceBeforeSubsidy, 0.001)
	assert.Equal(t, 160.0, rec.PriceAfterSubsidy)
	assert.Equal(t, 80.0, rec.SubsidyPercentage)
	assert.Equal(t, now, rec.StartDate)
	assert.Equal(t, now.AddDate(0, 0, 30), rec.EndDate)
	assert.Equal(t, now.AddDate(0, 0, -7), rec.RegistrationDeadline)
	assert.Equal(t, domain.ModeOnline, rec.Mode)
	assert.Equal(t, domain.FreqWeekday, rec.Frequency)
	assert.Equal(t, DefaultLearningOutcomes, rec.LearningOutcomes)
}

func TestCourseWarnsOnDataQuality(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, 10)
	late := start.AddDate(0, 0, 3) // deadline after start

	rec, warns := Course(domain.RawCourse{
		Title:           "Evening Welding",
		Provider:        "Trade School",
		Frequency:       "Evenings, twice weekly",
		Mode:            "In-person",
		StartDate:       &start,
		RegistrationDue: &late,
	}, now)

	require.Len(t, warns, 2) // late deadline + missing location
	assert.Equal(t, late, rec.RegistrationDeadline)
	assert.Equal(t, domain.FreqEvening, rec.Frequency)
	assert.Equal(t, domain.ModeInPerson, rec.Mode)
}

func TestCourseEndBeforeStartGetsPushedOut(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, 10)
	end := start.AddDate(0, 0, -1)

	rec, warns := Course(domain.RawCourse{
		Title:     "Backwards Course",
		Provider:  "P",
		Mode:      "online",
		StartDate: &start,
		EndDate:   &end,
	}, now)

	require.NotEmpty(t, warns)
	assert.True(t, rec.EndDate.After(rec.StartDate))
}

func TestFrequencyAndModeMapping(t *testing.T) {
	assert.Equal(t, domain.FreqWeekend, Frequency("Weekend intensive"))
	assert.Equal(t, domain.FreqFullTime, Frequency("Full-time"))
	assert.Equal(t, domain.FreqPartTime, Frequency("part time"))
	assert.Equal(t, domain.FreqWeekday, Frequency(""))

	assert.Equal(t, domain.ModeHybrid, Mode("Blended learning"))
	assert.Equal(t, domain.ModeOnline, Mode("Virtual classroom"))
	assert.Equal(t, domain.ModeInPerson, Mode("Campus"))
}
