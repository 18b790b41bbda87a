package domain

import "time"

// Frequency values a course can carry. Source sites are inconsistent about
// wording; the normalizer maps everything onto these.
const (
	FreqWeekday  = "weekday"
	FreqWeekend  = "weekend"
	FreqEvening  = "evening"
	FreqFullTime = "full-time"
	FreqPartTime = "part-time"
)

// Delivery modes.
const (
	ModeOnline   = "online"
	ModeInPerson = "in-person"
	ModeHybrid   = "hybrid"
)

// RawCourse is what a source adapter extracts from a provider page before
// normalization. String-typed fields stay strings here on purpose; the
// normalizer owns all parsing.
type RawCourse struct {
	Title            string
	Description      string
	Provider         string
	ProviderRef      string
	Category         string
	SkillArea        string
	DurationText     string // e.g. "40 hours"
	PriceText        string // e.g. "$160 (80% subsidy)"
	SeatsText        string // e.g. "15 of 20 seats left"
	StartDate        *time.Time
	EndDate          *time.Time
	RegistrationDue  *time.Time
	Frequency        string
	Mode             string
	Location         string
	Prerequisites    []string
	LearningOutcomes []string
	SourceURL        string
}

// CourseRecord is the canonical catalog entity.
type CourseRecord struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Provider             string    `json:"provider"`
	ProviderRef          string    `json:"providerRef"`
	Category             string    `json:"category"`
	SkillArea            string    `json:"skillArea"`
	DurationHours        int       `json:"duration"`
	PriceBeforeSubsidy   float64   `json:"priceBeforeSubsidy"`
	PriceAfterSubsidy    float64   `json:"priceAfterSubsidy"`
	SubsidyPercentage    float64   `json:"subsidyPercentage"`
	AvailableSeats       int       `json:"availableSeats"`
	TotalSeats           int       `json:"totalSeats"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	Frequency            string    `json:"frequency"`
	Mode                 string    `json:"mode"`
	Location             string    `json:"location"`
	Prerequisites        []string  `json:"prerequisites"`
	LearningOutcomes     []string  `json:"learningOutcomes"`
	SourceURL            string    `json:"sourceUrl"`
	LastUpdated          time.Time `json:"lastUpdated"`
	CreatedAt            time.Time `json:"createdAt"`
}
