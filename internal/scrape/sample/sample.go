// Package sample is a built-in source with a small fixed catalog. It exists
// so a fresh install has data before any real source is configured, and so
// the ingestion path can be exercised without network access.
package sample

import (
	"context"
	"time"

	"coursehub-engine/internal/domain"
	"coursehub-engine/internal/scrape/types"
)

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string { return "sample" }

func (a *Adapter) Fetch(_ context.Context, emit func(types.Item)) error {
	for _, raw := range sampleCourses() {
		emit(types.Item{Raw: raw})
	}
	return nil
}

func sampleCourses() []domain.RawCourse {
	start := time.Now().AddDate(0, 0, 14)
	end := start.AddDate(0, 0, 60)
	deadline := start.AddDate(0, 0, -7)

	return []domain.RawCourse{
		{
			Title:            "Data Analytics Fundamentals",
			Description:      "Learn the basics of data analytics including Excel, SQL, and data visualization techniques.",
			Provider:         "TechSkills Institute",
			Category:         "Data & Analytics",
			SkillArea:        "Data Analysis",
			PriceText:        "$800 (80% subsidy)",
			DurationText:     "40 hours",
			SeatsText:        "15 of 20",
			StartDate:        &start,
			EndDate:          &end,
			RegistrationDue:  &deadline,
			Frequency:        "weekday",
			Mode:             "hybrid",
			Location:         "Singapore",
			LearningOutcomes: []string{
				"Analyze data using Excel and SQL",
				"Create dashboards and visualizations",
				"Make data-driven business decisions",
			},
			SourceURL: "https://sample.coursehub.local/courses/data-analytics-fundamentals",
		},
		{
			Title:            "Digital Marketing Essentials",
			Description:      "Master digital marketing channels including social media, SEO, and paid advertising.",
			Provider:         "Marketing Pro Academy",
			Category:         "Marketing",
			SkillArea:        "Digital Marketing",
			PriceText:        "$1,200 (70% subsidy)",
			DurationText:     "32 hours",
			SeatsText:        "8 of 25",
			StartDate:        &start,
			EndDate:          &end,
			RegistrationDue:  &deadline,
			Frequency:        "evening",
			Mode:             "online",
			LearningOutcomes: []string{
				"Plan and run social media campaigns",
				"Optimize content for search engines",
				"Measure marketing ROI",
			},
			SourceURL: "https://sample.coursehub.local/courses/digital-marketing-essentials",
		},
		{
			Title:            "Python Programming for Beginners",
			Description:      "Introduction to programming with Python, covering fundamentals through hands-on projects.",
			Provider:         "Code Academy Singapore",
			Category:         "Information Technology",
			SkillArea:        "Software Development",
			PriceText:        "$950 (75% subsidy)",
			DurationText:     "48 hours",
			SeatsText:        "12 of 18",
			StartDate:        &start,
			EndDate:          &end,
			RegistrationDue:  &deadline,
			Frequency:        "weekend",
			Mode:             "in-person",
			Location:         "Singapore",
			LearningOutcomes: []string{
				"Write Python programs from scratch",
				"Work with files, APIs, and databases",
				"Build a capstone project",
			},
			SourceURL: "https://sample.coursehub.local/courses/python-programming-beginners",
		},
	}
}
