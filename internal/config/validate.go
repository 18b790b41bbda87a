package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

func Validate(cfg Config) Validation {
	var res Validation

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if cfg.Scraping.DelayMS < 250 {
		res.addWarn("scraping.delay_ms is very low (%d); source sites may throttle or block", cfg.Scraping.DelayMS)
	}
	if cfg.Scraping.MaxConcurrent > 10 {
		res.addWarn("scraping.max_concurrent_requests=%d is aggressive for scraping", cfg.Scraping.MaxConcurrent)
	}

	if _, err := cron.ParseStandard(cfg.Schedule.DailyCron); err != nil {
		res.addErr("schedule.daily_cron %q is not a valid cron expression: %v", cfg.Schedule.DailyCron, err)
	}

	if cfg.Sources.SkillsFuture.Enabled {
		if strings.TrimSpace(cfg.Sources.SkillsFuture.BaseURL) == "" {
			res.addErr("sources.skillsfuture.base_url is required when enabled")
		}
		if strings.TrimSpace(cfg.Sources.SkillsFuture.Selectors.Item) == "" {
			res.addErr("sources.skillsfuture.selectors.item is required when enabled")
		}
		if strings.TrimSpace(cfg.Sources.SkillsFuture.Selectors.Title) == "" {
			res.addErr("sources.skillsfuture.selectors.title is required when enabled")
		}
	}
	if cfg.Sources.Portal.Enabled {
		if strings.TrimSpace(cfg.Sources.Portal.BaseURL) == "" {
			res.addErr("sources.portal.base_url is required when enabled")
		}
		if strings.TrimSpace(cfg.Sources.Portal.Username) == "" {
			res.addErr("sources.portal.username is required when enabled")
		}
	}

	if !cfg.Sources.SkillsFuture.Enabled && !cfg.Sources.Portal.Enabled && !cfg.Sources.Sample.Enabled {
		res.addWarn("no sources enabled; scheduled runs will do nothing")
	}

	return res
}
