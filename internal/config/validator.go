package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/go-playground/validator/v10"
)

var sourceKinds = []string{
	SourceKindHolidaysCalendar,
	SourceKindGovUK,
	SourceKindOfficeHolidays,
	SourceKindDataGovSG,
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case ModeOnetime, ModeAutomated:
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("sourcekind", func(fl validator.FieldLevel) bool {
		return slices.Contains(sourceKinds, fl.Field().String())
	})

	// A region catalogue needs at least two distinct, non-empty real regions.
	_ = validate.RegisterValidation("regioncatalogue", func(fl validator.FieldLevel) bool {
		regions, ok := fl.Field().Interface().([]string)
		if !ok {
			return false
		}
		seen := make(map[string]bool, len(regions))
		for _, region := range regions {
			region = strings.TrimSpace(region)
			if region == "" || seen[region] {
				return false
			}
			seen[region] = true
		}
		delete(seen, models.RegionAll)
		return len(seen) >= 2
	})

	return validate
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", strings.TrimPrefix(e.Namespace(), "GlobalConfig."), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
}
