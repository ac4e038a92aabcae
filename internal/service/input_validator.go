package service

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/matchedge/internal/models"
)

// PossessionTolerance is how far a possession pair may drift from 100%
const PossessionTolerance = 2.0

// InputValidator reports data quality problems in a match request that the
// profile builder cannot see on its own. Findings are advisory.
type InputValidator struct {
	validate *validator.Validate
}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &InputValidator{validate: v}
}

// Validate returns warnings for a match request. It never fails.
func (v *InputValidator) Validate(req models.MatchRequest) []string {
	var warnings []string

	if models.Present(req.Home.Possession) && models.Present(req.Away.Possession) {
		sum := *req.Home.Possession + *req.Away.Possession
		if math.Abs(sum-100) > PossessionTolerance {
			warnings = append(warnings, fmt.Sprintf("season possession averages sum to %.1f%%, expected about 100%%", sum))
		}
	}

	if req.Context != nil {
		warnings = append(warnings, v.ValidateContext(req.Context)...)
	}

	return warnings
}

// ValidateContext checks a live match snapshot
func (v *InputValidator) ValidateContext(ctx *models.MatchContext) []string {
	var warnings []string

	warnings = append(warnings, v.structWarnings("context", *ctx)...)

	if ctx.Minute > int(models.RegulationMinutes) {
		warnings = append(warnings, fmt.Sprintf("minute %d is past regulation time, elapsed share capped at full time", ctx.Minute))
	}

	if ctx.HomePossession > 0 || ctx.AwayPossession > 0 {
		sum := ctx.HomePossession + ctx.AwayPossession
		if math.Abs(sum-100) > PossessionTolerance {
			warnings = append(warnings, fmt.Sprintf("live possession sums to %.1f%%, expected about 100%%", sum))
		}
	}

	return warnings
}

func (v *InputValidator) structWarnings(prefix string, s interface{}) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{fmt.Sprintf("%s: %v", prefix, err)}
	}

	warnings := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := prefix + "." + fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			warnings = append(warnings, fmt.Sprintf("%s is missing", field))
		case "gte", "lte":
			warnings = append(warnings, fmt.Sprintf("%s out of range (%s %s), got %v", field, fieldError.Tag(), fieldError.Param(), fieldError.Value()))
		default:
			warnings = append(warnings, fmt.Sprintf("%s failed validation: %s", field, fieldError.Tag()))
		}
	}
	return warnings
}
