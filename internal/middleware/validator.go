package middleware

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
)

// ValidationError marks bad user input; the router answers 400.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

const maxVendorLen = 256

// ValidateCategory parses a category label or slug.
func ValidateCategory(raw string) (procurement.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return procurement.CategorySpend, nil
	}
	c, err := procurement.ParseCategory(raw)
	if err != nil {
		return "", &ValidationError{Field: "category", Msg: fmt.Sprintf("%q is not one of the analyses", raw)}
	}
	return c, nil
}

// ValidateModel checks the model against the selector list; empty means default.
func ValidateModel(model string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return ai.DefaultModel, nil
	}
	if !ai.IsKnownModel(model) {
		return "", &ValidationError{Field: "model", Msg: fmt.Sprintf("%q (allowed: %s)", model, strings.Join(ai.Models, ", "))}
	}
	return model, nil
}

// ValidateVendor cleans the vendor name. The value is bound as a query
// parameter downstream; this only bounds its size and strips control bytes.
func ValidateVendor(vendor string) (string, error) {
	vendor = SanitizeString(vendor)
	if !utf8.ValidString(vendor) {
		return "", &ValidationError{Field: "vendor", Msg: "not valid UTF-8"}
	}
	if len(vendor) > maxVendorLen {
		return "", &ValidationError{Field: "vendor", Msg: fmt.Sprintf("longer than %d bytes", maxVendorLen)}
	}
	return vendor, nil
}

// ValidateRequest validates the three selector values together.
func ValidateRequest(category, vendor, model string) (procurement.AnalysisRequest, error) {
	c, err := ValidateCategory(category)
	if err != nil {
		return procurement.AnalysisRequest{}, err
	}
	v, err := ValidateVendor(vendor)
	if err != nil {
		return procurement.AnalysisRequest{}, err
	}
	m, err := ValidateModel(model)
	if err != nil {
		return procurement.AnalysisRequest{}, err
	}
	return procurement.AnalysisRequest{Category: c, Vendor: v, Model: m}, nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
