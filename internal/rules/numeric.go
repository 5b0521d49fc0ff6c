package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

var (
	decimalPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	sicPattern     = regexp.MustCompile(`^[0-9]{5}$`)
)

// turnoverRules: optional; no thousands separators, positive, two decimals at most.
func turnoverRules() []Rule {
	f := schema.Turnover
	return []Rule{
		matches(f, TurnoverIncludesComma, noComma),
		matches(f, InvalidTurnover, decimalPattern.MatchString),
		matches(f, TurnoverMustBeGreaterThanZero, positive),
		matches(f, TurnoverHasTooManyDecimalPlaces, func(v string) bool {
			_, frac, ok := strings.Cut(v, ".")
			return !ok || len(frac) <= 2
		}),
	}
}

// tonnageRules: required whole number greater than zero.
func tonnageRules() []Rule {
	f := schema.TotalTonnage
	return []Rule{
		required(f, MissingTotalTonnage),
		matches(f, TotalTonnageIncludesComma, noComma),
		matches(f, InvalidTotalTonnage, integerPattern.MatchString),
		matches(f, TotalTonnageMustBeGreaterThanZero, positive),
	}
}

func sicRule() Rule {
	return matches(schema.MainActivitySic, InvalidMainActivitySic, sicPattern.MatchString)
}

func noComma(v string) bool { return !strings.Contains(v, ",") }

func positive(v string) bool {
	n, err := strconv.ParseFloat(v, 64)
	return err == nil && n > 0
}
