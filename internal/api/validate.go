package api

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	validPeriods         = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}
	validIntervals       = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}
	validDividendPeriods = []string{"1y", "3y", "5y", "max"}
	validStatementTypes  = []string{"income", "balance", "cashflow"}
	validCryptoDays      = []string{"1", "7", "14", "30", "90", "180", "365", "max"}

	dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// clampTop parses a top-N parameter and clamps it to [1, max]. Garbage input
// falls back to the default rather than erroring, matching the listing
// endpoints' forgiving contract.
func clampTop(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

func validatePeriod(period string) error {
	if !slices.Contains(validPeriods, period) {
		return fmt.Errorf("invalid period %q, use: %s", period, strings.Join(validPeriods, ", "))
	}
	return nil
}

func validateInterval(interval string) error {
	if !slices.Contains(validIntervals, interval) {
		return fmt.Errorf("invalid interval %q, use: %s", interval, strings.Join(validIntervals, ", "))
	}
	return nil
}

func validateDate(date string) error {
	if !dateFormat.MatchString(date) {
		return fmt.Errorf("date %q is invalid, use yyyy-mm-dd", date)
	}
	return nil
}

func validateDividendPeriod(period string) error {
	if !slices.Contains(validDividendPeriods, period) {
		return fmt.Errorf("invalid period %q, use: %s", period, strings.Join(validDividendPeriods, ", "))
	}
	return nil
}

func validateStatementType(statementType string) error {
	if !slices.Contains(validStatementTypes, statementType) {
		return fmt.Errorf("invalid statement type %q, use: %s", statementType, strings.Join(validStatementTypes, ", "))
	}
	return nil
}

func validateCryptoDays(days string) error {
	if !slices.Contains(validCryptoDays, days) {
		return fmt.Errorf("invalid days %q, use: %s", days, strings.Join(validCryptoDays, ", "))
	}
	return nil
}

// hasFlag reports whether a presence-style query flag was supplied, with or
// without a value.
func hasFlag(r *http.Request, name string) bool {
	_, ok := r.URL.Query()[name]
	return ok
}

// clampLimit parses a limit parameter into [1, max], defaulting on garbage.
func clampLimit(raw string, def, max int) int {
	return clampTop(raw, def, max)
}
