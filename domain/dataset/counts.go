package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"gocontab/domain/core"
)

// maxCountFloat is 2^63, the smallest float64 that no int64 can hold
const maxCountFloat = 1 << 63

// ParseCount converts a raw cell into a non-negative integer count.
// Thousands separators ("1,234", "1 234") and integral decimals ("12.0") are accepted.
func ParseCount(raw string) (int64, bool, string) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false, "empty cell"
	}

	// Accounting style negatives: (12) -> -12
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	if strings.Contains(cleanVal, ",") && !strings.Contains(cleanVal, ".") {
		// A comma followed by exactly three digits is a thousands separator
		idx := strings.LastIndex(cleanVal, ",")
		if len(cleanVal)-idx-1 == 3 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	} else {
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, " ", "")

	// Plain integers parse exactly; floats only cover forms like "12.0" or "3e2"
	n, err := strconv.ParseInt(cleanVal, 10, 64)
	switch {
	case err == nil:
		if n < 0 || (isNegative && n != 0) {
			return 0, false, "negative count"
		}
		return n, true, ""
	case errors.Is(err, strconv.ErrRange):
		if isNegative || strings.HasPrefix(cleanVal, "-") {
			return 0, false, "negative count"
		}
		return 0, false, "count out of range"
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false, "not numeric"
	}
	if val < 0 || (isNegative && val != 0) {
		return 0, false, "negative count"
	}
	if val != math.Trunc(val) {
		return 0, false, "not an integer count"
	}
	if val >= maxCountFloat {
		return 0, false, "count out of range"
	}
	return int64(val), true, ""
}

// Counts parses a whole column as counts, failing on the first invalid cell.
// Row numbers in errors are 1-based data rows.
func (d *Dataset) Counts(idx int) ([]int64, error) {
	cells := d.Column(idx)
	out := make([]int64, len(cells))
	for i, cell := range cells {
		n, ok, reason := ParseCount(cell)
		if !ok {
			return nil, core.NewCountError(d.Headers[idx], i+1, cell, reason)
		}
		out[i] = n
	}
	return out, nil
}
