package explorer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatDollars formats an income rounded to whole dollars, e.g. "$52,800".
func FormatDollars(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// FormatSigned formats a contribution with an explicit sign, e.g. "+$7,000".
func FormatSigned(v float64) string {
	if math.Round(v) < 0 {
		return FormatDollars(v)
	}
	return "+" + FormatDollars(v)
}

// FormatValue formats a raw feature value. Whole numbers print without a
// fractional part; nil prints as "n/a".
func FormatValue(v *float64) string {
	if v == nil {
		return "n/a"
	}
	if *v == math.Trunc(*v) && math.Abs(*v) < 1e15 {
		return humanize.Comma(int64(*v))
	}
	return strconv.FormatFloat(*v, 'g', 4, 64)
}

// FormatRank formats a 1-based rank as an ordinal, e.g. "2nd".
func FormatRank(rank int) string {
	return humanize.Ordinal(rank)
}

// FormatPercentage formats a ratio (0-1) as percentage
func FormatPercentage(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
