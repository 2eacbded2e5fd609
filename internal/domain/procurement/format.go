package procurement

import (
	"fmt"
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
)

// Format is how a metric value is printed on a tile or in a prompt.
type Format int

const (
	FormatCount      Format = iota // 1,234
	FormatMoney                    // $1,234
	FormatMoneyCents               // $1,234.56
	FormatCents                    // $1234.56
	FormatDecimal                  // 12.3
	FormatPercent                  // 12.3%
)

// Apply renders v.
func (f Format) Apply(v float64) string {
	switch f {
	case FormatCount:
		return grouped(v, 0)
	case FormatMoney:
		return "$" + grouped(v, 0)
	case FormatMoneyCents:
		return "$" + grouped(v, 2)
	case FormatCents:
		return fmt.Sprintf("$%.2f", v)
	case FormatPercent:
		return fmt.Sprintf("%.1f%%", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// grouped prints v with thousands separators and the given decimals.
// humanize.FormatFloat goes through int64, so larger magnitudes are grouped
// from a big.Int instead.
func grouped(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%.*f", decimals, v)
	}
	scale := math.Pow10(decimals)
	v = math.Round(v*scale) / scale
	if v == 0 {
		v = 0 // drops the sign of -0
	}

	if math.Abs(v) < math.MaxInt64/2 {
		if decimals == 0 {
			return humanize.FormatFloat("#,###.", v)
		}
		return humanize.FormatFloat("#,###.##", v)
	}

	n, _ := big.NewFloat(v).Int(nil)
	out := humanize.BigComma(n)
	if decimals > 0 {
		out += "." + fmt.Sprintf("%0*d", decimals, 0)
	}
	return out
}
