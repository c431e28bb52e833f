package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amountPrinter formats currency in the audit log with Indian digit grouping.
var amountPrinter = message.NewPrinter(language.MustParse("en-IN"))

var maxGroupedAmount = decimal.NewFromInt(math.MaxInt64)

// formatAmount renders d to paise precision with the sign ahead of the
// currency symbol. Grouping applies to the whole rupees only; the fraction is
// taken from the decimal string so large values keep every digit.
func formatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	if d.LessThan(maxGroupedAmount) {
		whole = amountPrinter.Sprintf("%d", d.IntPart())
	}
	return sign + "₹" + whole + "." + frac
}

func documentNumber(prefix string, id uuid.UUID, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), short)
}
