package notification

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vndPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND renders amount as whole Vietnamese dong, e.g. "150.000 ₫".
// The value stays a float so amounts beyond the int64 range keep their sign.
func FormatVND(amount float64) string {
	return vndPrinter.Sprintf("%.0f", math.Round(amount)) + " ₫"
}
