package answer

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Правила отображения чисел: >= 1 — два знака с группировкой разрядов,
// (0, 1) — до восьми знаков, ноль и не-числа — "N/A".

var printer = message.NewPrinter(language.English)

func formatValue(v float64) string {
	switch {
	case v == 0 || math.IsNaN(v) || math.IsInf(v, 0):
		return "N/A"
	case math.Abs(v) >= 1:
		return printer.Sprint(number.Decimal(v,
			number.MinFractionDigits(2),
			number.MaxFractionDigits(2),
		))
	default:
		s := strconv.FormatFloat(v, 'f', 8, 64)
		s = strings.TrimRight(s, "0")
		return strings.TrimRight(s, ".")
	}
}

// formatAmount — суммы пользователя показываем как введены: без
// принудительных дробных знаков
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatChange — процентное изменение со знаком; nil — "N/A"
func formatChange(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "N/A"
	}
	return printer.Sprintf("%+.2f%%", *v)
}

// formatOptional — значение из опционального поля провайдера
func formatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatValue(*v)
}
