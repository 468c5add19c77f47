package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Шлюз принимает суммы в минимальных единицах (пайсы)
const minorExponent = 2

var hundred = decimal.NewFromInt(100)

// ToMinor переводит цену в рупиях в пайсы
func ToMinor(major int64) int64 {
	return decimal.NewFromInt(major).Mul(hundred).IntPart()
}

// SumMinor - сумма цен в рупиях, переведенная в пайсы
func SumMinor(prices []int64) int64 {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(decimal.NewFromInt(p))
	}
	return total.Mul(hundred).IntPart()
}

// FormatMinor печатает сумму в пайсах как "1234.50"
func FormatMinor(minor int64) string {
	return decimal.New(minor, -minorExponent).StringFixed(minorExponent)
}

// FormatMajor печатает цену в рупиях как "1234.00"
func FormatMajor(major int64) string {
	return decimal.NewFromInt(major).StringFixed(minorExponent)
}

// Label - сумма с кодом валюты для писем
func Label(minor int64, currency string) string {
	if currency == "INR" || currency == "" {
		return fmt.Sprintf("₹%s", FormatMinor(minor))
	}
	return fmt.Sprintf("%s %s", FormatMinor(minor), currency)
}
