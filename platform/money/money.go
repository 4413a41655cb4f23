// Package money keeps currency arithmetic in integer minor units end to end
// (spec §3, §9: "floating-point money must not appear").
package money

import "fmt"

// Minor is an amount of currency expressed in integer minor units (cents, kopecks, ...).
type Minor int64

// Commission floors amountMinor * rate, per spec §4.5 ("banker-free floor").
func Commission(amountMinor Minor, rate float64) Minor {
	if amountMinor <= 0 || rate <= 0 {
		return 0
	}
	return Minor(int64(float64(amountMinor) * rate))
}

// Net returns amountMinor minus the commission already computed for it.
func Net(amountMinor, commissionMinor Minor) Minor {
	return amountMinor - commissionMinor
}

// RoundPay rounds effectiveHours * hourlyWageMinor to the nearest minor unit.
func RoundPay(effectiveHours float64, hourlyWageMinor Minor) Minor {
	return Minor(int64(effectiveHours*float64(hourlyWageMinor) + 0.5))
}

// FormatMinor divides by 100 only at the presentation boundary.
func FormatMinor(amount Minor) string {
	sign := ""
	a := int64(amount)
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d", sign, a/100, a%100)
}
