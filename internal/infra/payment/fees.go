package payment

import (
	"conference-app/internal/domain/conference"

	"github.com/shopspring/decimal"
)

var fees = map[conference.RegistrationType]decimal.Decimal{
	conference.TypeStudent:  decimal.NewFromInt(2500),
	conference.TypeAcademic: decimal.NewFromInt(4000),
	conference.TypeIndustry: decimal.NewFromInt(6000),
	conference.TypeSpeaker:  decimal.Zero,
	conference.TypeGuest:    decimal.Zero,
}

// FeeFor returns the registration fee for a category. Unknown categories cost nothing;
// callers validate the category before asking.
func FeeFor(t conference.RegistrationType) decimal.Decimal {
	if f, ok := fees[t]; ok {
		return f
	}
	return decimal.Zero
}

// minorUnits converts a display amount into the provider's smallest currency unit.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}
