package payroll

import (
	"payroll/internal/model"

	"github.com/shopspring/decimal"
)

// Rates holds the per-unit rates applied to the seven claim lines.
type Rates struct {
	Meeting       decimal.Decimal `json:"meeting"`
	DayTime       decimal.Decimal `json:"day_time"`
	Evening       decimal.Decimal `json:"evening"`
	Admin         decimal.Decimal `json:"admin"`
	OnlineMeeting decimal.Decimal `json:"online_meeting"`
	F2FMeeting    decimal.Decimal `json:"f2f_meeting"`
	Day           decimal.Decimal `json:"day"`
}

// ZeroRates is the fallback used when a user's site matches no Loc.
var ZeroRates = Rates{
	Meeting:       decimal.Zero,
	DayTime:       decimal.Zero,
	Evening:       decimal.Zero,
	Admin:         decimal.Zero,
	OnlineMeeting: decimal.Zero,
	F2FMeeting:    decimal.Zero,
	Day:           decimal.Zero,
}

// RatesFromLoc maps a Loc's rate columns onto Rates.
func RatesFromLoc(loc model.Loc) Rates {
	return Rates{
		Meeting:       loc.MeetingRate,
		DayTime:       loc.DayTimeRate,
		Evening:       loc.EveRate,
		Admin:         loc.AdminRate,
		OnlineMeeting: loc.OnlineMeetingRate,
		F2FMeeting:    loc.F2FMeetingRate,
		Day:           loc.DayRate,
	}
}

// ResolveRates returns the rates of the Loc named name. An empty or
// unmatched name resolves every rate to zero.
func ResolveRates(locs []model.Loc, name string) Rates {
	if name == "" {
		return ZeroRates
	}
	for _, loc := range locs {
		if loc.Name == name {
			return RatesFromLoc(loc)
		}
	}
	return ZeroRates
}
