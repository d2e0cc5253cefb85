package strategy

import (
	"fmt"
	"math"
	"time"

	"parking-service/internal/config"
	"parking-service/internal/domain/parking"
)

const (
	descGracePeriod     = "within_grace_period"
	descDegressive      = "degressive_day_night_weekend"
	descOverstaySuffix  = "_with_overstay_penalty"
	firstHourBlockHours = 1
	midBlockHours       = 3
)

// FeeConfig holds the resolved tunables of the degressive calculator.
// Amounts are in minor currency units; day window boundaries are
// minutes since midnight in Location.
type FeeConfig struct {
	FirstHourRateMinor       int64
	MidHoursRateMinor        int64
	LongStayRateMinor        int64
	GraceMinutes             int64
	OverstayThresholdMinutes int64
	OverstayPenaltyMinor     int64
	DayStartMinute           int
	DayEndMinute             int
	NightFactor              float64
	WeekendFactor            float64
	Location                 *time.Location
}

func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		FirstHourRateMinor:       4000,
		MidHoursRateMinor:        2500,
		LongStayRateMinor:        1500,
		GraceMinutes:             10,
		OverstayThresholdMinutes: 12 * 60,
		OverstayPenaltyMinor:     20000,
		DayStartMinute:           8 * 60,
		DayEndMinute:             20 * 60,
		NightFactor:              0.8,
		WeekendFactor:            1.2,
		Location:                 time.UTC,
	}
}

// FeeConfigFromSettings parses the viper-backed fee settings.
func FeeConfigFromSettings(cfg config.FeesConfig) (FeeConfig, error) {
	dayStart, err := parseClockMinute(cfg.DayStart)
	if err != nil {
		return FeeConfig{}, fmt.Errorf("invalid fees.day_start: %w", err)
	}
	dayEnd, err := parseClockMinute(cfg.DayEnd)
	if err != nil {
		return FeeConfig{}, fmt.Errorf("invalid fees.day_end: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return FeeConfig{}, fmt.Errorf("invalid fees.timezone: %w", err)
	}
	return FeeConfig{
		FirstHourRateMinor:       cfg.FirstHourRateMinor,
		MidHoursRateMinor:        cfg.MidHoursRateMinor,
		LongStayRateMinor:        cfg.LongStayRateMinor,
		GraceMinutes:             cfg.GraceMinutes,
		OverstayThresholdMinutes: cfg.OverstayThresholdMinutes,
		OverstayPenaltyMinor:     cfg.OverstayPenaltyMinor,
		DayStartMinute:           dayStart,
		DayEndMinute:             dayEnd,
		NightFactor:              cfg.NightFactor,
		WeekendFactor:            cfg.WeekendFactor,
		Location:                 loc,
	}, nil
}

func parseClockMinute(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DegressiveFeeCalculator prices a session with tiered hourly rates
// that fall as the stay lengthens, a grace period, day/night and
// weekend multipliers evaluated against the entry timestamp, and an
// overstay penalty.
type DegressiveFeeCalculator struct {
	cfg FeeConfig
}

func NewDegressiveFeeCalculator(cfg FeeConfig) *DegressiveFeeCalculator {
	return &DegressiveFeeCalculator{cfg: cfg}
}

func (c *DegressiveFeeCalculator) Calculate(req parking.FeeRequest) (parking.FeeBreakdown, error) {
	if req.ExitAt.Before(req.EntryAt) {
		return parking.FeeBreakdown{}, parking.NewBusinessRuleError(
			"invalid_exit_time", "exit time must be after entry time")
	}

	totalMinutes := int64(req.ExitAt.Sub(req.EntryAt) / time.Minute)
	if totalMinutes <= c.cfg.GraceMinutes {
		return parking.FeeBreakdown{Description: descGracePeriod}, nil
	}

	billableMinutes := totalMinutes - c.cfg.GraceMinutes
	billableHours := (billableMinutes + 59) / 60
	if billableHours < 1 {
		billableHours = 1
	}

	baseWithoutMultipliers := c.degressiveBase(billableHours)

	dayNightFactor := c.cfg.NightFactor
	if c.isDay(req.EntryAt) {
		dayNightFactor = 1.0
	}
	weekendFactor := 1.0
	if c.isWeekend(req.EntryAt) {
		weekendFactor = c.cfg.WeekendFactor
	}

	// Integer money everywhere; rounding happens only here, half-up on
	// the product of the base and the two factors.
	baseWithMultipliers := int64(math.Floor(
		float64(baseWithoutMultipliers)*dayNightFactor*weekendFactor + 0.5))

	var penalty int64
	if billableMinutes > c.cfg.OverstayThresholdMinutes {
		penalty = c.cfg.OverstayPenaltyMinor
	}

	discount := baseWithoutMultipliers - baseWithMultipliers
	if discount < 0 {
		discount = 0
	}

	description := descDegressive
	if penalty > 0 {
		description += descOverstaySuffix
	}

	return parking.FeeBreakdown{
		BaseAmountMinor:  baseWithMultipliers,
		DiscountMinor:    discount,
		PenaltyMinor:     penalty,
		TotalAmountMinor: baseWithMultipliers + penalty,
		Description:      description,
	}, nil
}

func (c *DegressiveFeeCalculator) degressiveBase(hours int64) int64 {
	remaining := hours
	var total int64

	if remaining > 0 {
		block := min(int64(firstHourBlockHours), remaining)
		total += block * c.cfg.FirstHourRateMinor
		remaining -= block
	}
	if remaining > 0 {
		block := min(int64(midBlockHours), remaining)
		total += block * c.cfg.MidHoursRateMinor
		remaining -= block
	}
	if remaining > 0 {
		total += remaining * c.cfg.LongStayRateMinor
	}
	return total
}

func (c *DegressiveFeeCalculator) isDay(at time.Time) bool {
	local := at.In(c.cfg.Location)
	minute := local.Hour()*60 + local.Minute()
	return minute >= c.cfg.DayStartMinute && minute < c.cfg.DayEndMinute
}

func (c *DegressiveFeeCalculator) isWeekend(at time.Time) bool {
	switch at.In(c.cfg.Location).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}
