package parking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RateUnit string

const (
	UnitMinute RateUnit = "MINUTE"
	UnitHour   RateUnit = "HOUR"
	UnitFlat   RateUnit = "FLAT"
)

// RateCard scopes pricing rules to a lot, floor, size and effective
// window. It is a pricing extension point; the default fee calculator
// uses its own configured tiers and never consults rate cards.
type RateCard struct {
	ID            uuid.UUID
	Name          string
	Currency      string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	LotID         *uuid.UUID
	FloorID       *uuid.UUID
	Size          *SpotSize
	Rules         []RateRule
}

type RateRule struct {
	ID           int64
	RateCardID   uuid.UUID
	StartMinute  int
	EndMinute    *int
	PricePerUnit int64
	Unit         RateUnit
}

func NewRateCard(id uuid.UUID, name, currency string, effectiveFrom time.Time, effectiveTo *time.Time) (*RateCard, error) {
	if name == "" {
		return nil, fmt.Errorf("rate card name must not be empty")
	}
	if currency == "" {
		return nil, fmt.Errorf("rate card currency must not be empty")
	}
	return &RateCard{
		ID:            id,
		Name:          name,
		Currency:      currency,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
	}, nil
}

func NewRateRule(startMinute int, endMinute *int, pricePerUnit int64, unit RateUnit) (RateRule, error) {
	if startMinute < 0 {
		return RateRule{}, fmt.Errorf("startMinute must be >= 0")
	}
	if endMinute != nil && *endMinute <= startMinute {
		return RateRule{}, fmt.Errorf("endMinute must be > startMinute")
	}
	if pricePerUnit < 0 {
		return RateRule{}, fmt.Errorf("pricePerUnit must be >= 0")
	}
	return RateRule{
		StartMinute:  startMinute,
		EndMinute:    endMinute,
		PricePerUnit: pricePerUnit,
		Unit:         unit,
	}, nil
}

func (rc *RateCard) ScopeToLot(lotID uuid.UUID) {
	rc.LotID = &lotID
}

func (rc *RateCard) ScopeToFloor(floorID uuid.UUID) {
	rc.FloorID = &floorID
}

func (rc *RateCard) ScopeToSize(size SpotSize) {
	rc.Size = &size
}

func (rc *RateCard) AddRule(rule RateRule) {
	rule.RateCardID = rc.ID
	rc.Rules = append(rc.Rules, rule)
}

func (rc *RateCard) IsActive(at time.Time) bool {
	if at.Before(rc.EffectiveFrom) {
		return false
	}
	return rc.EffectiveTo == nil || at.Before(*rc.EffectiveTo)
}
