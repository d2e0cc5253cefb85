package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type rateCardRecord struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name          string    `gorm:"not null"`
	Currency      string    `gorm:"not null"`
	EffectiveFrom time.Time `gorm:"not null"`
	EffectiveTo   *time.Time
	LotID         *uuid.UUID `gorm:"type:uuid;index"`
	FloorID       *uuid.UUID `gorm:"type:uuid"`
	Size          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (rateCardRecord) TableName() string { return "rate_cards" }

type rateRuleRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	RateCardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StartMinute  int       `gorm:"not null"`
	EndMinute    *int
	PricePerUnit int64  `gorm:"not null"`
	Unit         string `gorm:"not null"`
	CreatedAt    time.Time
}

func (rateRuleRecord) TableName() string { return "rate_rules" }

type RateCardRepository struct {
	db *gorm.DB
}

func (r *RateCardRepository) Create(ctx context.Context, card *parking.RateCard) error {
	var size *string
	if card.Size != nil {
		s := string(*card.Size)
		size = &s
	}
	rec := rateCardRecord{
		ID:            card.ID,
		Name:          card.Name,
		Currency:      card.Currency,
		EffectiveFrom: card.EffectiveFrom,
		EffectiveTo:   card.EffectiveTo,
		LotID:         card.LotID,
		FloorID:       card.FloorID,
		Size:          size,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		for _, rule := range card.Rules {
			ruleRec := rateRuleRecord{
				RateCardID:   card.ID,
				StartMinute:  rule.StartMinute,
				EndMinute:    rule.EndMinute,
				PricePerUnit: rule.PricePerUnit,
				Unit:         string(rule.Unit),
			}
			if err := tx.Create(&ruleRec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RateCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*parking.RateCard, error) {
	var rec rateCardRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	card := r.toDomain(rec)
	var rules []rateRuleRecord
	if err := r.db.WithContext(ctx).
		Where("rate_card_id = ?", id).
		Order("start_minute ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	for _, rule := range rules {
		card.Rules = append(card.Rules, parking.RateRule{
			ID:           rule.ID,
			RateCardID:   rule.RateCardID,
			StartMinute:  rule.StartMinute,
			EndMinute:    rule.EndMinute,
			PricePerUnit: rule.PricePerUnit,
			Unit:         parking.RateUnit(rule.Unit),
		})
	}
	return &card, nil
}

func (r *RateCardRepository) FindByLotID(ctx context.Context, lotID uuid.UUID) ([]parking.RateCard, error) {
	var recs []rateCardRecord
	err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("effective_from DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	cards := make([]parking.RateCard, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, r.toDomain(rec))
	}
	return cards, nil
}

func (r *RateCardRepository) toDomain(rec rateCardRecord) parking.RateCard {
	var size *parking.SpotSize
	if rec.Size != nil {
		s := parking.SpotSize(*rec.Size)
		size = &s
	}
	return parking.RateCard{
		ID:            rec.ID,
		Name:          rec.Name,
		Currency:      rec.Currency,
		EffectiveFrom: rec.EffectiveFrom,
		EffectiveTo:   rec.EffectiveTo,
		LotID:         rec.LotID,
		FloorID:       rec.FloorID,
		Size:          size,
	}
}
