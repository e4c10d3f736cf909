package gormstore

import (
	"context"
	"errors"

	"github.com/MrEthical07/mediaguard/rank"
	"gorm.io/gorm"
)

// ChannelStore exposes channel ordering to [rank.Orderer]. It implements
// rank.Transactor and rank.Bounded.
type ChannelStore struct {
	DB *gorm.DB
}

func NewChannelStore(db *gorm.DB) *ChannelStore {
	return &ChannelStore{DB: db}
}

func (s *ChannelStore) Position(ctx context.Context, id string) (int, error) {
	var ch Channel
	if err := s.DB.WithContext(ctx).Select("order_position").Where("id = ?", id).First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, rank.ErrRankNotFound
		}
		return 0, err
	}
	return ch.OrderPosition, nil
}

func (s *ChannelStore) ShiftRange(ctx context.Context, lo, hi, delta int) error {
	return s.DB.WithContext(ctx).Model(&Channel{}).
		Where("order_position BETWEEN ? AND ?", lo, hi).
		Update("order_position", gorm.Expr("order_position + ?", delta)).Error
}

func (s *ChannelStore) SetPosition(ctx context.Context, id string, position int) error {
	result := s.DB.WithContext(ctx).Model(&Channel{}).Where("id = ?", id).Update("order_position", position)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return rank.ErrRankNotFound
	}
	return nil
}

func (s *ChannelStore) PositionBounds(ctx context.Context) (int, int, error) {
	var bounds struct {
		Lo int
		Hi int
	}
	err := s.DB.WithContext(ctx).Model(&Channel{}).
		Select("COALESCE(MIN(order_position), 0) AS lo, COALESCE(MAX(order_position), 0) AS hi").
		Scan(&bounds).Error
	return bounds.Lo, bounds.Hi, err
}

func (s *ChannelStore) WithinTx(ctx context.Context, fn func(tx rank.Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ChannelStore{DB: tx})
	})
}

// Ordered lists channels by position.
func (s *ChannelStore) Ordered(ctx context.Context, activeOnly bool) ([]Channel, error) {
	var out []Channel
	q := s.DB.WithContext(ctx).Order("order_position ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
