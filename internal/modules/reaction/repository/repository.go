package repository

import (
	"context"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository interface {
	WithTx(tx *gorm.DB) ReactionRepository
	// LockDesign reads the design and holds its row lock until the transaction ends.
	LockDesign(ctx context.Context, designID uuid.UUID) (*entity.Design, error)
	FindDesign(ctx context.Context, designID uuid.UUID) (*entity.Design, error)
	FindReaction(ctx context.Context, userID, designID uuid.UUID) (*entity.Reaction, error)
	Create(ctx context.Context, reaction *entity.Reaction) error
	UpdateType(ctx context.Context, reaction *entity.Reaction, reactionType string) error
	Delete(ctx context.Context, reaction *entity.Reaction) error
	AdjustCounters(ctx context.Context, designID uuid.UUID, likes, dislikes int) error
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) WithTx(tx *gorm.DB) ReactionRepository {
	return &reactionRepository{db: tx}
}

func (r *reactionRepository) LockDesign(ctx context.Context, designID uuid.UUID) (*entity.Design, error) {
	var design entity.Design
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", designID).
		First(&design).Error
	if err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *reactionRepository) FindDesign(ctx context.Context, designID uuid.UUID) (*entity.Design, error) {
	var design entity.Design
	if err := r.db.WithContext(ctx).Where("id = ?", designID).First(&design).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *reactionRepository) FindReaction(ctx context.Context, userID, designID uuid.UUID) (*entity.Reaction, error) {
	// Find with a slice avoids gorm's record-not-found log noise
	var existing []entity.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND design_id = ?", userID, designID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}
	return &existing[0], nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *entity.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) UpdateType(ctx context.Context, reaction *entity.Reaction, reactionType string) error {
	err := r.db.WithContext(ctx).Model(reaction).Update("reaction_type", reactionType).Error
	if err == nil {
		reaction.ReactionType = reactionType
	}
	return err
}

func (r *reactionRepository) Delete(ctx context.Context, reaction *entity.Reaction) error {
	return r.db.WithContext(ctx).Delete(reaction).Error
}

// AdjustCounters applies the deltas in a single UPDATE. Decrements never
// take a counter below zero.
func (r *reactionRepository) AdjustCounters(ctx context.Context, designID uuid.UUID, likes, dislikes int) error {
	updates := map[string]interface{}{}
	if likes != 0 {
		updates["likes_count"] = counterExpr("likes_count", likes)
	}
	if dislikes != 0 {
		updates["dislikes_count"] = counterExpr("dislikes_count", dislikes)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.Design{}).Where("id = ?", designID).UpdateColumns(updates).Error
}

func counterExpr(column string, delta int) clause.Expr {
	if delta > 0 {
		return gorm.Expr(column+" + ?", delta)
	}
	return gorm.Expr("CASE WHEN "+column+" > ? THEN "+column+" - ? ELSE 0 END", -delta-1, -delta)
}
