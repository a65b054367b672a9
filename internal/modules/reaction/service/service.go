package service

import (
	"context"
	"fmt"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/reaction/dto"
	reactionRepo "anoa.com/hennahub/internal/modules/reaction/repository"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionService interface {
	SetReaction(ctx context.Context, actor entity.Actor, designID uuid.UUID, reactionType string) (*dto.ReactionResult, error)
	GetReactionState(ctx context.Context, actor *entity.Actor, designID uuid.UUID) (*dto.ReactionState, error)
}

type reactionService struct {
	repo reactionRepo.ReactionRepository
	tx   database.TxManager
}

func NewReactionService(repo reactionRepo.ReactionRepository, tx database.TxManager) ReactionService {
	return &reactionService{repo: repo, tx: tx}
}

// delta returns the counter change for adding (sign 1) or removing (sign -1)
// a reaction of the given type.
func delta(reactionType string, sign int) (likes, dislikes int) {
	if reactionType == entity.ReactionLike {
		return sign, 0
	}
	return 0, sign
}

// SetReaction toggles the actor's reaction on a design. The design row is
// locked for the whole read-modify-write so concurrent toggles on the same
// design serialize and counters always match the reaction rows.
func (s *reactionService) SetReaction(ctx context.Context, actor entity.Actor, designID uuid.UUID, reactionType string) (*dto.ReactionResult, error) {
	if !entity.ValidReactionType(reactionType) {
		return nil, fmt.Errorf("invalid reaction type %q: %w", reactionType, apperror.ErrInvalidInput)
	}

	result := &dto.ReactionResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		locked, err := repo.LockDesign(ctx, designID)
		if err != nil {
			return apperror.FromRepo(err, "design")
		}
		if !locked.VisibleTo(&actor) {
			return fmt.Errorf("design not found: %w", apperror.ErrNotFound)
		}

		existing, err := repo.FindReaction(ctx, actor.UserID, designID)
		if err != nil {
			return apperror.Store(err)
		}

		var likes, dislikes int
		switch {
		case existing == nil:
			if err := repo.Create(ctx, &entity.Reaction{UserID: actor.UserID, DesignID: designID, ReactionType: reactionType}); err != nil {
				return apperror.Store(err)
			}
			likes, dislikes = delta(reactionType, 1)
			result.ReactionType = reactionType

		case existing.ReactionType == reactionType:
			if err := repo.Delete(ctx, existing); err != nil {
				return apperror.Store(err)
			}
			likes, dislikes = delta(reactionType, -1)
			result.Removed = true

		default:
			oldLikes, oldDislikes := delta(existing.ReactionType, -1)
			newLikes, newDislikes := delta(reactionType, 1)
			if err := repo.UpdateType(ctx, existing, reactionType); err != nil {
				return apperror.Store(err)
			}
			likes, dislikes = oldLikes+newLikes, oldDislikes+newDislikes
			result.ReactionType = reactionType
		}

		if err := repo.AdjustCounters(ctx, designID, likes, dislikes); err != nil {
			return apperror.Store(err)
		}

		design, err := repo.FindDesign(ctx, designID)
		if err != nil {
			return apperror.Store(err)
		}
		result.LikesCount = design.LikesCount
		result.DislikesCount = design.DislikesCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Liked = result.ReactionType == entity.ReactionLike
	result.Disliked = result.ReactionType == entity.ReactionDislike
	return result, nil
}

func (s *reactionService) GetReactionState(ctx context.Context, actor *entity.Actor, designID uuid.UUID) (*dto.ReactionState, error) {
	design, err := s.repo.FindDesign(ctx, designID)
	if err != nil {
		return nil, apperror.FromRepo(err, "design")
	}
	if !design.VisibleTo(actor) {
		return nil, fmt.Errorf("design not found: %w", apperror.ErrNotFound)
	}

	state := &dto.ReactionState{
		LikesCount:    design.LikesCount,
		DislikesCount: design.DislikesCount,
	}
	if actor == nil {
		return state, nil
	}

	existing, err := s.repo.FindReaction(ctx, actor.UserID, designID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if existing != nil {
		state.UserReaction = &existing.ReactionType
	}
	return state, nil
}
