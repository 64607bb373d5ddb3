package repository

import (
	"context"
	"errors"
	"fmt"

	"tapea/internal/microservices/http-api/models"
	"tapea/internal/voting"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

type VoteRepository interface {
	// Create fails with voting.ErrAlreadyVoted when (user, tapa) exists.
	Create(ctx context.Context, vote *models.Vote) error
	ListByUser(ctx context.Context, userID string) ([]models.Vote, error)
	ListByUserWithTapas(ctx context.Context, userID string) ([]models.Vote, error)
	ListByTapaIDs(ctx context.Context, tapaIDs []string) ([]models.Vote, error)
	ListAll(ctx context.Context) ([]models.Vote, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("create vote: %w", voting.ErrAlreadyVoted)
		}
		return err
	}
	return nil
}

// IsDuplicate reports a unique-constraint failure, either translated by GORM
// or straight from the driver.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *voteRepository) ListByUser(ctx context.Context, userID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// ListByUserWithTapas preloads each vote's tapa and its venue, newest first.
func (r *voteRepository) ListByUserWithTapas(ctx context.Context, userID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Preload("Tapa").
		Preload("Tapa.Venue").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) ListByTapaIDs(ctx context.Context, tapaIDs []string) ([]models.Vote, error) {
	var votes []models.Vote
	if len(tapaIDs) == 0 {
		return votes, nil
	}
	err := r.db.WithContext(ctx).
		Select("id", "user_id", "tapa_id", "stars", "validated_location", "created_at").
		Where("tapa_id IN ?", tapaIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// ListAll returns user and tapa ids only, for raffle counting.
func (r *voteRepository) ListAll(ctx context.Context) ([]models.Vote, error) {
	var votes []models.Vote
	if err := r.db.WithContext(ctx).Select("user_id", "tapa_id").Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
