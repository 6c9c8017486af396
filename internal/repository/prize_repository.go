package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-gin-prize-draw/internal/model"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PrizeRepository interface {
	Create(ctx context.Context, prize *model.Prize) (*model.Prize, error)
	ListByRoomID(ctx context.Context, roomID int) ([]*model.Prize, error)
	FindByID(ctx context.Context, id int) (*model.Prize, error)
	FindByPrizeID(ctx context.Context, prizeID uuid.UUID) (*model.Prize, error)
	Update(ctx context.Context, id int, params model.UpdatePrizeParams) (*model.Prize, error)
	AdjustCapacity(ctx context.Context, id int, newQuantity int) (*model.Prize, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	TryDecrementRemaining(ctx context.Context, tx pgx.Tx, id int) (bool, error)
	IncrementRemaining(ctx context.Context, tx pgx.Tx, id int) error
}

type PrizeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPrizeRepository(pool *pgxpool.Pool) PrizeRepository {
	return &PrizeRepositoryImpl{
		pool: pool,
	}
}

const prizeColumns = `id, prize_id, room_id, name, description,
		quantity, quantity_remaining, created_at, updated_at, deleted_at`

func scanPrize(row pgx.Row) (*model.Prize, error) {
	var prize model.Prize
	err := row.Scan(
		&prize.ID,
		&prize.PrizeID,
		&prize.RoomID,
		&prize.Name,
		&prize.Description,
		&prize.Quantity,
		&prize.QuantityRemaining,
		&prize.CreatedAt,
		&prize.UpdatedAt,
		&prize.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &prize, nil
}

func (r *PrizeRepositoryImpl) Create(ctx context.Context, prize *model.Prize) (*model.Prize, error) {
	query := `
		INSERT INTO prizes (prize_id, room_id, name, description, quantity, quantity_remaining)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + prizeColumns

	return scanPrize(r.pool.QueryRow(ctx, query,
		prize.PrizeID, prize.RoomID, prize.Name, prize.Description,
		prize.Quantity, prize.QuantityRemaining,
	))
}

func (r *PrizeRepositoryImpl) ListByRoomID(ctx context.Context, roomID int) ([]*model.Prize, error) {
	query := `
		SELECT ` + prizeColumns + `
		FROM prizes
		WHERE room_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prizes := make([]*model.Prize, 0)
	for rows.Next() {
		prize, err := scanPrize(rows)
		if err != nil {
			return nil, err
		}
		prizes = append(prizes, prize)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prizes, nil
}

func (r *PrizeRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Prize, error) {
	query := `
		SELECT ` + prizeColumns + `
		FROM prizes
		WHERE id = $1 AND deleted_at IS NULL
	`

	prize, err := scanPrize(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPrizeNotFound
		}
		return nil, err
	}
	return prize, nil
}

func (r *PrizeRepositoryImpl) FindByPrizeID(ctx context.Context, prizeID uuid.UUID) (*model.Prize, error) {
	query := `
		SELECT ` + prizeColumns + `
		FROM prizes
		WHERE prize_id = $1 AND deleted_at IS NULL
	`

	prize, err := scanPrize(r.pool.QueryRow(ctx, query, prizeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPrizeNotFound
		}
		return nil, err
	}
	return prize, nil
}

func (r *PrizeRepositoryImpl) Update(ctx context.Context, id int, params model.UpdatePrizeParams) (*model.Prize, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}

	if params.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *params.Description)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE prizes
		SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING `+prizeColumns, strings.Join(sets, ", "), argPos)

	prize, err := scanPrize(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPrizeNotFound
		}
		return nil, err
	}
	return prize, nil
}

// AdjustCapacity 調整獎項總量並在同一條 UPDATE 內重算剩餘數量：
// 已發出數 = quantity - quantity_remaining 維持不變，剩餘數量下限為 0。
// 重算與併發中的 TryDecrementRemaining 靠行鎖序列化，不存在先讀後寫的空窗。
func (r *PrizeRepositoryImpl) AdjustCapacity(ctx context.Context, id int, newQuantity int) (*model.Prize, error) {
	if newQuantity < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	query := `
		UPDATE prizes
		SET quantity = $1,
			quantity_remaining = GREATEST(0, $1 - (quantity - quantity_remaining)),
			updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING ` + prizeColumns

	prize, err := scanPrize(r.pool.QueryRow(ctx, query, newQuantity, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPrizeNotFound
		}
		return nil, err
	}
	return prize, nil
}

// TryDecrementRemaining 原子性地扣一個名額。
// 條件式 UPDATE 一次完成檢查與扣減，N 個請求搶最後一個名額時恰好一個成功。
// 回傳 (false, nil) 表示名額已被搶完；獎項不存在或已刪除則回傳 ErrPrizeNotFound。
func (r *PrizeRepositoryImpl) TryDecrementRemaining(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	query := `
		UPDATE prizes
		SET quantity_remaining = quantity_remaining - 1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL AND quantity_remaining > 0
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}

	if result.RowsAffected() > 0 {
		return true, nil
	}

	// 0 rows: 區分「獎項不存在」與「名額搶完」
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM prizes WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperrors.ErrPrizeNotFound
	}

	return false, nil
}

// IncrementRemaining 撤銷時歸還一個名額，上限為 quantity（總量可能已被調低）
func (r *PrizeRepositoryImpl) IncrementRemaining(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE prizes
		SET quantity_remaining = LEAST(quantity, quantity_remaining + 1), updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPrizeNotFound
	}

	return nil
}

func (r *PrizeRepositoryImpl) Delete(ctx context.Context, id int) error {
	// 還有有效得獎紀錄的獎項不可刪除，避免破壞參照完整性
	query := `
		UPDATE prizes
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM winners
			WHERE winners.prize_id = prizes.id AND winners.revoked_at IS NULL
		)
	`

	now := time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, now, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		var exists bool
		err = r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM prizes WHERE id = $1 AND deleted_at IS NULL)`, id,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrPrizeHasWinners
		}
		return apperrors.ErrPrizeNotFound
	}

	return nil
}
