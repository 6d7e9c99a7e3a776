package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"classifieds_message_service/internal/message/domain"
)

// UserRepository definition get user info
// messaging core 只需要讀帳號，註冊/登入在別的服務
type UserRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.User, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, user_id, nickname, email FROM users WHERE user_id = $1",
		userID)
	var user domain.User
	err := row.Scan(&user.ID, &user.UserID, &user.Nickname, &user.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
