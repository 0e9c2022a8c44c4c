package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
)

// UserRepository defines credential store persistence operations. Emails are
// stored normalized; FindByEmail expects an already-normalized email.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a MySQL-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// Two registrations racing past the service's FindByEmail pre-check
		// end up here; the unique email index turns the loser into the same
		// error the pre-check would have produced.
		if isDuplicateEntry(err) {
			return apperrors.ErrEmailRegistered
		}
		return err
	}
	return nil
}

// isDuplicateEntry reports whether err is MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
