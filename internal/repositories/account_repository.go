package repositories

import (
	"errors"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByIDs(ids []uint) ([]models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	GetByUsername(username string) (*models.Account, error)
	GetByFirebaseUID(uid string) (*models.Account, error)
	UpdateProfile(id uint, avatar, bio *string) (*models.Account, error)
	Delete(id uint) error
	ListAll() ([]models.Account, error)
}

// PostgresAccountRepository implements AccountRepository for PostgreSQL
type PostgresAccountRepository struct {
	db *gorm.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository
func NewPostgresAccountRepository(db *gorm.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(account *models.Account) error {
	return translate(r.db.Create(account).Error)
}

func (r *PostgresAccountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *PostgresAccountRepository) GetByIDs(ids []uint) ([]models.Account, error) {
	var accounts []models.Account
	if len(ids) == 0 {
		return accounts, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&accounts).Error
	return accounts, translate(err)
}

func (r *PostgresAccountRepository) GetByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *PostgresAccountRepository) GetByUsername(username string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("username = ?", username).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *PostgresAccountRepository) GetByFirebaseUID(uid string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("firebase_uid = ?", uid).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// UpdateProfile updates only the submitted fields; nil fields keep their
// stored values.
func (r *PostgresAccountRepository) UpdateProfile(id uint, avatar, bio *string) (*models.Account, error) {
	updates := map[string]interface{}{}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	if bio != nil {
		updates["bio"] = *bio
	}
	if len(updates) > 0 {
		if err := r.db.Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, translate(err)
		}
	}
	return r.GetByID(id)
}

func (r *PostgresAccountRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Account{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) ListAll() ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.Order("created_at DESC").Find(&accounts).Error
	return accounts, translate(err)
}

// translate maps gorm errors onto the repository sentinels. Requires
// gorm.Config{TranslateError: true} so driver duplicate-key errors surface
// as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
