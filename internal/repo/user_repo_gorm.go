package repo

import (
	"errors"

	"gorm.io/gorm"

	"minichat/internal/domain"
	"minichat/internal/identity"
	"minichat/pkg/utils"
)

// UserRepo 写路径都先过 identity.ValidateAndPrepare，保证落库的用户
// 一定带可用的 local 摘要
type UserRepo struct {
	db  *gorm.DB
	idn *identity.Service
}

func NewUserRepo(db *gorm.DB, idn *identity.Service) *UserRepo {
	return &UserRepo{db: db, idn: idn}
}

func (r *UserRepo) Create(u *domain.User) error {
	if err := r.idn.ValidateAndPrepare(u); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	for i := range u.Passports {
		if u.Passports[i].ID == "" {
			u.Passports[i].ID = utils.NewID()
		}
		u.Passports[i].UserID = u.ID
	}
	return r.db.Create(u).Error
}

func (r *UserRepo) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Preload("Passports").First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.db.Preload("Passports").First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) List(offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Save(u *domain.User) error {
	if err := r.idn.ValidateAndPrepare(u); err != nil {
		return err
	}
	for i := range u.Passports {
		if u.Passports[i].ID == "" {
			u.Passports[i].ID = utils.NewID()
		}
		u.Passports[i].UserID = u.ID
	}
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(u).Error
}
