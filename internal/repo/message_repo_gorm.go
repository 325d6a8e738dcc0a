package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"minichat/internal/core/cache"
	"minichat/internal/domain"
	"minichat/pkg/utils"
)

const recentTTL = 10 * time.Second

// MessageRepo 首页消息走 redis + singleflight 缓存；TTL 很短，
// 新消息最多滞后一个 TTL 出现在缓存页里
type MessageRepo struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewMessageRepo(db *gorm.DB, c *cache.Cache) *MessageRepo {
	return &MessageRepo{db: db, cache: c}
}

func (r *MessageRepo) Create(m *domain.Message) error {
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	return r.db.Create(m).Error
}

func (r *MessageRepo) FindByID(id string) (*domain.Message, error) {
	var m domain.Message
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

type messagePage struct {
	Items []domain.Message `json:"items"`
	Total int64            `json:"total"`
}

func (r *MessageRepo) List(offset, limit int) ([]domain.Message, int64, error) {
	if r.cache != nil && offset == 0 {
		key := fmt.Sprintf("messages:recent:%d", limit)
		page, err := cache.GetOrLoadJSON[messagePage](r.cache, context.Background(), key, recentTTL,
			func(context.Context) (*messagePage, error) {
				items, total, e := r.list(0, limit)
				if e != nil {
					return nil, e
				}
				return &messagePage{Items: items, Total: total}, nil
			})
		if err == nil && page != nil {
			return page.Items, page.Total, nil
		}
		// 缓存层故障时退回直查
	}
	return r.list(offset, limit)
}

func (r *MessageRepo) list(offset, limit int) ([]domain.Message, int64, error) {
	var msgs []domain.Message
	tx := r.db.Model(&domain.Message{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}
