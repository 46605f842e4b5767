package dao

import (
	"context"
	"errors"

	"github.com/haierkeys/note-share-service/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 泛型键值存储
// 每种实体提供键提取函数与键列名，实体类型无需实现公共接口
type Store[M any, K comparable] struct {
	dao       *Dao
	modelKey  string
	keyColumn string
	keyOf     func(*M) K
}

// NewStore 创建泛型存储实例
// modelKey 为 model.AutoMigrate 的迁移键，keyColumn 为键所在列
func NewStore[M any, K comparable](dao *Dao, modelKey, keyColumn string, keyOf func(*M) K) *Store[M, K] {
	return &Store[M, K]{
		dao:       dao,
		modelKey:  modelKey,
		keyColumn: keyColumn,
		keyOf:     keyOf,
	}
}

// KeyOf 返回实体的键
func (s *Store[M, K]) KeyOf(entity *M) K {
	return s.keyOf(entity)
}

// Get 根据键获取实体，不存在返回 domain.ErrNotFound
func (s *Store[M, K]) Get(ctx context.Context, key K) (*M, error) {
	var m M
	err := s.dao.use(s.modelKey).WithContext(ctx).
		Where(s.keyColumn+" = ?", key).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Put 写入实体，键已存在则整体替换（last-writer 语义）
// 并发正确性由上层的条件更新保证，不在本层处理
func (s *Store[M, K]) Put(ctx context.Context, entity *M) error {
	return s.dao.use(s.modelKey).WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entity).Error
}

// Delete 根据键删除实体，不存在返回 domain.ErrNotFound
func (s *Store[M, K]) Delete(ctx context.Context, key K) error {
	var m M
	res := s.dao.use(s.modelKey).WithContext(ctx).
		Where(s.keyColumn+" = ?", key).
		Delete(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// QueryBy 按条件查询实体，单次遍历，结果顺序由 order 决定
func (s *Store[M, K]) QueryBy(ctx context.Context, cond func(*gorm.DB) *gorm.DB) ([]*M, error) {
	var ms []*M
	db := s.dao.use(s.modelKey).WithContext(ctx)
	if cond != nil {
		db = cond(db)
	}
	if err := db.Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

// UpdateColumnsWithCondition 条件更新指定列，返回受影响行数
// 供上层实现键粒度的原子条件写
func (s *Store[M, K]) UpdateColumnsWithCondition(ctx context.Context, cond map[string]interface{}, values map[string]interface{}) (int64, error) {
	var m M
	db := s.dao.use(s.modelKey).WithContext(ctx).Model(&m)
	for column, value := range cond {
		db = db.Where(column+" = ?", value)
	}
	res := db.Updates(values)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
