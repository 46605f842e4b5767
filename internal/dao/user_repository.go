package dao

import (
	"context"
	"time"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/model"
	"github.com/haierkeys/note-share-service/pkg/timex"

	"gorm.io/gorm"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao   *Dao
	store *Store[model.User, string]
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{
		dao: dao,
		store: NewStore(dao, "User", "email", func(m *model.User) string {
			return m.Email
		}),
	}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Password:  m.Password,
		IsDeleted: m.IsDeleted == 1,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
		DeletedAt: time.Time(m.DeletedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *userRepository) toModel(user *domain.User) *model.User {
	if user == nil {
		return nil
	}
	isDeleted := int64(0)
	if user.IsDeleted {
		isDeleted = 1
	}
	return &model.User{
		UID:       user.UID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Password:  user.Password,
		IsDeleted: isDeleted,
		CreatedAt: timex.Time(user.CreatedAt),
		UpdatedAt: timex.Time(user.UpdatedAt),
		DeletedAt: timex.Time(user.DeletedAt),
	}
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	ms, err := r.store.QueryBy(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("uid = ? AND is_deleted = 0", uid).Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, domain.ErrNotFound
	}
	return r.toDomain(ms[0]), nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m, err := r.store.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if m.IsDeleted == 1 {
		return nil, domain.ErrNotFound
	}
	return r.toDomain(m), nil
}

// Create 创建用户，邮箱已存在返回 ErrAlreadyExists
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, err := r.store.Get(ctx, user.Email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	m := r.toModel(user)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	if err := r.dao.use("User").WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateInfo 更新用户姓名
func (r *userRepository) UpdateInfo(ctx context.Context, firstName, lastName string, uid int64) error {
	affected, err := r.store.UpdateColumnsWithCondition(ctx,
		map[string]interface{}{"uid": uid},
		map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"updated_at": timex.Now(),
		})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePassword 更新用户密码
func (r *userRepository) UpdatePassword(ctx context.Context, password string, uid int64) error {
	affected, err := r.store.UpdateColumnsWithCondition(ctx,
		map[string]interface{}{"uid": uid},
		map[string]interface{}{
			"password":   password,
			"updated_at": timex.Now(),
		})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search 按条件搜索用户，所有条件为前缀匹配并以 AND 组合
func (r *userRepository) Search(ctx context.Context, filter domain.UserSearchFilter, limit int) ([]*domain.User, error) {
	ms, err := r.store.QueryBy(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_deleted = 0")
		if filter.Email != "" {
			db = db.Where("email LIKE ?", filter.Email+"%")
		}
		if filter.FirstName != "" {
			db = db.Where("first_name LIKE ?", filter.FirstName+"%")
		}
		if filter.LastName != "" {
			db = db.Where("last_name LIKE ?", filter.LastName+"%")
		}
		if filter.Name != "" {
			db = db.Where("first_name LIKE ? OR last_name LIKE ?", filter.Name+"%", filter.Name+"%")
		}
		return db.Order("email").Limit(limit)
	})
	if err != nil {
		return nil, err
	}

	var users []*domain.User
	for _, m := range ms {
		users = append(users, r.toDomain(m))
	}
	return users, nil
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)
