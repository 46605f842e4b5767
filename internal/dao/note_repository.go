package dao

import (
	"context"
	"time"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/model"
	"github.com/haierkeys/note-share-service/pkg/timex"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao   *Dao
	store *Store[model.Note, string]
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{
		dao: dao,
		store: NewStore(dao, "Note", "id", func(m *model.Note) string {
			return m.ID
		}),
	}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	shares := map[string]domain.Role{}
	if m.Shares != "" {
		_ = sonic.Unmarshal([]byte(m.Shares), &shares)
	}
	return &domain.Note{
		ID:        m.ID,
		Owner:     m.Owner,
		Title:     m.Title,
		Content:   m.Content,
		Shares:    shares,
		Version:   m.Version,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(n *domain.Note) *model.Note {
	if n == nil {
		return nil
	}
	sharesBytes, _ := sonic.Marshal(n.Shares)
	return &model.Note{
		ID:        n.ID,
		Owner:     n.Owner,
		Title:     n.Title,
		Content:   n.Content,
		Shares:    string(sharesBytes),
		Version:   n.Version,
		CreatedAt: timex.Time(n.CreatedAt),
		UpdatedAt: timex.Time(n.UpdatedAt),
	}
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	m, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	if err := r.store.Put(ctx, m); err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateContent 条件更新标题与内容
// 比较与更新在存储层单条语句内完成，版本号随之加一
func (r *noteRepository) UpdateContent(ctx context.Context, id, title, content string, expectedVersion int64) (*domain.Note, error) {
	affected, err := r.store.UpdateColumnsWithCondition(ctx,
		map[string]interface{}{
			"id":      id,
			"version": expectedVersion,
		},
		map[string]interface{}{
			"title":      title,
			"content":    content,
			"version":    gorm.Expr("version + 1"),
			"updated_at": timex.Now(),
		})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, r.resolveWriteFailure(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// UpdateShares 条件更新共享表
func (r *noteRepository) UpdateShares(ctx context.Context, id string, shares map[string]domain.Role, expectedVersion int64) (*domain.Note, error) {
	sharesBytes, err := sonic.Marshal(shares)
	if err != nil {
		return nil, err
	}

	affected, err := r.store.UpdateColumnsWithCondition(ctx,
		map[string]interface{}{
			"id":      id,
			"version": expectedVersion,
		},
		map[string]interface{}{
			"shares":     string(sharesBytes),
			"version":    gorm.Expr("version + 1"),
			"updated_at": timex.Now(),
		})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, r.resolveWriteFailure(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// resolveWriteFailure 区分条件写失败的原因
// 记录不存在返回 ErrNotFound，存在但版本不一致返回 ErrVersionConflict
func (r *noteRepository) resolveWriteFailure(ctx context.Context, id string) error {
	_, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return domain.ErrVersionConflict
}

// Delete 物理删除笔记
func (r *noteRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

// ListByContributor 获取用户拥有或被共享的全部笔记
// SQL 先做粗筛，再用 ResolveContribution 做精确过滤
func (r *noteRepository) ListByContributor(ctx context.Context, email string) ([]*domain.Note, error) {
	like := "%\"" + email + "\"%"
	ms, err := r.store.QueryBy(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("owner = ? OR shares LIKE ?", email, like).Order("id")
	})
	if err != nil {
		return nil, err
	}

	var notes []*domain.Note
	for _, m := range ms {
		note := r.toDomain(m)
		if domain.ResolveContribution(note, email) != domain.ContributionNone {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

// 确保 noteRepository 实现了 domain.NoteRepository 接口
var _ domain.NoteRepository = (*noteRepository)(nil)
