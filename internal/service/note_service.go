package service

import (
	"context"
	"errors"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/timex"
	"github.com/haierkeys/note-share-service/pkg/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 列表筛选范围
const (
	ScopeAll         = "all"
	ScopeMine        = "mine"
	ScopeSharedRead  = "shared-read"
	ScopeSharedWrite = "shared-write"
)

// WriteExecutor 按笔记键串行化写操作的执行器
// 由上层注入，nil 时直接执行
type WriteExecutor func(ctx context.Context, key string, fn func() error) error

// NoteService 定义笔记业务服务接口
// 每个方法都是针对单篇笔记的逻辑原子事务：先鉴权，写操作再做版本比较
type NoteService interface {
	// Create 创建笔记，任何已认证用户均可创建
	Create(ctx context.Context, callerEmail string, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Get 按ID读取笔记
	Get(ctx context.Context, callerEmail, id string) (*dto.NoteDTO, error)

	// List 按范围列出调用者可见的笔记
	List(ctx context.Context, callerEmail, scope string) ([]*dto.NoteListItemDTO, error)

	// Update 乐观并发更新标题与内容
	Update(ctx context.Context, callerEmail, id string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// Delete 删除笔记，仅属主可删
	Delete(ctx context.Context, callerEmail, id string) error

	// Share 授予协作者角色，仅属主可操作
	Share(ctx context.Context, callerEmail, id string, params *dto.NoteShareRequest) (*dto.NoteDTO, error)

	// Unshare 撤销协作者，仅属主可操作
	Unshare(ctx context.Context, callerEmail, id string, params *dto.NoteUnshareRequest) (*dto.NoteDTO, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo  domain.NoteRepository
	userRepo  domain.UserRepository
	logger    *zap.Logger
	config    *ServiceConfig
	writeExec WriteExecutor
	sf        singleflight.Group
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, userRepo domain.UserRepository, writeExec WriteExecutor, logger *zap.Logger, config *ServiceConfig) NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{
		noteRepo:  noteRepo,
		userRepo:  userRepo,
		logger:    logger,
		config:    config,
		writeExec: writeExec,
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *noteService) domainToDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	shares := make(map[string]string, len(n.Shares))
	for email, role := range n.Shares {
		shares[email] = string(role)
	}
	return &dto.NoteDTO{
		ID:        n.ID,
		Owner:     n.Owner,
		Title:     n.Title,
		Content:   n.Content,
		Shares:    shares,
		Version:   n.Version,
		UpdatedAt: timex.Time(n.UpdatedAt),
		CreatedAt: timex.Time(n.CreatedAt),
	}
}

// domainToListItem 将领域模型转换为列表项 DTO
func (s *noteService) domainToListItem(n *domain.Note, contribution domain.Contribution) *dto.NoteListItemDTO {
	return &dto.NoteListItemDTO{
		ID:           n.ID,
		Owner:        n.Owner,
		Title:        n.Title,
		Contribution: string(contribution),
		Version:      n.Version,
		UpdatedAt:    timex.Time(n.UpdatedAt),
		CreatedAt:    timex.Time(n.CreatedAt),
	}
}

// execWrite 通过写执行器串行化同一笔记的写操作
func (s *noteService) execWrite(ctx context.Context, key string, fn func() error) error {
	if s.writeExec == nil {
		return fn()
	}
	return s.writeExec(ctx, key, fn)
}

// fetchAuthorized 读取笔记并执行鉴权
// 笔记不存在与调用者无任何关系返回相同的 ErrorNoteNotFound，避免泄露笔记存在性
// 有关系但权限不足返回 ErrorNoteForbidden
func (s *noteService) fetchAuthorized(ctx context.Context, callerEmail, id string, op domain.Operation) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		s.logger.Error("NoteService fetch failed",
			zap.String("noteId", id),
			zap.Error(err))
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	contribution := domain.ResolveContribution(note, callerEmail)
	if contribution == domain.ContributionNone {
		return nil, code.ErrorNoteNotFound
	}
	if !domain.Authorize(contribution, op) {
		return nil, code.ErrorNoteForbidden
	}
	return note, nil
}

// checkLengths 校验标题与内容长度上限
func (s *noteService) checkLengths(title, content string) error {
	if s.config != nil && s.config.Note.TitleMaxLength > 0 && len(title) > s.config.Note.TitleMaxLength {
		return code.ErrorInvalidParams.WithDetails("title too long")
	}
	if s.config != nil && s.config.Note.ContentMaxLength > 0 && len(content) > s.config.Note.ContentMaxLength {
		return code.ErrorInvalidParams.WithDetails("content too long")
	}
	return nil
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, callerEmail string, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	if err := s.checkLengths(params.Title, params.Content); err != nil {
		return nil, err
	}

	note := &domain.Note{
		ID:      uuid.NewString(),
		Owner:   callerEmail,
		Title:   params.Title,
		Content: params.Content,
		Shares:  map[string]domain.Role{},
		Version: domain.InitialVersion,
	}

	created, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		s.logger.Error("NoteService.Create failed",
			zap.String("owner", callerEmail),
			zap.Error(err))
		return nil, code.ErrorNoteCreate.WithDetails(err.Error())
	}

	s.logger.Info("note created",
		zap.String("noteId", created.ID),
		zap.String("owner", callerEmail))
	return s.domainToDTO(created), nil
}

// Get 按ID读取笔记
// 同一笔记的并发读通过 singleflight 合并为一次存储访问
func (s *noteService) Get(ctx context.Context, callerEmail, id string) (*dto.NoteDTO, error) {
	v, err, _ := s.sf.Do("note:"+id, func() (interface{}, error) {
		return s.noteRepo.GetByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	note := v.(*domain.Note)
	contribution := domain.ResolveContribution(note, callerEmail)
	if !domain.Authorize(contribution, domain.OperationRead) {
		// 无权读取等同于不存在
		return nil, code.ErrorNoteNotFound
	}
	return s.domainToDTO(note), nil
}

// List 按范围列出调用者可见的笔记
// scope 为空时等同于 all
func (s *noteService) List(ctx context.Context, callerEmail, scope string) ([]*dto.NoteListItemDTO, error) {
	notes, err := s.noteRepo.ListByContributor(ctx, callerEmail)
	if err != nil {
		s.logger.Error("NoteService.List failed",
			zap.String("email", callerEmail),
			zap.Error(err))
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	var roleFilter domain.Contribution
	switch scope {
	case "", ScopeAll:
		roleFilter = ""
	case ScopeMine:
		roleFilter = domain.ContributionOwner
	case ScopeSharedRead:
		roleFilter = domain.ContributionReader
	case ScopeSharedWrite:
		roleFilter = domain.ContributionWriter
	default:
		return nil, code.ErrorInvalidParams.WithDetails("unknown scope: " + scope)
	}

	items := []*dto.NoteListItemDTO{}
	for _, note := range notes {
		contribution := domain.ResolveContribution(note, callerEmail)
		if roleFilter != "" && !contribution.MatchesRole(roleFilter) {
			continue
		}
		items = append(items, s.domainToListItem(note, contribution))
	}
	return items, nil
}

// Update 乐观并发更新标题与内容
// 版本比较与落库在存储层单条条件更新内完成，冲突时不产生任何修改
func (s *noteService) Update(ctx context.Context, callerEmail, id string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	if err := s.checkLengths(params.Title, params.Content); err != nil {
		return nil, err
	}

	if _, err := s.fetchAuthorized(ctx, callerEmail, id, domain.OperationUpdate); err != nil {
		return nil, err
	}

	var updated *domain.Note
	err := s.execWrite(ctx, id, func() error {
		var innerErr error
		updated, innerErr = s.noteRepo.UpdateContent(ctx, id, params.Title, params.Content, params.ExpectedVersion)
		return innerErr
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVersionConflict):
			return nil, code.ErrorNoteVersionConflict
		case errors.Is(err, domain.ErrNotFound):
			return nil, code.ErrorNoteNotFound
		}
		s.logger.Error("NoteService.Update failed",
			zap.String("noteId", id),
			zap.Error(err))
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	s.logger.Info("note updated",
		zap.String("noteId", id),
		zap.Int64("version", updated.Version))
	return s.domainToDTO(updated), nil
}

// Delete 删除笔记
// 已删除与从未存在的笔记返回相同的 ErrorNoteNotFound
func (s *noteService) Delete(ctx context.Context, callerEmail, id string) error {
	if _, err := s.fetchAuthorized(ctx, callerEmail, id, domain.OperationDelete); err != nil {
		return err
	}

	err := s.execWrite(ctx, id, func() error {
		return s.noteRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return code.ErrorNoteNotFound
		}
		s.logger.Error("NoteService.Delete failed",
			zap.String("noteId", id),
			zap.Error(err))
		return code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	s.logger.Info("note deleted", zap.String("noteId", id))
	return nil
}

// Share 授予协作者角色
// 共享表变化同样推进版本号，并发的内容更新会据此被拒绝
func (s *noteService) Share(ctx context.Context, callerEmail, id string, params *dto.NoteShareRequest) (*dto.NoteDTO, error) {
	role := domain.Role(params.Role)
	if !role.IsValid() {
		return nil, code.ErrorShareRoleNotValid
	}

	// 邮箱身份不区分大小写
	grantee := util.NormalizeEmail(params.Email)

	note, err := s.fetchAuthorized(ctx, callerEmail, id, domain.OperationShare)
	if err != nil {
		return nil, err
	}

	if grantee == note.Owner {
		return nil, code.ErrorShareSelfNotAllowed
	}

	// 目标用户必须存在
	if _, err := s.userRepo.GetByEmail(ctx, grantee); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorShareUserNotFound
		}
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	shares := note.CloneShares()
	shares[grantee] = role

	var updated *domain.Note
	err = s.execWrite(ctx, id, func() error {
		var innerErr error
		updated, innerErr = s.noteRepo.UpdateShares(ctx, id, shares, note.Version)
		return innerErr
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVersionConflict):
			return nil, code.ErrorNoteVersionConflict
		case errors.Is(err, domain.ErrNotFound):
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	s.logger.Info("note shared",
		zap.String("noteId", id),
		zap.String("collaborator", grantee),
		zap.String("role", params.Role))
	return s.domainToDTO(updated), nil
}

// Unshare 撤销协作者
// 撤销未共享的邮箱是无操作，不推进版本号
func (s *noteService) Unshare(ctx context.Context, callerEmail, id string, params *dto.NoteUnshareRequest) (*dto.NoteDTO, error) {
	// 邮箱身份不区分大小写
	grantee := util.NormalizeEmail(params.Email)

	note, err := s.fetchAuthorized(ctx, callerEmail, id, domain.OperationShare)
	if err != nil {
		return nil, err
	}

	if _, ok := note.Shares[grantee]; !ok {
		return s.domainToDTO(note), nil
	}

	shares := note.CloneShares()
	delete(shares, grantee)

	var updated *domain.Note
	err = s.execWrite(ctx, id, func() error {
		var innerErr error
		updated, innerErr = s.noteRepo.UpdateShares(ctx, id, shares, note.Version)
		return innerErr
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVersionConflict):
			return nil, code.ErrorNoteVersionConflict
		case errors.Is(err, domain.ErrNotFound):
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	s.logger.Info("note unshared",
		zap.String("noteId", id),
		zap.String("collaborator", grantee))
	return s.domainToDTO(updated), nil
}

// 确保 noteService 实现了 NoteService 接口
var _ NoteService = (*noteService)(nil)
