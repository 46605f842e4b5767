package api_router

import (
	"context"

	"github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/internal/middleware"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	apperrors "github.com/haierkeys/note-share-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShareHandler 笔记分享 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type ShareHandler struct {
	*Handler
}

// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{
		Handler: NewHandler(a),
	}
}

// Share 分享笔记
// @Summary 分享笔记
// @Description 将笔记以 reader 或 writer 角色分享给注册用户，仅属主可操作
// @Tags 分享
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Accept json
// @Produce json
// @Param id path string true "笔记 ID"
// @Param params body dto.NoteShareRequest true "分享参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Failure 400 {object} pkgapp.Res "角色无效 / 不能分享给自己 / 目标用户不存在"
// @Router /api/notes/{id}/share [post]
func (h *ShareHandler) Share(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteShareRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.Share.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取调用者邮箱
	email := pkgapp.GetEmail(c)
	if email == "" {
		h.App.Logger().Error("ShareHandler.Share err email empty")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	note, err := h.App.NoteService.Share(ctx, email, id, params)
	if err != nil {
		h.logError(ctx, "ShareHandler.Share", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Unshare 撤销分享
// @Summary 撤销分享
// @Description 撤销协作者对笔记的访问权限，仅属主可操作；目标未被分享时为无操作
// @Tags 分享
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Accept json
// @Produce json
// @Param id path string true "笔记 ID"
// @Param params body dto.NoteUnshareRequest true "撤销参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/notes/{id}/share [delete]
func (h *ShareHandler) Unshare(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUnshareRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.Unshare.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取调用者邮箱
	email := pkgapp.GetEmail(c)
	if email == "" {
		h.App.Logger().Error("ShareHandler.Unshare err email empty")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	note, err := h.App.NoteService.Unshare(ctx, email, id, params)
	if err != nil {
		h.logError(ctx, "ShareHandler.Unshare", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// logError 记录错误日志，包含 Trace ID
func (h *ShareHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
