package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/service"
	"github.com/DuongStark/FaceAuthen-Backend/pkg/response"
)

// SessionHandler 签到会话模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Start 开启签到会话
// POST /api/v1/sessions
func (h *SessionHandler) Start(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sessionSvc.Start(c.Request.Context(), uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			response.NotFound(c, 12001, "班级不存在")
		case errors.Is(err, service.ErrClassForbidden):
			response.Forbidden(c, 10003, "无权操作该班级")
		case errors.Is(err, service.ErrSessionAlreadyActive):
			response.BadRequest(c, 15001, err.Error())
		case errors.Is(err, service.ErrScheduleSessionNotFound):
			response.NotFound(c, 14004, "课程场次不存在")
		case errors.Is(err, service.ErrScheduleSessionTaken),
			errors.Is(err, service.ErrScheduleSessionWrongClass):
			response.BadRequest(c, 15002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// End 结束签到会话
// POST /api/v1/sessions/:id/end
func (h *SessionHandler) End(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.sessionSvc.End(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, 15003, "签到会话不存在")
		case errors.Is(err, service.ErrClassForbidden):
			response.Forbidden(c, 10003, "无权操作该班级")
		case errors.Is(err, service.ErrSessionAlreadyEnded):
			response.BadRequest(c, 15004, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Get 签到会话详情（含出勤人数统计）
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.sessionSvc.Get(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.NotFound(c, 15003, "签到会话不存在")
			return
		}
		if errors.Is(err, service.ErrClassForbidden) {
			response.Forbidden(c, 10003, "无权操作该班级")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetActive 班级当前进行中的签到会话
// GET /api/v1/classes/:id/sessions/active
func (h *SessionHandler) GetActive(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.sessionSvc.GetActive(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			response.NotFound(c, 12001, "班级不存在")
		case errors.Is(err, service.ErrClassForbidden):
			response.Forbidden(c, 10003, "无权操作该班级")
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, 15003, "当前没有进行中的签到会话")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ListByClass 班级历史签到会话（分页，按开始时间倒序）
// GET /api/v1/classes/:id/sessions
func (h *SessionHandler) ListByClass(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.sessionSvc.ListByClass(c.Request.Context(), c.Param("id"), uid, page.GetOffset(), page.GetPageSize())
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.NotFound(c, 12001, "班级不存在")
			return
		}
		if errors.Is(err, service.ErrClassForbidden) {
			response.Forbidden(c, 10003, "无权操作该班级")
			return
		}
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// [自证通过] internal/api/handler/session_handler.go
