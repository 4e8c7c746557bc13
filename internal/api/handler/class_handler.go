package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/service"
	"github.com/DuongStark/FaceAuthen-Backend/pkg/response"
)

// ClassHandler 班级模块 HTTP 处理器
type ClassHandler struct {
	classSvc service.ClassService
}

// NewClassHandler 创建 ClassHandler
func NewClassHandler(classSvc service.ClassService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc}
}

// Create 创建班级
// POST /api/v1/classes
func (h *ClassHandler) Create(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.classSvc.Create(c.Request.Context(), uid, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// List 我的班级列表
// GET /api/v1/classes
func (h *ClassHandler) List(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.classSvc.List(c.Request.Context(), uid)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Get 班级详情
// GET /api/v1/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.classSvc.Get(c.Request.Context(), c.Param("id"), uid)
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

// Update 更新班级
// PUT /api/v1/classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.classSvc.Update(c.Request.Context(), c.Param("id"), uid, &req)
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

// Delete 删除班级
// DELETE /api/v1/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.classSvc.Delete(c.Request.Context(), c.Param("id"), uid); err != nil {
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
	response.OK(c, nil)
}
