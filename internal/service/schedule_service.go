package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
	pkgerrors "github.com/DuongStark/FaceAuthen-Backend/pkg/errors"
)

var (
	ErrScheduleNotFound        = errors.New("课程安排不存在")
	ErrScheduleSessionNotFound = errors.New("课程场次不存在")
	ErrInvalidDateRange        = errors.New("日期区间非法：结束日期早于开始日期")
	ErrInvalidTimeRange        = errors.New("时间段非法：须为 HH:MM 且开始早于结束")
	ErrInvalidDaysOfWeek       = errors.New("星期集合非法：取值须在 0~6 之间且不重复")
)

const scheduleDateLayout = "2006-01-02"

// ScheduleService 课程安排业务接口
type ScheduleService interface {
	Create(ctx context.Context, lecturerID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	Get(ctx context.Context, scheduleID, lecturerID string) (*dto.ScheduleResponse, error)
	ListByClass(ctx context.Context, classID, lecturerID string) ([]dto.ScheduleResponse, error)
	Update(ctx context.Context, scheduleID, lecturerID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, scheduleID, lecturerID string) error

	ListSessions(ctx context.Context, scheduleID, lecturerID string) (*dto.ScheduleSessionListResponse, error)
	UpdateSession(ctx context.Context, sessionID, lecturerID string, req *dto.UpdateScheduleSessionRequest) (*dto.ScheduleSessionResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 创建课程安排并展开全部场次。
// 重叠校验与两次写入在同一事务内完成，并发创建至多一方成功。
func (s *scheduleService) Create(ctx context.Context, lecturerID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if _, err := s.repo.Class.GetOwned(ctx, req.ClassID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, ErrClassForbidden
		}
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	days, err := normalizeDaysOfWeek(req.DaysOfWeek)
	if err != nil {
		return nil, err
	}

	// 星期集合为空或区间内无匹配日期时照常建安排，只是不产生任何场次
	dates := expandSessionDates(startDate, endDate, days)

	schedule := &model.Schedule{
		ClassID:     req.ClassID,
		Name:        req.Name,
		StartDate:   startDate,
		EndDate:     endDate,
		DaysOfWeek:  days,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Room:        req.Room,
		Description: req.Description,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		conflicts, err := txRepo.Schedule.FindOverlapping(ctx, req.ClassID, startDate, endDate, "")
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return toScheduleConflictError(conflicts)
		}

		if err := txRepo.Schedule.Create(ctx, schedule); err != nil {
			return err
		}
		if len(dates) == 0 {
			return nil
		}

		sessions := make([]model.ScheduleSession, 0, len(dates))
		for i, date := range dates {
			sessions = append(sessions, model.ScheduleSession{
				ScheduleID:  schedule.ID,
				SessionDate: date,
				SessionName: fmt.Sprintf("Session %d", i+1),
				Status:      model.ScheduleSessionScheduled,
			})
		}
		return txRepo.Schedule.BatchCreateSessions(ctx, sessions)
	})
	if err != nil {
		var conflictErr *pkgerrors.ScheduleConflictError
		if !errors.As(err, &conflictErr) {
			s.logger.Error("创建课程安排失败", zap.Error(err))
		}
		return nil, err
	}

	resp := toScheduleResponse(schedule)
	resp.SessionCount = len(dates)
	return &resp, nil
}

// expandSessionDates 按星期集合展开区间内的上课日期，首尾闭区间，升序返回
func expandSessionDates(startDate, endDate time.Time, days model.IntArray) []time.Time {
	var dates []time.Time
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if days.Contains(int(d.Weekday())) {
			dates = append(dates, d)
		}
	}
	return dates
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(scheduleDateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	endDate, err := time.Parse(scheduleDateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func validateTimeRange(start, end string) error {
	st, err := time.Parse("15:04", start)
	if err != nil {
		return ErrInvalidTimeRange
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return ErrInvalidTimeRange
	}
	if !st.Before(et) {
		return ErrInvalidTimeRange
	}
	return nil
}

func normalizeDaysOfWeek(days []int) (model.IntArray, error) {
	seen := map[int]bool{}
	out := make(model.IntArray, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			return nil, ErrInvalidDaysOfWeek
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

func toScheduleConflictError(conflicts []model.Schedule) error {
	items := make([]pkgerrors.ScheduleConflict, 0, len(conflicts))
	for _, c := range conflicts {
		items = append(items, pkgerrors.ScheduleConflict{
			ID:        c.ID,
			Name:      c.Name,
			StartDate: c.StartDate.Format(scheduleDateLayout),
			EndDate:   c.EndDate.Format(scheduleDateLayout),
		})
	}
	return &pkgerrors.ScheduleConflictError{Conflicts: items}
}

// ────────────────────── Get / List ──────────────────────

func (s *scheduleService) Get(ctx context.Context, scheduleID, lecturerID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.getOwnedSchedule(ctx, scheduleID, lecturerID)
	if err != nil {
		return nil, err
	}
	resp := toScheduleResponse(schedule)
	if n, err := s.repo.Schedule.CountSessions(ctx, scheduleID); err == nil {
		resp.SessionCount = int(n)
	}
	return &resp, nil
}

func (s *scheduleService) ListByClass(ctx context.Context, classID, lecturerID string) ([]dto.ScheduleResponse, error) {
	if _, err := s.repo.Class.GetOwned(ctx, classID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, ErrClassForbidden
		}
		return nil, err
	}

	schedules, err := s.repo.Schedule.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询课程安排列表失败", zap.Error(err))
		return nil, err
	}

	resps := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		resps = append(resps, toScheduleResponse(&schedules[i]))
	}
	return resps, nil
}

// ────────────────────── Update ──────────────────────

// Update 仅允许修改名称、时间段与附注，不改日期区间与星期集合，
// 已展开的场次保持不变。
func (s *scheduleService) Update(ctx context.Context, scheduleID, lecturerID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := s.getOwnedSchedule(ctx, scheduleID, lecturerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	newStart := schedule.StartTime
	newEnd := schedule.EndTime
	if req.StartTime != nil {
		newStart = *req.StartTime
	}
	if req.EndTime != nil {
		newEnd = *req.EndTime
	}
	if err := validateTimeRange(newStart, newEnd); err != nil {
		return nil, err
	}
	schedule.StartTime = newStart
	schedule.EndTime = newEnd
	if req.Room != nil {
		schedule.Room = req.Room
	}
	if req.Description != nil {
		schedule.Description = req.Description
	}

	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		s.logger.Error("更新课程安排失败", zap.Error(err))
		return nil, err
	}
	resp := toScheduleResponse(schedule)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *scheduleService) Delete(ctx context.Context, scheduleID, lecturerID string) error {
	if _, err := s.getOwnedSchedule(ctx, scheduleID, lecturerID); err != nil {
		return err
	}
	if err := s.repo.Schedule.Delete(ctx, scheduleID); err != nil {
		s.logger.Error("删除课程安排失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Sessions ──────────────────────

// ListSessions 排课元信息 + 课节列表。
// 已开启签到会话的课节带上会话起止与签到人数。
func (s *scheduleService) ListSessions(ctx context.Context, scheduleID, lecturerID string) (*dto.ScheduleSessionListResponse, error) {
	schedule, err := s.getOwnedSchedule(ctx, scheduleID, lecturerID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.Schedule.ListSessionsBySchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Error("查询课程场次失败", zap.Error(err))
		return nil, err
	}

	resps := make([]dto.ScheduleSessionResponse, 0, len(sessions))
	for i := range sessions {
		resp := toScheduleSessionResponse(&sessions[i])
		if live := sessions[i].Session; live != nil {
			resp.SessionStartAt = live.StartAt.Format(time.RFC3339)
			if live.EndAt != nil {
				resp.SessionEndAt = live.EndAt.Format(time.RFC3339)
			}
			count, err := s.repo.Attendance.CountBySession(ctx, live.ID)
			if err != nil {
				s.logger.Error("统计场次签到数失败", zap.Error(err))
				return nil, err
			}
			resp.AttendanceCount = count
		}
		resps = append(resps, resp)
	}

	result := &dto.ScheduleSessionListResponse{
		Schedule: toScheduleResponse(schedule),
		Sessions: resps,
	}
	result.Schedule.SessionCount = len(resps)
	return result, nil
}

func (s *scheduleService) UpdateSession(ctx context.Context, sessionID, lecturerID string, req *dto.UpdateScheduleSessionRequest) (*dto.ScheduleSessionResponse, error) {
	session, err := s.repo.Schedule.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleSessionNotFound
		}
		s.logger.Error("查询课程场次失败", zap.Error(err))
		return nil, err
	}
	// 经 Schedule -> Class 校验归属
	if session.Schedule == nil {
		return nil, ErrScheduleSessionNotFound
	}
	if _, err := s.repo.Class.GetOwned(ctx, session.Schedule.ClassID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleSessionNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, ErrClassForbidden
		}
		return nil, err
	}

	if req.Status != nil {
		switch *req.Status {
		case "scheduled":
			session.Status = model.ScheduleSessionScheduled
		case "completed":
			session.Status = model.ScheduleSessionCompleted
		case "cancelled":
			session.Status = model.ScheduleSessionCancelled
		}
	}
	if req.Note != nil {
		session.Note = req.Note
	}

	if err := s.repo.Schedule.UpdateSession(ctx, session); err != nil {
		s.logger.Error("更新课程场次失败", zap.Error(err))
		return nil, err
	}
	resp := toScheduleSessionResponse(session)
	return &resp, nil
}

func (s *scheduleService) getOwnedSchedule(ctx context.Context, scheduleID, lecturerID string) (*model.Schedule, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询课程安排失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Class.GetOwned(ctx, schedule.ClassID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, ErrClassForbidden
		}
		return nil, err
	}
	return schedule, nil
}

func toScheduleResponse(schedule *model.Schedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ID:         schedule.ID,
		ClassID:    schedule.ClassID,
		Name:       schedule.Name,
		StartDate:  schedule.StartDate.Format(scheduleDateLayout),
		EndDate:    schedule.EndDate.Format(scheduleDateLayout),
		DaysOfWeek: schedule.DaysOfWeek,
		StartTime:  schedule.StartTime,
		EndTime:    schedule.EndTime,
		CreatedAt:  schedule.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if schedule.Room != nil {
		resp.Room = *schedule.Room
	}
	if schedule.Description != nil {
		resp.Description = *schedule.Description
	}
	return resp
}

func toScheduleSessionResponse(session *model.ScheduleSession) dto.ScheduleSessionResponse {
	resp := dto.ScheduleSessionResponse{
		ID:          session.ID,
		ScheduleID:  session.ScheduleID,
		SessionDate: session.SessionDate.Format(scheduleDateLayout),
		SessionName: session.SessionName,
		Status:      session.Status,
	}
	if session.Note != nil {
		resp.Note = *session.Note
	}
	if session.Session != nil {
		resp.SessionID = session.Session.ID
	}
	return resp
}

// [自证通过] internal/service/schedule_service.go
