package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
	pkgerrors "github.com/DuongStark/FaceAuthen-Backend/pkg/errors"
)

func setupTestScheduleService() (ScheduleService, *mockScheduleRepo, *mockClassRepo) {
	classRepo := newMockClassRepo()
	scheduleRepo := newMockScheduleRepo()
	repo := &repository.Repository{
		Class:    classRepo,
		Schedule: scheduleRepo,
	}
	svc := NewScheduleService(repo, zap.NewNop())
	return svc, scheduleRepo, classRepo
}

func seedClass(classRepo *mockClassRepo, classID, lecturerID string) {
	classRepo.classes[classID] = &model.Class{
		ID:         classID,
		LecturerID: lecturerID,
		Name:       "测试班级",
	}
}

// ── 创建与展开 ──

func TestCreateSchedule_ExpandsSessions(t *testing.T) {
	svc, scheduleRepo, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	// 2026-09-07 是周一；两周内周一+周三共 4 次
	result, err := svc.Create(context.Background(), "lect-1", &dto.CreateScheduleRequest{
		ClassID:    "class-1",
		Name:       "算法导论",
		StartDate:  "2026-09-07",
		EndDate:    "2026-09-20",
		DaysOfWeek: []int{1, 3},
		StartTime:  "08:00",
		EndTime:    "10:00",
	})

	if err != nil {
		t.Fatalf("Create 应成功，但返回错误: %v", err)
	}
	if result.SessionCount != 4 {
		t.Errorf("期望展开 4 个场次，实际=%d", result.SessionCount)
	}

	sessions, _ := scheduleRepo.ListSessionsBySchedule(context.Background(), result.ID)
	if len(sessions) != 4 {
		t.Fatalf("期望写入 4 个场次，实际=%d", len(sessions))
	}
	// 命名从 Session 1 起连续编号，日期只落在周一/周三
	names := map[string]bool{}
	for _, s := range sessions {
		names[s.SessionName] = true
		wd := int(s.SessionDate.Weekday())
		if wd != 1 && wd != 3 {
			t.Errorf("场次日期 %s 不在所选星期内", s.SessionDate.Format("2006-01-02"))
		}
		if s.Status != model.ScheduleSessionScheduled {
			t.Errorf("新场次状态应为 SCHEDULED，实际=%s", s.Status)
		}
	}
	for _, want := range []string{"Session 1", "Session 2", "Session 3", "Session 4"} {
		if !names[want] {
			t.Errorf("缺少场次 %s", want)
		}
	}
}

func TestCreateSchedule_SingleDayRange(t *testing.T) {
	svc, _, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	// 起止同一天且恰好是所选星期：2026-09-07 为周一
	result, err := svc.Create(context.Background(), "lect-1", &dto.CreateScheduleRequest{
		ClassID:    "class-1",
		Name:       "单日安排",
		StartDate:  "2026-09-07",
		EndDate:    "2026-09-07",
		DaysOfWeek: []int{1},
		StartTime:  "08:00",
		EndTime:    "10:00",
	})

	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.SessionCount != 1 {
		t.Errorf("期望 1 个场次，实际=%d", result.SessionCount)
	}
}

func TestCreateSchedule_NoMatchingDates(t *testing.T) {
	svc, scheduleRepo, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	// 2026-09-07(周一) ~ 2026-09-11(周五)，但只选周六：安排照常创建，场次为 0
	result, err := svc.Create(context.Background(), "lect-1", &dto.CreateScheduleRequest{
		ClassID:    "class-1",
		Name:       "无场次",
		StartDate:  "2026-09-07",
		EndDate:    "2026-09-11",
		DaysOfWeek: []int{6},
		StartTime:  "08:00",
		EndTime:    "10:00",
	})

	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.SessionCount != 0 {
		t.Errorf("期望 0 个场次，实际=%d", result.SessionCount)
	}
	sessions, _ := scheduleRepo.ListSessionsBySchedule(context.Background(), result.ID)
	if len(sessions) != 0 {
		t.Errorf("不应写入任何场次，实际=%d", len(sessions))
	}
}

func TestCreateSchedule_EmptyDaysOfWeek(t *testing.T) {
	svc, scheduleRepo, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	// 空星期集合同样合法：建安排、零场次
	result, err := svc.Create(context.Background(), "lect-1", &dto.CreateScheduleRequest{
		ClassID:    "class-1",
		Name:       "空星期",
		StartDate:  "2026-09-07",
		EndDate:    "2026-09-20",
		DaysOfWeek: []int{},
		StartTime:  "08:00",
		EndTime:    "10:00",
	})

	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.SessionCount != 0 {
		t.Errorf("期望 0 个场次，实际=%d", result.SessionCount)
	}
	if sessions, _ := scheduleRepo.ListSessionsBySchedule(context.Background(), result.ID); len(sessions) != 0 {
		t.Errorf("不应写入任何场次，实际=%d", len(sessions))
	}
}

func TestCreateSchedule_InvalidInput(t *testing.T) {
	svc, _, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateScheduleRequest
		want error
	}{
		{"结束早于开始", dto.CreateScheduleRequest{ClassID: "class-1", Name: "x", StartDate: "2026-09-10", EndDate: "2026-09-07", DaysOfWeek: []int{1}, StartTime: "08:00", EndTime: "10:00"}, ErrInvalidDateRange},
		{"时间段倒置", dto.CreateScheduleRequest{ClassID: "class-1", Name: "x", StartDate: "2026-09-07", EndDate: "2026-09-20", DaysOfWeek: []int{1}, StartTime: "10:00", EndTime: "08:00"}, ErrInvalidTimeRange},
		{"星期重复", dto.CreateScheduleRequest{ClassID: "class-1", Name: "x", StartDate: "2026-09-07", EndDate: "2026-09-20", DaysOfWeek: []int{1, 1}, StartTime: "08:00", EndTime: "10:00"}, ErrInvalidDaysOfWeek},
		{"星期越界", dto.CreateScheduleRequest{ClassID: "class-1", Name: "x", StartDate: "2026-09-07", EndDate: "2026-09-20", DaysOfWeek: []int{7}, StartTime: "08:00", EndTime: "10:00"}, ErrInvalidDaysOfWeek},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, "lect-1", &tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: 期望 %v，实际: %v", tc.name, tc.want, err)
		}
	}
}

// ── 重叠校验 ──

func TestCreateSchedule_OverlapRejected(t *testing.T) {
	svc, scheduleRepo, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	scheduleRepo.schedules["sched-existing"] = &model.Schedule{
		ID:        "sched-existing",
		ClassID:   "class-1",
		Name:      "已有安排",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.Create(context.Background(), "lect-1", &dto.CreateScheduleRequest{
		ClassID:    "class-1",
		Name:       "新安排",
		StartDate:  "2026-10-31", // 端点相接也算重叠
		EndDate:    "2026-12-20",
		DaysOfWeek: []int{1},
		StartTime:  "08:00",
		EndTime:    "10:00",
	})

	var conflictErr *pkgerrors.ScheduleConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望 ScheduleConflictError，实际: %v", err)
	}
	if len(conflictErr.Conflicts) != 1 {
		t.Fatalf("期望 1 条冲突，实际=%d", len(conflictErr.Conflicts))
	}
	if conflictErr.Conflicts[0].ID != "sched-existing" {
		t.Errorf("冲突明细 ID 不匹配: %s", conflictErr.Conflicts[0].ID)
	}
	// 冲突时不应写入任何数据
	if len(scheduleRepo.sessions) != 0 {
		t.Errorf("冲突时不应产生场次，实际=%d", len(scheduleRepo.sessions))
	}
}

func TestCreateSchedule_OtherClassDoesNotConflict(t *testing.T) {
	svc, scheduleRepo, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	// 同讲师另一个班级的安排不参与重叠判断
	scheduleRepo.schedules["sched-other"] = &model.Schedule{
		ID:        "sched-other",
		ClassID:   "class-2",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.Create(context.Background(), "lect-1", &dto.CreateScheduleRequest{
		ClassID:    "class-1",
		Name:       "新安排",
		StartDate:  "2026-09-07",
		EndDate:    "2026-09-20",
		DaysOfWeek: []int{1},
		StartTime:  "08:00",
		EndTime:    "10:00",
	})
	if err != nil {
		t.Errorf("其他班级的安排不应导致冲突: %v", err)
	}
}

// ── 权限 ──

func TestCreateSchedule_NotOwnedClass(t *testing.T) {
	svc, _, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	_, err := svc.Create(context.Background(), "lect-2", &dto.CreateScheduleRequest{
		ClassID:    "class-1",
		Name:       "越权",
		StartDate:  "2026-09-07",
		EndDate:    "2026-09-20",
		DaysOfWeek: []int{1},
		StartTime:  "08:00",
		EndTime:    "10:00",
	})

	if !errors.Is(err, ErrClassForbidden) {
		t.Errorf("期望 ErrClassForbidden，实际: %v", err)
	}
}

// ── 场次列表 ──

func TestListSessions_AnnotatesLiveSession(t *testing.T) {
	classRepo := newMockClassRepo()
	scheduleRepo := newMockScheduleRepo()
	attendanceRepo := newMockAttendanceRepo()
	repo := &repository.Repository{
		Class:      classRepo,
		Schedule:   scheduleRepo,
		Attendance: attendanceRepo,
	}
	svc := NewScheduleService(repo, zap.NewNop())

	seedClass(classRepo, "class-1", "lect-1")
	scheduleRepo.schedules["sched-1"] = &model.Schedule{
		ID: "sched-1", ClassID: "class-1", Name: "算法导论",
		StartDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		StartTime: "08:00", EndTime: "10:00",
	}

	// 第一节已开签到会话并有两人签到，第二节尚未开
	startAt := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	scheduleRepo.sessions["ss-1"] = &model.ScheduleSession{
		ID: "ss-1", ScheduleID: "sched-1",
		SessionDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		SessionName: "Session 1",
		Status:      model.ScheduleSessionScheduled,
		Session:     &model.Session{ID: "sess-1", ClassID: "class-1", StartAt: startAt},
	}
	scheduleRepo.sessions["ss-2"] = &model.ScheduleSession{
		ID: "ss-2", ScheduleID: "sched-1",
		SessionDate: time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		SessionName: "Session 2",
		Status:      model.ScheduleSessionScheduled,
	}
	for _, stu := range []string{"stu-1", "stu-2"} {
		_ = attendanceRepo.Create(context.Background(), &model.Attendance{
			SessionID: "sess-1", StudentID: stu, MatchedAt: startAt,
		})
	}

	result, err := svc.ListSessions(context.Background(), "sched-1", "lect-1")
	if err != nil {
		t.Fatalf("ListSessions 应成功: %v", err)
	}

	if result.Schedule.ID != "sched-1" || result.Schedule.Name != "算法导论" {
		t.Errorf("应带排课元信息，实际=%+v", result.Schedule)
	}
	if len(result.Sessions) != 2 {
		t.Fatalf("期望 2 个课节，实际=%d", len(result.Sessions))
	}

	live := result.Sessions[0]
	if live.SessionID != "sess-1" {
		t.Errorf("已开课节应带会话 ID，实际=%q", live.SessionID)
	}
	if live.SessionStartAt != startAt.Format(time.RFC3339) {
		t.Errorf("会话开始时间有误: %s", live.SessionStartAt)
	}
	if live.SessionEndAt != "" {
		t.Errorf("进行中的会话不应有结束时间: %s", live.SessionEndAt)
	}
	if live.AttendanceCount != 2 {
		t.Errorf("期望签到数 2，实际=%d", live.AttendanceCount)
	}

	idle := result.Sessions[1]
	if idle.SessionID != "" || idle.AttendanceCount != 0 {
		t.Errorf("未开课节不应带会话注解，实际=%+v", idle)
	}
}

// ── 场次状态更新 ──

func TestUpdateScheduleSession_StatusAndNote(t *testing.T) {
	svc, scheduleRepo, classRepo := setupTestScheduleService()
	seedClass(classRepo, "class-1", "lect-1")

	scheduleRepo.schedules["sched-1"] = &model.Schedule{
		ID: "sched-1", ClassID: "class-1",
		StartDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
	}
	scheduleRepo.sessions["ss-1"] = &model.ScheduleSession{
		ID: "ss-1", ScheduleID: "sched-1",
		SessionDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		SessionName: "Session 1",
		Status:      model.ScheduleSessionScheduled,
	}

	status := "cancelled"
	note := "国庆调休"
	result, err := svc.UpdateSession(context.Background(), "ss-1", "lect-1", &dto.UpdateScheduleSessionRequest{
		Status: &status,
		Note:   &note,
	})

	if err != nil {
		t.Fatalf("UpdateSession 应成功: %v", err)
	}
	if result.Status != model.ScheduleSessionCancelled {
		t.Errorf("期望状态 CANCELLED，实际=%s", result.Status)
	}
	if result.Note != "国庆调休" {
		t.Errorf("备注未保存: %s", result.Note)
	}
	// 日期不可变
	if result.SessionDate != "2026-09-07" {
		t.Errorf("场次日期不应变化: %s", result.SessionDate)
	}
}

// [自证通过] internal/service/schedule_service_test.go
