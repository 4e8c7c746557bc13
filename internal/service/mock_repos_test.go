package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UID == "" {
		user.UID = "user-" + user.Email
	}
	m.users[user.UID] = user
	return nil
}

func (m *mockUserRepo) GetByUID(_ context.Context, uid string) (*model.User, error) {
	if u, ok := m.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes  map[string]*model.Class
	students *mockStudentRepo
	sessions *mockSessionRepo
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	if class.ID == "" {
		class.ID = fmt.Sprintf("class-%d", len(m.classes)+1)
	}
	m.classes[class.ID] = class
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) GetOwned(_ context.Context, id, lecturerID string) (*model.Class, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if c.LecturerID != lecturerID {
		return nil, repository.ErrNotOwner
	}
	return c, nil
}

func (m *mockClassRepo) ListByLecturer(_ context.Context, lecturerID string) ([]model.Class, error) {
	var result []model.Class
	for _, c := range m.classes {
		if c.LecturerID == lecturerID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockClassRepo) Update(_ context.Context, class *model.Class) error {
	m.classes[class.ID] = class
	return nil
}

func (m *mockClassRepo) Delete(_ context.Context, id string) error {
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) CountStudents(_ context.Context, classID string) (int64, error) {
	if m.students == nil {
		return 0, nil
	}
	var n int64
	for _, s := range m.students.students {
		if s.ClassID == classID {
			n++
		}
	}
	return n, nil
}

func (m *mockClassRepo) CountSessions(_ context.Context, classID string) (int64, error) {
	if m.sessions == nil {
		return 0, nil
	}
	var n int64
	for _, s := range m.sessions.sessions {
		if s.ClassID == classID {
			n++
		}
	}
	return n, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.ID == "" {
		student.ID = fmt.Sprintf("stu-%d", len(m.students)+1)
	}
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) BatchCreate(_ context.Context, students []model.Student) (int64, error) {
	var created int64
	for i := range students {
		dup := false
		for _, existing := range m.students {
			if existing.ClassID == students[i].ClassID && existing.StudentID == students[i].StudentID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		s := students[i]
		s.ID = fmt.Sprintf("stu-%d", len(m.students)+1)
		m.students[s.ID] = &s
		created++
	}
	return created, nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListByClass(_ context.Context, classID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.ClassID == classID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.students, id)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule
	sessions  map[string]*model.ScheduleSession
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules: make(map[string]*model.Schedule),
		sessions:  make(map[string]*model.ScheduleSession),
	}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = fmt.Sprintf("sched-%d", len(m.schedules)+1)
	}
	m.schedules[schedule.ID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListByClass(_ context.Context, classID string) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if s.ClassID == classID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) FindOverlapping(_ context.Context, classID string, startDate, endDate time.Time, excludeID string) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if s.ClassID != classID || s.ID == excludeID {
			continue
		}
		if !s.StartDate.After(endDate) && !s.EndDate.Before(startDate) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.Schedule) error {
	m.schedules[schedule.ID] = schedule
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

func (m *mockScheduleRepo) BatchCreateSessions(_ context.Context, sessions []model.ScheduleSession) error {
	for i := range sessions {
		s := sessions[i]
		if s.ID == "" {
			s.ID = fmt.Sprintf("ss-%d", len(m.sessions)+1)
		}
		m.sessions[s.ID] = &s
	}
	return nil
}

func (m *mockScheduleRepo) GetSessionByID(_ context.Context, id string) (*model.ScheduleSession, error) {
	if s, ok := m.sessions[id]; ok {
		copied := *s
		if copied.Schedule == nil {
			copied.Schedule = m.schedules[copied.ScheduleID]
		}
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListSessionsBySchedule(_ context.Context, scheduleID string) ([]model.ScheduleSession, error) {
	var result []model.ScheduleSession
	for _, s := range m.sessions {
		if s.ScheduleID == scheduleID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SessionDate.Before(result[j].SessionDate)
	})
	return result, nil
}

func (m *mockScheduleRepo) ListSessionsByClass(_ context.Context, classID string) ([]model.ScheduleSession, error) {
	var result []model.ScheduleSession
	for _, s := range m.sessions {
		if sched, ok := m.schedules[s.ScheduleID]; ok && sched.ClassID == classID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) UpdateSession(_ context.Context, session *model.ScheduleSession) error {
	stored := *session
	stored.Schedule = nil
	m.sessions[session.ID] = &stored
	return nil
}

func (m *mockScheduleRepo) CountSessions(_ context.Context, scheduleID string) (int64, error) {
	var n int64
	for _, s := range m.sessions {
		if s.ScheduleID == scheduleID {
			n++
		}
	}
	return n, nil
}

func (m *mockScheduleRepo) FindSessionsStartingBetween(_ context.Context, from, to time.Time) ([]model.ScheduleSession, error) {
	var result []model.ScheduleSession
	for _, s := range m.sessions {
		sched, ok := m.schedules[s.ScheduleID]
		if !ok || s.Status != model.ScheduleSessionScheduled {
			continue
		}
		start, err := combineDateTime(s.SessionDate, sched.StartTime)
		if err != nil {
			continue
		}
		if !start.Before(from) && start.Before(to) {
			copied := *s
			copied.Schedule = sched
			result = append(result, copied)
		}
	}
	return result, nil
}

func combineDateTime(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = fmt.Sprintf("sess-%d", len(m.sessions)+1)
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) GetActiveByClass(_ context.Context, classID string) (*model.Session, error) {
	for _, s := range m.sessions {
		if s.ClassID == classID && s.EndAt == nil {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) GetByScheduleSession(_ context.Context, scheduleSessionID string) (*model.Session, error) {
	for _, s := range m.sessions {
		if s.ScheduleSessionID != nil && *s.ScheduleSessionID == scheduleSessionID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) ListByClass(_ context.Context, classID string, _, _ int) ([]model.Session, int64, error) {
	var result []model.Session
	for _, s := range m.sessions {
		if s.ClassID == classID {
			result = append(result, *s)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockSessionRepo) Update(_ context.Context, session *model.Session) error {
	m.sessions[session.ID] = session
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records  []*model.Attendance
	students *mockStudentRepo
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{}
}

func (m *mockAttendanceRepo) Create(_ context.Context, attendance *model.Attendance) error {
	if attendance.ID == "" {
		attendance.ID = fmt.Sprintf("att-%d", len(m.records)+1)
	}
	m.records = append(m.records, attendance)
	return nil
}

func (m *mockAttendanceRepo) LatestSince(_ context.Context, sessionID, studentID string, since time.Time) (*model.Attendance, error) {
	var latest *model.Attendance
	for _, a := range m.records {
		if a.SessionID != sessionID || a.StudentID != studentID || a.MatchedAt.Before(since) {
			continue
		}
		if latest == nil || a.MatchedAt.After(latest.MatchedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockAttendanceRepo) ListBySession(_ context.Context, sessionID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.records {
		if a.SessionID == sessionID {
			copied := *a
			if m.students != nil {
				copied.Student = m.students.students[a.StudentID]
			}
			result = append(result, copied)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountBySession(_ context.Context, sessionID string) (int64, error) {
	seen := map[string]bool{}
	for _, a := range m.records {
		if a.SessionID == sessionID {
			seen[a.StudentID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *mockAttendanceRepo) CountByStudentInClass(_ context.Context, _ string, studentID string) (int64, error) {
	seen := map[string]bool{}
	for _, a := range m.records {
		if a.StudentID == studentID {
			seen[a.SessionID] = true
		}
	}
	return int64(len(seen)), nil
}

// ── Mock AllowedIPRepository ──

type mockAllowedIPRepo struct {
	entries map[string]*model.AllowedIP
	listErr error
}

func newMockAllowedIPRepo() *mockAllowedIPRepo {
	return &mockAllowedIPRepo{entries: make(map[string]*model.AllowedIP)}
}

func (m *mockAllowedIPRepo) Create(_ context.Context, entry *model.AllowedIP) error {
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("ip-%d", len(m.entries)+1)
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockAllowedIPRepo) GetByID(_ context.Context, id string) (*model.AllowedIP, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllowedIPRepo) List(_ context.Context) ([]model.AllowedIP, error) {
	var result []model.AllowedIP
	for _, e := range m.entries {
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockAllowedIPRepo) ListActive(_ context.Context) ([]model.AllowedIP, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.AllowedIP
	for _, e := range m.entries {
		if e.IsActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockAllowedIPRepo) Update(_ context.Context, entry *model.AllowedIP) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockAllowedIPRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// ── Mock IPConfigRepository ──

type mockIPConfigRepo struct {
	config *model.IPConfig
	getErr error
}

func newMockIPConfigRepo() *mockIPConfigRepo {
	return &mockIPConfigRepo{}
}

func (m *mockIPConfigRepo) GetSingleton(_ context.Context) (*model.IPConfig, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.config == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.config, nil
}

func (m *mockIPConfigRepo) Upsert(_ context.Context, config *model.IPConfig) error {
	if config.ID == "" {
		config.ID = "ipcfg-1"
	}
	m.config = config
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	mu            sync.Mutex // Create 可能来自后台轮询协程
	notifications map[string]*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if notification.ID == "" {
		notification.ID = fmt.Sprintf("notif-%d", len(m.notifications)+1)
	}
	m.notifications[notification.ID] = notification
	return nil
}

func (m *mockNotificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	for i := range notifications {
		if err := m.Create(ctx, &notifications[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockNotificationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notifications)
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, notif := range m.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) ExistsByTypeAndRelated(_ context.Context, userID, notifType, relatedID string) (bool, error) {
	for _, n := range m.notifications {
		if n.UserID == userID && n.Type == notifType && n.RelatedID != nil && *n.RelatedID == relatedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string, readAt time.Time) (int64, error) {
	if n, ok := m.notifications[id]; ok && n.UserID == userID && !n.IsRead {
		n.IsRead = true
		n.ReadAt = &readAt
		return 1, nil
	}
	return 0, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string, readAt time.Time) (int64, error) {
	var affected int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &readAt
			affected++
		}
	}
	return affected, nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id, userID string) (int64, error) {
	if n, ok := m.notifications[id]; ok && n.UserID == userID {
		delete(m.notifications, id)
		return 1, nil
	}
	return 0, nil
}

// [自证通过] internal/service/mock_repos_test.go
