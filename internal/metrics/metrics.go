// Package metrics 定义 Prometheus 业务指标，经 /metrics 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttendanceRecorded 成功写入的签到记录数，按方式分维度
	AttendanceRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faceauthen_attendance_recorded_total",
		Help: "成功记录的签到次数",
	}, []string{"method"})

	// AttendanceDuplicate 去重窗口内被拒绝的签到数
	AttendanceDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faceauthen_attendance_duplicate_total",
		Help: "因重复签到被拒绝的次数",
	})

	// IPGateDenied IP 准入拒绝数
	IPGateDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faceauthen_ip_gate_denied_total",
		Help: "IP 白名单校验拒绝的请求数",
	})

	// ReminderSent 发出的上课提醒通知数
	ReminderSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faceauthen_reminder_sent_total",
		Help: "已发送的上课提醒通知数",
	})
)
