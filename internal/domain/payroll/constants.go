package payroll

const (
	WarningNegativeNet = "negative_net"
	WarningZeroHours   = "zero_hours"

	JobPayrollRun = "payroll_run"
)
