package auth

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	PermCompanyRead     = "company.read"
	PermCompanyWrite    = "company.write"
	PermTeamInvite      = "team.invite"
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermBenefitsRead    = "benefits.read"
	PermBenefitsWrite   = "benefits.write"
	PermDeductionsRead  = "deductions.read"
	PermDeductionsWrite = "deductions.write"
	PermPaymentsRead    = "payments.read"
	PermPaymentsWrite   = "payments.write"
	PermPaymentsRun     = "payments.run"
	PermAttendanceRead  = "attendance.read"
	PermAttendanceWrite = "attendance.write"
	PermLeaveRead       = "leave.read"
	PermLeaveWrite      = "leave.write"
	PermLeaveApprove    = "leave.approve"
	PermDashboardRead   = "dashboard.read"
	PermAuditRead       = "audit.read"
)

var Roles = []string{RoleOwner, RoleAdmin, RoleMember}

// RolePermissions lists what each role adds on top of the role it inherits
// from (owner > admin > member).
var RolePermissions = map[string][]string{
	RoleMember: {
		PermCompanyRead,
		PermEmployeesRead,
		PermBenefitsRead,
		PermDeductionsRead,
		PermPaymentsRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermDashboardRead,
	},
	RoleAdmin: {
		PermTeamInvite,
		PermEmployeesWrite,
		PermBenefitsWrite,
		PermDeductionsWrite,
		PermPaymentsWrite,
		PermPaymentsRun,
		PermLeaveApprove,
		PermAuditRead,
	},
	RoleOwner: {
		PermCompanyWrite,
	},
}

var RoleParents = map[string]string{
	RoleOwner: RoleAdmin,
	RoleAdmin: RoleMember,
}

func ValidRole(role string) bool {
	for _, candidate := range Roles {
		if candidate == role {
			return true
		}
	}
	return false
}
