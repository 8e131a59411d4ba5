package auth

const (
	ScreenDashboard    = "dashboard"
	ScreenProfile      = "profile"
	ScreenEmployees    = "employees"
	ScreenOnboarding   = "employees.onboard"
	ScreenEmployeeXLSX = "employees.export"
	ScreenAttendance   = "attendance"
	ScreenAttendanceEx = "attendance.export"
	ScreenLeaves       = "leaves"
	ScreenLeaveApprove = "leaves.approve"
	ScreenLeaveAdmin   = "leaves.admin"
	ScreenLeaveExport  = "leaves.export"
	ScreenPayroll      = "payroll"
	ScreenPayrollRun   = "payroll.run"
	ScreenPayrollEx    = "payroll.export"
	ScreenHelpdesk     = "helpdesk"
	ScreenHelpdeskTri  = "helpdesk.triage"
	ScreenRoles        = "admin.roles"
	ScreenOrg          = "admin.org"
	ScreenAudit        = "admin.audit"
	ScreenGoals        = "performance.goals"
	ScreenCycles       = "performance.cycles"
	ScreenReviews      = "performance.reviews"
	ScreenReviewWrite  = "performance.reviews.write"
	ScreenAppraisals   = "appraisals"
	ScreenAppraisalOK  = "appraisals.approve"
	ScreenCandidates   = "recruitment.candidates"
)

var AllScreens = []string{
	ScreenDashboard,
	ScreenProfile,
	ScreenEmployees,
	ScreenOnboarding,
	ScreenEmployeeXLSX,
	ScreenAttendance,
	ScreenAttendanceEx,
	ScreenLeaves,
	ScreenLeaveApprove,
	ScreenLeaveAdmin,
	ScreenLeaveExport,
	ScreenPayroll,
	ScreenPayrollRun,
	ScreenPayrollEx,
	ScreenHelpdesk,
	ScreenHelpdeskTri,
	ScreenRoles,
	ScreenOrg,
	ScreenAudit,
	ScreenGoals,
	ScreenCycles,
	ScreenReviews,
	ScreenReviewWrite,
	ScreenAppraisals,
	ScreenAppraisalOK,
	ScreenCandidates,
}

var commonScreens = []string{
	ScreenDashboard,
	ScreenProfile,
	ScreenAttendance,
	ScreenLeaves,
	ScreenPayroll,
	ScreenHelpdesk,
	ScreenGoals,
	ScreenReviews,
}

// RoleScreens is the client-side gate per role. The backend still
// authorizes every call; this only decides what is rendered and routed.
var RoleScreens = map[string][]string{
	RoleEmployee: commonScreens,
	RoleManager: append(append([]string{}, commonScreens...),
		ScreenEmployees,
		ScreenAttendanceEx,
		ScreenLeaveApprove,
		ScreenReviewWrite,
		ScreenAppraisals,
	),
	RoleHR: append(append([]string{}, commonScreens...),
		ScreenEmployees,
		ScreenOnboarding,
		ScreenEmployeeXLSX,
		ScreenAttendanceEx,
		ScreenLeaveApprove,
		ScreenLeaveAdmin,
		ScreenLeaveExport,
		ScreenPayrollRun,
		ScreenPayrollEx,
		ScreenHelpdeskTri,
		ScreenOrg,
		ScreenCycles,
		ScreenReviewWrite,
		ScreenAppraisals,
		ScreenAppraisalOK,
		ScreenCandidates,
	),
	RoleAdmin: AllScreens,
}

// CanAccess reports whether role may open screen.
func CanAccess(role, screen string) bool {
	for _, allowed := range RoleScreens[NormalizeRole(role)] {
		if allowed == screen {
			return true
		}
	}
	return false
}

// RolesFor lists the roles allowed on screen, in a stable order.
func RolesFor(screen string) []string {
	var out []string
	for _, role := range []string{RoleAdmin, RoleHR, RoleManager, RoleEmployee} {
		if CanAccess(role, screen) {
			out = append(out, role)
		}
	}
	return out
}
