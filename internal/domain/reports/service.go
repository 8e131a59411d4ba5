package reports

import (
	"context"
	"fmt"
	"strconv"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/domain/auth"
)

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := s.Client.Get(ctx, "/dashboard/stats", nil, &out)
	return out, err
}

func EmployeeDashboard(stats Stats) []Card {
	return []Card{
		{Label: "Leave balance", Value: formatDays(stats.LeaveBalance), Link: "/leaves"},
		{Label: "Pending leaves", Value: strconv.Itoa(stats.PendingLeaves), Link: "/leaves"},
		{Label: "Payslips", Value: strconv.Itoa(stats.PayslipCount), Link: "/payroll"},
		{Label: "Goals", Value: strconv.Itoa(stats.GoalCount), Link: "/performance/goals"},
		{Label: "Open tickets", Value: strconv.Itoa(stats.OpenTickets), Link: "/helpdesk"},
	}
}

func ManagerDashboard(stats Stats) []Card {
	return []Card{
		{Label: "Pending approvals", Value: strconv.Itoa(stats.PendingApprovals), Link: "/leaves"},
		{Label: "Team goals", Value: strconv.Itoa(stats.TeamGoals), Link: "/performance/goals"},
		{Label: "Review tasks", Value: strconv.Itoa(stats.ReviewTasks), Link: "/performance/reviews"},
		{Label: "Leave balance", Value: formatDays(stats.LeaveBalance), Link: "/leaves"},
	}
}

func HRDashboard(stats Stats) []Card {
	payroll := stats.PayrollStatus
	if payroll == "" {
		payroll = "not run"
	}
	return []Card{
		{Label: "Employees", Value: strconv.Itoa(stats.TotalEmployees), Link: "/employees"},
		{Label: "Present today", Value: strconv.Itoa(stats.PresentToday), Link: "/attendance"},
		{Label: "On leave today", Value: strconv.Itoa(stats.OnLeaveToday), Link: "/leaves"},
		{Label: "Pending leaves", Value: strconv.Itoa(stats.PendingLeaves), Link: "/leaves"},
		{Label: "Open tickets", Value: strconv.Itoa(stats.OpenTickets), Link: "/helpdesk"},
		{Label: "Review cycles", Value: strconv.Itoa(stats.ReviewCycles), Link: "/performance/cycles"},
		{Label: "Payroll", Value: payroll, Link: "/payroll"},
	}
}

// Cards picks the dashboard for the caller's role.
func Cards(role string, stats Stats) []Card {
	switch auth.NormalizeRole(role) {
	case auth.RoleAdmin, auth.RoleHR:
		return HRDashboard(stats)
	case auth.RoleManager:
		return ManagerDashboard(stats)
	default:
		return EmployeeDashboard(stats)
	}
}

func formatDays(days float64) string {
	if days == float64(int(days)) {
		return fmt.Sprintf("%d days", int(days))
	}
	return fmt.Sprintf("%.1f days", days)
}
