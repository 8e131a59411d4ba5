package employeeshandler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hrmweb/internal/domain/employees"
	"hrmweb/internal/platform/xlsx"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/transport/http/shared"
)

var exportHeader = []string{
	"Code", "First name", "Last name", "E-mail", "Phone", "Department", "Designation",
	"Location", "Manager", "Employment type", "Joining date", "Status",
}

func exportRows(people []employees.Employee) [][]any {
	rows := make([][]any, 0, len(people))
	for _, e := range people {
		rows = append(rows, []any{
			e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone,
			e.JobInfo.DepartmentName, e.JobInfo.DesignationName, e.JobInfo.LocationName, e.JobInfo.ManagerName,
			e.EmploymentDetails.EmploymentType, e.EmploymentDetails.JoiningDate, e.EmploymentDetails.Status,
		})
	}
	return rows
}

// handleExport builds the directory spreadsheet locally from the list
// endpoint, honoring the list page's filters.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	people, err := h.Service.All(r.Context(), employees.ListQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	})
	if err != nil {
		h.Web.Fail(w, r, err, listPath)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, xlsx.Sheet{Name: "Employees", Header: exportHeader, Rows: exportRows(people)}); err != nil {
		slog.Error("employee export failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, listPath)
		return
	}
	name := "employees-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
