package auth

import (
	"reflect"
	"testing"
)

var samplePerms = []Permission{
	{Key: "leave.approve"},
	{Key: "leave.read"},
	{Key: "payroll.run", Description: "Run payroll"},
	{Key: "employees.write", Module: "core"},
}

func TestBuildMatrixGroupsByModule(t *testing.T) {
	role := Role{ID: "r1", Name: "Manager", Permissions: []string{"leave.approve", "employees.write"}}
	matrix := BuildMatrix(role, samplePerms)

	if len(matrix.Rows) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(matrix.Rows))
	}
	if matrix.Rows[0].Module != "core" || !matrix.Rows[0].Cells[0].Checked {
		t.Fatalf("unexpected core row %+v", matrix.Rows[0])
	}
	leave := matrix.Rows[1]
	if leave.Module != "leave" || len(leave.Cells) != 2 {
		t.Fatalf("unexpected leave row %+v", leave)
	}
	if !leave.Cells[0].Checked || leave.Cells[1].Checked {
		t.Fatalf("unexpected leave checks %+v", leave.Cells)
	}
	if matrix.Rows[2].Cells[0].Label != "Run payroll" {
		t.Fatalf("expected description label, got %q", matrix.Rows[2].Cells[0].Label)
	}
}

func TestSelectedPermissions(t *testing.T) {
	got := SelectedPermissions(samplePerms, []string{"payroll.run", "bogus", "leave.read", "payroll.run"})
	want := []string{"leave.read", "payroll.run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := SelectedPermissions(samplePerms, nil); len(got) != 0 {
		t.Fatalf("expected empty selection, got %v", got)
	}
}
