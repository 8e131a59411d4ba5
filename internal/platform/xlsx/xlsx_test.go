package xlsx

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteRoundTripsCells(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf,
		Sheet{
			Name:   "Employees",
			Header: []string{"Code", "Name", "Email"},
			Rows: [][]any{
				{"EMP-1", "Ada Lovelace", "ada@example.com"},
				{"EMP-2", "Grace Hopper", "grace@example.com"},
			},
		},
		Sheet{Name: "Summary", Header: []string{"Total"}, Rows: [][]any{{2}}},
	)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Employees")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 || rows[0][1] != "Name" || rows[2][2] != "grace@example.com" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if total, _ := f.GetCellValue("Summary", "A2"); total != "2" {
		t.Fatalf("unexpected summary total %q", total)
	}
}

func TestWriteNeedsSheet(t *testing.T) {
	if err := Write(&bytes.Buffer{}); !errors.Is(err, ErrNoSheets) {
		t.Fatalf("expected ErrNoSheets, got %v", err)
	}
}
