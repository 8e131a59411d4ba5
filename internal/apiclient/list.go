package apiclient

import (
	"bytes"
	"encoding/json"
)

// List decodes list endpoints that answer either a bare JSON array or a
// paged object {"items": [...], "total": n}.
type List[T any] struct {
	Items []T
	Total int
}

func (l *List[T]) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		l.Items, l.Total = nil, 0
		return nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &l.Items); err != nil {
			return err
		}
		l.Total = len(l.Items)
		return nil
	}
	var paged struct {
		Items []T `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(trimmed, &paged); err != nil {
		return err
	}
	l.Items = paged.Items
	l.Total = paged.Total
	if l.Total < len(l.Items) {
		l.Total = len(l.Items)
	}
	return nil
}

func (l List[T]) Empty() bool {
	return len(l.Items) == 0
}
