package org

type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	HeadName    string `json:"headName,omitempty"`
}

type Designation struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Level        int    `json:"level,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
}

type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city"`
	Country string `json:"country"`
}
