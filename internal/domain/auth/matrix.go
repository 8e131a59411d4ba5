package auth

import (
	"sort"
	"strings"
)

type MatrixCell struct {
	Key     string
	Label   string
	Checked bool
}

type MatrixRow struct {
	Module string
	Cells  []MatrixCell
}

// Matrix is the checkbox grid of one role against every known permission,
// grouped by module.
type Matrix struct {
	RoleID   string
	RoleName string
	Rows     []MatrixRow
}

func BuildMatrix(role Role, perms []Permission) Matrix {
	granted := make(map[string]struct{}, len(role.Permissions))
	for _, key := range role.Permissions {
		granted[key] = struct{}{}
	}

	byModule := map[string][]MatrixCell{}
	for _, perm := range perms {
		key := permissionKey(perm)
		if key == "" {
			continue
		}
		module, action := splitPermission(perm)
		_, checked := granted[key]
		byModule[module] = append(byModule[module], MatrixCell{Key: key, Label: action, Checked: checked})
	}

	modules := make([]string, 0, len(byModule))
	for module := range byModule {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	out := Matrix{RoleID: role.ID, RoleName: role.Name}
	for _, module := range modules {
		cells := byModule[module]
		sort.Slice(cells, func(i, j int) bool { return cells[i].Key < cells[j].Key })
		out.Rows = append(out.Rows, MatrixRow{Module: module, Cells: cells})
	}
	return out
}

// SelectedPermissions filters submitted checkbox values down to keys the
// backend advertised, deduplicated and sorted.
func SelectedPermissions(perms []Permission, submitted []string) []string {
	known := make(map[string]struct{}, len(perms))
	for _, perm := range perms {
		if key := permissionKey(perm); key != "" {
			known[key] = struct{}{}
		}
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, key := range submitted {
		key = strings.TrimSpace(key)
		if _, ok := known[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func permissionKey(perm Permission) string {
	if perm.Key != "" {
		return perm.Key
	}
	return perm.ID
}

func splitPermission(perm Permission) (string, string) {
	key := permissionKey(perm)
	module := perm.Module
	action := key
	if idx := strings.LastIndexByte(key, '.'); idx > 0 {
		if module == "" {
			module = key[:idx]
		}
		action = key[idx+1:]
	}
	if module == "" {
		module = "general"
	}
	if perm.Description != "" {
		action = perm.Description
	}
	return module, action
}
