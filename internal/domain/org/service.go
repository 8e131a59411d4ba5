package org

import (
	"context"
	"net/url"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/forms"
)

const (
	departmentsPath  = "/departments"
	designationsPath = "/designations"
	locationsPath    = "/locations"
)

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

func list[T any](ctx context.Context, c *apiclient.Client, path string) ([]T, error) {
	var out apiclient.List[T]
	err := c.Get(ctx, path, nil, &out)
	return out.Items, err
}

func create[T any](ctx context.Context, c *apiclient.Client, path string, in T) (T, error) {
	var out T
	err := c.Post(ctx, path, in, &out)
	return out, err
}

func (s *Service) Departments(ctx context.Context) ([]Department, error) {
	return list[Department](ctx, s.Client, departmentsPath)
}

func (s *Service) CreateDepartment(ctx context.Context, d Department) (Department, error) {
	return create(ctx, s.Client, departmentsPath, d)
}

func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	return s.Client.Delete(ctx, departmentsPath+"/"+url.PathEscape(id))
}

func (s *Service) Designations(ctx context.Context) ([]Designation, error) {
	return list[Designation](ctx, s.Client, designationsPath)
}

func (s *Service) CreateDesignation(ctx context.Context, d Designation) (Designation, error) {
	return create(ctx, s.Client, designationsPath, d)
}

func (s *Service) DeleteDesignation(ctx context.Context, id string) error {
	return s.Client.Delete(ctx, designationsPath+"/"+url.PathEscape(id))
}

func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	return list[Location](ctx, s.Client, locationsPath)
}

func (s *Service) CreateLocation(ctx context.Context, l Location) (Location, error) {
	return create(ctx, s.Client, locationsPath, l)
}

func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	return s.Client.Delete(ctx, locationsPath+"/"+url.PathEscape(id))
}

func DepartmentOptions(items []Department) []forms.Option {
	out := make([]forms.Option, 0, len(items))
	for _, d := range items {
		out = append(out, forms.Option{Value: d.ID, Label: d.Name})
	}
	return out
}

func DesignationOptions(items []Designation) []forms.Option {
	out := make([]forms.Option, 0, len(items))
	for _, d := range items {
		out = append(out, forms.Option{Value: d.ID, Label: d.Name})
	}
	return out
}

func LocationOptions(items []Location) []forms.Option {
	out := make([]forms.Option, 0, len(items))
	for _, l := range items {
		label := l.Name
		if l.City != "" {
			label += " (" + l.City + ")"
		}
		out = append(out, forms.Option{Value: l.ID, Label: label})
	}
	return out
}
