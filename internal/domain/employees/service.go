package employees

import (
	"context"
	"net/url"
	"strconv"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/forms"
)

const DefaultPageSize = 20

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.DepartmentID != "" {
		values.Set("department", q.DepartmentID)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("limit", strconv.Itoa(limit))
	return values
}

func (s *Service) List(ctx context.Context, query ListQuery) (apiclient.List[Employee], error) {
	var out apiclient.List[Employee]
	err := s.Client.Get(ctx, "/employees", query.values(), &out)
	return out, err
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	var out Employee
	err := s.Client.Get(ctx, "/employees/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s *Service) Create(ctx context.Context, emp NewEmployee) (Created, error) {
	var out Created
	err := s.Client.Post(ctx, "/employees", emp, &out)
	return out, err
}

func (s *Service) Update(ctx context.Context, id string, emp NewEmployee) (Employee, error) {
	var out Employee
	err := s.Client.Put(ctx, "/employees/"+url.PathEscape(id), emp, &out)
	return out, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Client.Delete(ctx, "/employees/"+url.PathEscape(id))
}

// UploadDocument sends one attachment as multipart form data.
func (s *Service) UploadDocument(ctx context.Context, employeeID string, upload forms.PendingUpload) (Document, error) {
	form := &apiclient.Multipart{
		Fields: map[string]string{"type": upload.Kind},
		Files: []apiclient.FilePart{{
			Field:       "file",
			FileName:    upload.FileName,
			ContentType: upload.ContentType,
			Data:        upload.Data,
		}},
	}
	var out Document
	err := s.Client.Upload(ctx, "/employees/"+url.PathEscape(employeeID)+"/documents", form, &out)
	return out, err
}

func (s *Service) VerifyDocument(ctx context.Context, employeeID, documentID string, v Verification) error {
	path := "/employees/" + url.PathEscape(employeeID) + "/documents/" + url.PathEscape(documentID) + "/verify"
	return s.Client.Patch(ctx, path, v, nil)
}

// All pages through the directory for exports.
func (s *Service) All(ctx context.Context, query ListQuery) ([]Employee, error) {
	query.Page = 1
	query.Limit = 200
	var out []Employee
	for {
		page, err := s.List(ctx, query)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if len(page.Items) < query.Limit || len(out) >= page.Total {
			return out, nil
		}
		query.Page++
	}
}
