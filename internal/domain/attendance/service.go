package attendance

import (
	"context"
	"net/url"

	"hrmweb/internal/apiclient"
)

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

func (q Query) values() url.Values {
	values := url.Values{}
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.To != "" {
		values.Set("to", q.To)
	}
	if q.EmployeeID != "" {
		values.Set("employeeId", q.EmployeeID)
	}
	return values
}

// Today returns the caller's record for today; a zero Record means the
// employee has not checked in yet.
func (s *Service) Today(ctx context.Context) (Record, error) {
	var out *Record
	if err := s.Client.Get(ctx, "/attendance/today", nil, &out); err != nil {
		return Record{}, err
	}
	if out == nil {
		return Record{}, nil
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context, q Query) ([]Record, error) {
	var out apiclient.List[Record]
	err := s.Client.Get(ctx, "/attendance", q.values(), &out)
	return out.Items, err
}

func (s *Service) CheckIn(ctx context.Context) (Record, error) {
	var out Record
	err := s.Client.Post(ctx, "/attendance/check-in", nil, &out)
	return out, err
}

func (s *Service) CheckOut(ctx context.Context) (Record, error) {
	var out Record
	err := s.Client.Post(ctx, "/attendance/check-out", nil, &out)
	return out, err
}

func (s *Service) Export(ctx context.Context, q Query) (*apiclient.File, error) {
	return s.Client.Download(ctx, "/attendance/export", q.values())
}
