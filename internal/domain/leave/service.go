package leave

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

func (s *Service) Types(ctx context.Context) ([]LeaveType, error) {
	var out apiclient.List[LeaveType]
	err := s.Client.Get(ctx, "/leaves/types", nil, &out)
	return out.Items, err
}

func (s *Service) CreateType(ctx context.Context, lt LeaveType) (LeaveType, error) {
	var out LeaveType
	err := s.Client.Post(ctx, "/leaves/types", lt, &out)
	return out, err
}

func (s *Service) Policies(ctx context.Context) ([]LeavePolicy, error) {
	var out apiclient.List[LeavePolicy]
	err := s.Client.Get(ctx, "/leaves/policies", nil, &out)
	return out.Items, err
}

func (s *Service) CreatePolicy(ctx context.Context, p LeavePolicy) (LeavePolicy, error) {
	var out LeavePolicy
	err := s.Client.Post(ctx, "/leaves/policies", p, &out)
	return out, err
}

// MyApplications lists the caller's own applications.
func (s *Service) MyApplications(ctx context.Context) ([]Application, error) {
	var out apiclient.List[Application]
	err := s.Client.Get(ctx, "/leaves/applications", url.Values{"mine": {"true"}}, &out)
	return out.Items, err
}

// PendingApprovals lists applications awaiting the caller's decision.
func (s *Service) PendingApprovals(ctx context.Context) ([]Application, error) {
	var out apiclient.List[Application]
	err := s.Client.Get(ctx, "/leaves/applications/pending", nil, &out)
	return out.Items, err
}

// Apply normalizes the application before sending it.
func (s *Service) Apply(ctx context.Context, app NewApplication) (Application, error) {
	var out Application
	err := s.Client.Post(ctx, "/leaves/applications", Normalize(app), &out)
	return out, err
}

func (s *Service) Approve(ctx context.Context, id string) error {
	return s.Client.Patch(ctx, "/leaves/applications/"+url.PathEscape(id)+"/approve", nil, nil)
}

func (s *Service) Reject(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	return s.Client.Patch(ctx, "/leaves/applications/"+url.PathEscape(id)+"/reject", body, nil)
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.Client.Patch(ctx, "/leaves/applications/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (s *Service) Balances(ctx context.Context) ([]Balance, error) {
	var out apiclient.List[Balance]
	err := s.Client.Get(ctx, "/leaves/balance", nil, &out)
	return out.Items, err
}

func (s *Service) Export(ctx context.Context, q ExportQuery) (*apiclient.File, error) {
	values := url.Values{}
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.To != "" {
		values.Set("to", q.To)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	return s.Client.Download(ctx, "/leaves/export", values)
}
