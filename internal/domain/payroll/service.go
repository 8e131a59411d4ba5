package payroll

import (
	"context"
	"net/url"
	"strconv"

	"hrmweb/internal/apiclient"
)

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

func periodQuery(month, year int) url.Values {
	values := url.Values{}
	if month > 0 {
		values.Set("month", strconv.Itoa(month))
	}
	if year > 0 {
		values.Set("year", strconv.Itoa(year))
	}
	return values
}

// Generate asks the backend to run payroll for the month. The backend does
// every calculation.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if err := ValidPeriod(req.Month, req.Year); err != nil {
		return GenerateResult{}, err
	}
	var out GenerateResult
	err := s.Client.Post(ctx, "/payroll/generate", req, &out)
	return out, err
}

// Payslips is the organization-wide register, optionally for one month.
func (s *Service) Payslips(ctx context.Context, month, year int) ([]Payslip, error) {
	var out apiclient.List[Payslip]
	err := s.Client.Get(ctx, "/payroll/payslips", periodQuery(month, year), &out)
	return out.Items, err
}

func (s *Service) MyPayslips(ctx context.Context) ([]Payslip, error) {
	var out apiclient.List[Payslip]
	err := s.Client.Get(ctx, "/payroll/my-payslips", nil, &out)
	return out.Items, err
}

func (s *Service) Payslip(ctx context.Context, id string) (Payslip, error) {
	var out Payslip
	err := s.Client.Get(ctx, "/payroll/payslips/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s *Service) Export(ctx context.Context, month, year int) (*apiclient.File, error) {
	return s.Client.Download(ctx, "/payroll/export", periodQuery(month, year))
}
