package performance

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

func (s *Service) Goals(ctx context.Context) ([]Goal, error) {
	var out apiclient.List[Goal]
	err := s.Client.Get(ctx, "/goals", nil, &out)
	return out.Items, err
}

func (s *Service) CreateGoal(ctx context.Context, g Goal) (Goal, error) {
	var out Goal
	err := s.Client.Post(ctx, "/goals", g, &out)
	return out, err
}

func (s *Service) UpdateGoalProgress(ctx context.Context, id string, progress float64) error {
	body := map[string]float64{"progress": progress}
	return s.Client.Patch(ctx, "/goals/"+url.PathEscape(id)+"/progress", body, nil)
}

func (s *Service) Cycles(ctx context.Context) ([]ReviewCycle, error) {
	var out apiclient.List[ReviewCycle]
	err := s.Client.Get(ctx, "/review-cycles", nil, &out)
	return out.Items, err
}

func (s *Service) CreateCycle(ctx context.Context, c ReviewCycle) (ReviewCycle, error) {
	var out ReviewCycle
	err := s.Client.Post(ctx, "/review-cycles", c, &out)
	return out, err
}

func (s *Service) SetCycleStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return s.Client.Patch(ctx, "/review-cycles/"+url.PathEscape(id)+"/status", body, nil)
}

func (s *Service) Reviews(ctx context.Context) ([]Review, error) {
	var out apiclient.List[Review]
	err := s.Client.Get(ctx, "/reviews", nil, &out)
	return out.Items, err
}

func (s *Service) CreateReview(ctx context.Context, r NewReview) (Review, error) {
	var out Review
	err := s.Client.Post(ctx, "/reviews", r, &out)
	return out, err
}

func (s *Service) SubmitReview(ctx context.Context, id string, sub Submission) error {
	return s.Client.Post(ctx, "/reviews/"+url.PathEscape(id)+"/submit", sub, nil)
}

func (s *Service) AcknowledgeReview(ctx context.Context, id string) error {
	return s.Client.Post(ctx, "/reviews/"+url.PathEscape(id)+"/acknowledge", nil, nil)
}

func (s *Service) AppraisalCycles(ctx context.Context) ([]AppraisalCycle, error) {
	var out apiclient.List[AppraisalCycle]
	err := s.Client.Get(ctx, "/appraisal-cycles", nil, &out)
	return out.Items, err
}

func (s *Service) CreateAppraisalCycle(ctx context.Context, c AppraisalCycle) (AppraisalCycle, error) {
	var out AppraisalCycle
	err := s.Client.Post(ctx, "/appraisal-cycles", c, &out)
	return out, err
}

func (s *Service) Appraisals(ctx context.Context, cycleID string) ([]Appraisal, error) {
	query := url.Values{}
	if cycleID != "" {
		query.Set("cycleId", cycleID)
	}
	var out apiclient.List[Appraisal]
	err := s.Client.Get(ctx, "/appraisals", query, &out)
	return out.Items, err
}

// ProposeIncrement records a proposal; the backend derives the proposed CTC.
func (s *Service) ProposeIncrement(ctx context.Context, id string, percent float64) error {
	body := map[string]float64{"incrementPercent": percent}
	return s.Client.Patch(ctx, "/appraisals/"+url.PathEscape(id)+"/propose", body, nil)
}

func (s *Service) ApproveAppraisal(ctx context.Context, id string) error {
	return s.Client.Patch(ctx, "/appraisals/"+url.PathEscape(id)+"/approve", nil, nil)
}

func (s *Service) RejectAppraisal(ctx context.Context, id string) error {
	return s.Client.Patch(ctx, "/appraisals/"+url.PathEscape(id)+"/reject", nil, nil)
}
