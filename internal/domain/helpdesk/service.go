package helpdesk

import (
	"context"
	"net/url"
	"strings"

	"hrmweb/internal/apiclient"
)

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

func (s *Service) List(ctx context.Context, status string) ([]Ticket, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var out apiclient.List[Ticket]
	err := s.Client.Get(ctx, "/helpdesk/tickets", query, &out)
	return out.Items, err
}

func (s *Service) Get(ctx context.Context, id string) (Ticket, error) {
	var out Ticket
	err := s.Client.Get(ctx, "/helpdesk/tickets/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s *Service) Create(ctx context.Context, t NewTicket) (Ticket, error) {
	t.Subject = strings.TrimSpace(t.Subject)
	t.Description = strings.TrimSpace(t.Description)
	if t.Priority == "" {
		t.Priority = "medium"
	}
	var out Ticket
	err := s.Client.Post(ctx, "/helpdesk/tickets", t, &out)
	return out, err
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return s.Client.Patch(ctx, "/helpdesk/tickets/"+url.PathEscape(id)+"/status", body, nil)
}

func (s *Service) AddComment(ctx context.Context, id, message string) (Comment, error) {
	body := map[string]string{"message": strings.TrimSpace(message)}
	var out Comment
	err := s.Client.Post(ctx, "/helpdesk/tickets/"+url.PathEscape(id)+"/comments", body, &out)
	return out, err
}
