package recruitment

import (
	"context"
	"strings"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/forms"
)

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

func (s *Service) List(ctx context.Context) ([]Candidate, error) {
	var out apiclient.List[Candidate]
	err := s.Client.Get(ctx, "/candidates", nil, &out)
	return out.Items, err
}

func Validate(c NewCandidate, resume *forms.PendingUpload) forms.FieldErrors {
	v := forms.NewValidator()
	v.Required("name", c.Name, "name is required")
	v.Required("email", c.Email, "email is required")
	v.Email("email", c.Email)
	v.Required("position", c.Position, "position is required")
	if resume == nil || len(resume.Data) == 0 {
		v.Add("resume", "résumé file is required")
	}
	return v.Errors()
}

// Create posts the candidate and the résumé in one multipart request.
func (s *Service) Create(ctx context.Context, c NewCandidate, resume forms.PendingUpload) (Candidate, error) {
	form := &apiclient.Multipart{
		Fields: map[string]string{
			"name":     strings.TrimSpace(c.Name),
			"email":    strings.ToLower(strings.TrimSpace(c.Email)),
			"phone":    strings.TrimSpace(c.Phone),
			"position": strings.TrimSpace(c.Position),
		},
		Files: []apiclient.FilePart{{
			Field:       "resume",
			FileName:    resume.FileName,
			ContentType: resume.ContentType,
			Data:        resume.Data,
		}},
	}
	var out Candidate
	err := s.Client.Upload(ctx, "/candidates", form, &out)
	return out, err
}
