package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"hrmweb/internal/apiclient"
)

var ErrNoToken = errors.New("login response carried no token")

type Service struct {
	Client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{Client: client}
}

// Login exchanges e-mail and password for a backend token. When the
// response omits the user, it is fetched from /auth/me with the new token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	var out LoginResult
	if err := s.Client.Call(ctx, apiclient.Request{Method: http.MethodPost, Path: "/auth/login", Body: req}, &out); err != nil {
		return LoginResult{}, err
	}
	return s.complete(ctx, out)
}

// GoogleLogin exchanges a Google ID token for a backend token.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"idToken": idToken}
	if err := s.Client.Call(ctx, apiclient.Request{Method: http.MethodPost, Path: "/auth/google", Body: body}, &out); err != nil {
		return LoginResult{}, err
	}
	return s.complete(ctx, out)
}

func (s *Service) complete(ctx context.Context, out LoginResult) (LoginResult, error) {
	if out.Token == "" {
		return LoginResult{}, ErrNoToken
	}
	if out.User != nil && out.User.ID != "" {
		return out, nil
	}
	var me User
	err := s.Client.Call(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Header: http.Header{"Authorization": []string{"Bearer " + out.Token}},
	}, &me)
	if err != nil {
		return LoginResult{}, err
	}
	out.User = &me
	return out, nil
}

func (s *Service) Me(ctx context.Context) (User, error) {
	var me User
	err := s.Client.Get(ctx, "/auth/me", nil, &me)
	return me, err
}

func (s *Service) Logout(ctx context.Context) error {
	return s.Client.Post(ctx, "/auth/logout", nil, nil)
}

func (s *Service) Roles(ctx context.Context) ([]Role, error) {
	var out apiclient.List[Role]
	err := s.Client.Get(ctx, "/roles", nil, &out)
	return out.Items, err
}

func (s *Service) Permissions(ctx context.Context) ([]Permission, error) {
	var out apiclient.List[Permission]
	err := s.Client.Get(ctx, "/permissions", nil, &out)
	return out.Items, err
}

func (s *Service) CreateRole(ctx context.Context, role NewRole) (Role, error) {
	var out Role
	err := s.Client.Post(ctx, "/roles", role, &out)
	return out, err
}

func (s *Service) DeleteRole(ctx context.Context, id string) error {
	return s.Client.Delete(ctx, "/roles/"+url.PathEscape(id))
}

func (s *Service) SetRolePermissions(ctx context.Context, id string, permissions []string) error {
	body := map[string][]string{"permissions": permissions}
	return s.Client.Put(ctx, "/roles/"+url.PathEscape(id)+"/permissions", body, nil)
}
