package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"go-review-gateway/internal/backend"
	"go-review-gateway/internal/model"
	"go-review-gateway/internal/validation"
	"go-review-gateway/pkg/apierror"
)

const (
	msgLoginFailed      = "로그인에 실패했습니다."
	msgSignUpFailed     = "회원가입에 실패했습니다."
	msgPasswordTooShort = "비밀번호는 최소 8자 이상이어야 합니다."
	msgUserIDRequired   = "아이디를 입력해주세요."
)

type AuthBackend interface {
	Login(ctx context.Context, username string, password string) (*backend.Response, error)
	SignUp(ctx context.Context, userID string, name string, password string) (*backend.Response, error)
	CheckUserID(ctx context.Context, userID string) (*backend.Response, error)
}

type AuthService struct {
	backend AuthBackend
	logger  *slog.Logger
}

func NewAuthService(client AuthBackend, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{backend: client, logger: logger}
}

// Relay is a backend answer handed back to the browser as is.
type Relay struct {
	StatusCode int
	Body       json.RawMessage
}

// CheckSession reports whether either session cookie is present. The backend
// is not consulted and any failure reads as signed out.
func (s *AuthService) CheckSession(tokens model.SessionTokens) (authenticated bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("session check panicked", "panic", recovered)
			authenticated = false
		}
	}()

	return tokens.Any()
}

// Login exchanges credentials for the backend token pair.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.SessionTokens, error) {
	result, err := validation.Check(req)
	if err != nil {
		return model.SessionTokens{}, apierror.Internal(msgInternal, err.Error())
	}
	if len(result.Missing) > 0 {
		return model.SessionTokens{}, apierror.Validation(missingFieldsMessage(result.Missing), strings.Join(result.Missing, ","))
	}

	resp, err := s.backend.Login(ctx, *req.Username, *req.Password)
	if err != nil {
		return model.SessionTokens{}, apierror.Internal(msgInternal, "")
	}

	env := resp.Envelope()
	if !resp.OK() {
		return model.SessionTokens{}, apierror.Upstream(backend.FirstMessage(msgLoginFailed, env.Message), resp.StatusCode)
	}
	if !env.Valid {
		return model.SessionTokens{}, apierror.Internal(msgInternal, "backend returned a non-JSON body")
	}

	s.logger.Info("login succeeded", "username", *req.Username)
	return model.SessionTokens{
		AccessToken:  env.DataString("access_token"),
		RefreshToken: env.DataString("refresh_token"),
	}, nil
}

// SignUp registers a new account and returns the backend body on success.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (json.RawMessage, error) {
	result, err := validation.Check(req)
	if err != nil {
		return nil, apierror.Internal(msgInternal, err.Error())
	}
	if len(result.Missing) > 0 {
		return nil, apierror.Validation(missingFieldsMessage(result.Missing), strings.Join(result.Missing, ","))
	}
	if len(result.Violations) > 0 {
		return nil, apierror.Validation(msgPasswordTooShort, "password")
	}

	resp, err := s.backend.SignUp(ctx, *req.UserID, *req.Name, *req.Password)
	if err != nil {
		return nil, apierror.Internal(msgInternal, "")
	}

	if !resp.OK() {
		env := resp.Envelope()
		return nil, apierror.Upstream(backend.FirstMessage(msgSignUpFailed, env.Message, env.Error), resp.StatusCode)
	}

	body, ok := resp.JSON()
	if !ok {
		return json.RawMessage("null"), nil
	}
	return body, nil
}

// CheckUserID asks the backend whether userID is taken.
func (s *AuthService) CheckUserID(ctx context.Context, req model.DuplicationRequest) (Relay, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return Relay{}, apierror.BadRequest(msgUserIDRequired, "")
	}

	resp, err := s.backend.CheckUserID(ctx, req.UserID)
	if err != nil {
		return Relay{}, apierror.Internal(msgInternal, "")
	}

	body, ok := resp.JSON()
	if !ok {
		return Relay{}, apierror.Internal(msgInternal, "backend returned a non-JSON body")
	}
	return Relay{StatusCode: resp.StatusCode, Body: body}, nil
}
