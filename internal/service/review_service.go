package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-review-gateway/internal/backend"
	"go-review-gateway/internal/metrics"
	"go-review-gateway/internal/model"
	"go-review-gateway/internal/token"
	"go-review-gateway/internal/validation"
	"go-review-gateway/pkg/apierror"
)

const (
	msgLoginRequired      = "로그인이 필요합니다."
	msgSessionExpired     = "세션이 만료되었습니다. 다시 로그인해주세요."
	msgInvalidToken       = "유효하지 않은 토큰입니다."
	msgTokenProcessing    = "토큰 처리 중 오류가 발생했습니다."
	msgTokenMissingUser   = "토큰에서 사용자 정보를 찾을 수 없습니다."
	msgReviewCreateFailed = "리뷰 생성에 실패했습니다."
	msgReviewListFailed   = "리뷰 목록을 불러오는데 실패했습니다."
	msgReviewListTimeout  = "서버 응답 시간이 초과되었습니다. 잠시 후 다시 시도해주세요."
	msgLegacyListFailed   = "Failed to fetch reviews from the server"
	msgInternal           = "서버 내부 오류가 발생했습니다."
)

type ReviewBackend interface {
	CreateReview(ctx context.Context, accessToken string, payload model.BackendReviewPayload) (*backend.Response, error)
	RefreshToken(ctx context.Context, refreshToken string) (*backend.Response, error)
	ListReviews(ctx context.Context, query url.Values) (*backend.Response, error)
}

type ReviewService struct {
	backend     ReviewBackend
	listTimeout time.Duration
	metrics     metrics.Recorder
	logger      *slog.Logger
}

func NewReviewService(client ReviewBackend, listTimeout time.Duration, recorder metrics.Recorder, logger *slog.Logger) *ReviewService {
	if listTimeout <= 0 {
		listTimeout = 10 * time.Second
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewService{backend: client, listTimeout: listTimeout, metrics: recorder, logger: logger}
}

// SubmitResult is a successful submission. Refreshed is set when the review
// only went through after the access token was renewed.
type SubmitResult struct {
	Body      json.RawMessage
	Refreshed *model.SessionTokens
}

// ReviewList holds either a normalized page or, when the backend answered
// with something other than a successful listing, its raw body.
type ReviewList struct {
	Page *model.ReviewPage
	Raw  json.RawMessage
}

// RequireAccessToken fails with 401 when no access token cookie was sent.
func RequireAccessToken(tokens model.SessionTokens) error {
	if tokens.AccessToken == "" {
		return apierror.Unauthorized(msgLoginRequired)
	}
	return nil
}

// Submit validates the review, derives the author from the access token and
// posts it. A 401 from the backend triggers one token refresh and exactly one
// resubmission.
func (s *ReviewService) Submit(ctx context.Context, tokens model.SessionTokens, req model.CreateReviewRequest) (SubmitResult, error) {
	if err := RequireAccessToken(tokens); err != nil {
		return SubmitResult{}, err
	}
	if err := validateReview(req); err != nil {
		return SubmitResult{}, err
	}

	claim, err := token.Decode(tokens.AccessToken)
	if err != nil {
		s.logger.Warn("rejecting review with unusable access token", "error", err.Error())
		return SubmitResult{}, tokenError(err)
	}

	payload := buildReviewPayload(req, claim)

	resp, err := s.backend.CreateReview(ctx, tokens.AccessToken, payload)
	if err != nil {
		return SubmitResult{}, apierror.Internal(msgInternal, "")
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return submitOutcome(resp, nil)
	}

	refreshed, err := s.refresh(ctx, tokens.RefreshToken)
	if err != nil {
		return SubmitResult{}, err
	}

	resp, err = s.backend.CreateReview(ctx, refreshed.AccessToken, payload)
	if err != nil {
		return SubmitResult{}, apierror.Internal(msgInternal, "")
	}

	return submitOutcome(resp, refreshed)
}

func (s *ReviewService) refresh(ctx context.Context, refreshToken string) (*model.SessionTokens, error) {
	if refreshToken == "" {
		s.metrics.RecordTokenRefresh(metrics.RefreshSkipped)
		return nil, apierror.Unauthorized(msgLoginRequired)
	}

	resp, err := s.backend.RefreshToken(ctx, refreshToken)
	if err != nil {
		s.metrics.RecordTokenRefresh(metrics.RefreshFailed)
		return nil, apierror.Internal(msgInternal, "")
	}

	env := resp.Envelope()
	access := env.DataString("access_token")
	if !resp.OK() || !env.Success || access == "" {
		s.metrics.RecordTokenRefresh(metrics.RefreshFailed)
		s.logger.Info("token refresh rejected", "status", resp.StatusCode)
		return nil, apierror.Unauthorized(msgSessionExpired)
	}

	s.metrics.RecordTokenRefresh(metrics.RefreshSucceeded)
	return &model.SessionTokens{
		AccessToken:  access,
		RefreshToken: env.DataString("refresh_token"),
	}, nil
}

func submitOutcome(resp *backend.Response, refreshed *model.SessionTokens) (SubmitResult, error) {
	env := resp.Envelope()

	if !resp.OK() {
		return SubmitResult{}, apierror.Upstream(backend.FirstMessage(msgReviewCreateFailed, env.Message, env.Detail), resp.StatusCode)
	}
	if !env.Success {
		return SubmitResult{}, apierror.Upstream(backend.FirstMessage(msgReviewCreateFailed, env.Message), http.StatusBadRequest)
	}

	body, _ := resp.JSON()
	return SubmitResult{Body: body, Refreshed: refreshed}, nil
}

func validateReview(req model.CreateReviewRequest) error {
	result, err := validation.Check(req)
	if err != nil {
		return apierror.Internal(msgInternal, err.Error())
	}
	if len(result.Missing) > 0 {
		return apierror.Validation(missingFieldsMessage(result.Missing), strings.Join(result.Missing, ","))
	}
	if len(result.Violations) > 0 {
		violation := result.Violations[0]
		return apierror.Validation(violationMessage(violation), violation.Field)
	}
	return nil
}

func violationMessage(v validation.Violation) string {
	if bounds := strings.Fields(v.Param); v.Rule == "between" && len(bounds) == 2 {
		return fmt.Sprintf("%s는 %s에서 %s 사이의 값이어야 합니다.", v.Field, bounds[0], bounds[1])
	}
	return fmt.Sprintf("%s 값이 올바르지 않습니다.", v.Field)
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrMalformedToken):
		return apierror.Unauthorized(msgInvalidToken)
	case errors.Is(err, token.ErrMissingUserID):
		return apierror.Unauthorized(msgTokenMissingUser)
	default:
		return apierror.Unauthorized(msgTokenProcessing)
	}
}

func buildReviewPayload(req model.CreateReviewRequest, claim model.IdentityClaim) model.BackendReviewPayload {
	labels := req.AromaLabels
	if labels == nil {
		labels = []string{}
	}
	scores := make([]json.Number, 0, len(labels))
	for _, label := range labels {
		score := req.AromaScores[label]
		if score == "" {
			score = "0"
		}
		scores = append(scores, score)
	}

	nickname := model.DefaultReviewNickname
	if claim.Username != "" {
		nickname = claim.Username
	}

	return model.BackendReviewPayload{
		ProductID:    *req.ProductID,
		Content:      *req.Content,
		NoseScore:    *req.NoseScore,
		PalateScore:  *req.PalateScore,
		FinishScore:  *req.FinishScore,
		Nickname:     nickname,
		UserID:       claim.Submitter(),
		AromaProfile: model.BackendAromaProfile{Labels: labels, Scores: scores},
	}
}

// List fetches one page of reviews, bounded by the listing timeout.
func (s *ReviewService) List(ctx context.Context, q model.ReviewListQuery) (ReviewList, error) {
	q = withListDefaults(q)
	query := url.Values{}
	query.Set("query", q.Query)
	query.Set("display", q.Display)
	query.Set("category_id", q.CategoryID)
	query.Set("sort", q.Sort)
	query.Set("page", q.Page)

	listCtx, cancel := context.WithTimeout(ctx, s.listTimeout)
	defer cancel()

	resp, err := s.backend.ListReviews(listCtx, query)
	if err != nil {
		if errors.Is(err, model.ErrBackendTimeout) {
			return ReviewList{}, apierror.Timeout(msgReviewListTimeout)
		}
		return ReviewList{}, apierror.Internal(msgReviewListFailed, "")
	}
	if !resp.OK() {
		return ReviewList{}, apierror.Upstream(msgReviewListFailed, resp.StatusCode)
	}

	raw, ok := resp.JSON()
	if !ok {
		return ReviewList{}, apierror.Internal(msgReviewListFailed, "backend returned a non-JSON body")
	}
	if page, ok := normalizeReviewPage(raw); ok {
		return ReviewList{Page: page}, nil
	}

	return ReviewList{Raw: raw}, nil
}

// ListLegacy serves the older page_num based listing and relays the payload
// unchanged.
func (s *ReviewService) ListLegacy(ctx context.Context, q model.LegacyReviewListQuery) (json.RawMessage, error) {
	if q.PageNum == 0 {
		q.PageNum = 1
	}
	if q.Display == 0 {
		q.Display = 10
	}
	query := url.Values{}
	query.Set("page_num", strconv.Itoa(q.PageNum))
	query.Set("display", strconv.Itoa(q.Display))

	resp, err := s.backend.ListReviews(ctx, query)
	if err != nil {
		return nil, apierror.Internal(msgLegacyListFailed, "")
	}
	if !resp.OK() {
		s.logger.Warn("legacy review listing failed", "status", resp.StatusCode)
		return nil, apierror.Internal(msgLegacyListFailed, "")
	}

	raw, ok := resp.JSON()
	if !ok {
		return nil, apierror.Internal(msgLegacyListFailed, "backend returned a non-JSON body")
	}
	return raw, nil
}

func withListDefaults(q model.ReviewListQuery) model.ReviewListQuery {
	if q.Display == "" {
		q.Display = "10"
	}
	if q.CategoryID == "" {
		q.CategoryID = "0"
	}
	if q.Sort == "" {
		q.Sort = "created"
	}
	if q.Page == "" {
		q.Page = "1"
	}
	return q
}

func missingFieldsMessage(fields []string) string {
	return "필수 필드가 누락되었습니다: " + strings.Join(fields, ", ")
}
