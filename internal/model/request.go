package model

import "encoding/json"

// Required fields are pointers so that presence, not the zero value, decides
// whether a field was supplied.

type LoginRequest struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

type SignUpRequest struct {
	UserID   *string `json:"user_id" validate:"required"`
	Name     *string `json:"name" validate:"required"`
	Password *string `json:"password" validate:"required,min=8"`
}

type DuplicationRequest struct {
	UserID string `json:"user_id"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateReviewRequest struct {
	ProductID   *json.Number           `json:"product_id" validate:"required"`
	Content     *string                `json:"content" validate:"required"`
	NoseScore   *json.Number           `json:"nose_score" validate:"required,between=0 100"`
	PalateScore *json.Number           `json:"palate_score" validate:"required,between=0 100"`
	FinishScore *json.Number           `json:"finish_score" validate:"required,between=0 100"`
	AromaLabels []string               `json:"aroma_labels"`
	AromaScores map[string]json.Number `json:"aroma_scores"`
}

type ReviewListQuery struct {
	Query      string
	Display    string
	CategoryID string
	Sort       string
	Page       string
}

type LegacyReviewListQuery struct {
	PageNum int
	Display int
}

type ProductQuery struct {
	Query      string
	Display    string
	CategoryID string
	Sort       string
	PageNum    string
}
