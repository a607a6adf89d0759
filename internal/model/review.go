package model

import "encoding/json"

const DefaultReviewNickname = "리뷰어"

// BackendReviewPayload is the body posted to the backend review endpoint.
type BackendReviewPayload struct {
	ProductID    json.Number         `json:"product_id"`
	Content      string              `json:"content"`
	NoseScore    json.Number         `json:"nose_score"`
	PalateScore  json.Number         `json:"palate_score"`
	FinishScore  json.Number         `json:"finish_score"`
	Nickname     string              `json:"nickname"`
	UserID       any                 `json:"user_id,omitempty"`
	AromaProfile BackendAromaProfile `json:"aroma_profile"`
}

type BackendAromaProfile struct {
	Labels []string      `json:"labels"`
	Scores []json.Number `json:"scores"`
}

// ReviewPage is the normalized listing returned to the browser.
type ReviewPage struct {
	Success bool     `json:"success"`
	Message any      `json:"message,omitempty"`
	Data    []Review `json:"data"`
}

type Review struct {
	ReviewID     json.Number   `json:"review_id"`
	Nickname     string        `json:"nickname"`
	AvgScore     json.Number   `json:"avg_score"`
	NoseScore    json.Number   `json:"nose_score"`
	PalateScore  json.Number   `json:"palate_score"`
	FinishScore  json.Number   `json:"finish_score"`
	Content      string        `json:"content"`
	CreatedAt    string        `json:"created_at"`
	Product      ReviewProduct `json:"product"`
	AromaProfile AromaProfile  `json:"aroma_profile"`
}

type ReviewProduct struct {
	ProductID   json.Number `json:"product_id"`
	ProductName string      `json:"product_name"`
	ImgPath     string      `json:"img_path"`
	Alcohol     json.Number `json:"alcohol"`
	Capacity    json.Number `json:"capacity"`
	Area        string      `json:"area"`
	Category    Category    `json:"category"`
}

type Category struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type AromaProfile struct {
	Labels []string      `json:"labels"`
	Data   []json.Number `json:"data"`
}
