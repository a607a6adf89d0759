package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"go-review-gateway/internal/model"
)

const (
	anonymousNickname = "익명"
	unknownValue      = "알 수 없음"
	otherCategory     = "기타"
)

var categoryNames = map[int64]string{
	1: "싱글몰트",
	2: "블렌디드",
	3: "버번",
	4: "라이",
	5: "아이리시",
	6: "캐나디안",
}

// CategoryName resolves a whisky category id. Unknown ids map to "기타".
func CategoryName(id json.Number) string {
	n, err := id.Int64()
	if err != nil {
		return otherCategory
	}
	if name, ok := categoryNames[n]; ok {
		return name
	}
	return otherCategory
}

// normalizeReviewPage reshapes a backend listing. It reports false when the
// body is not a successful listing with a data array, in which case the
// caller relays the body unchanged.
func normalizeReviewPage(body []byte) (*model.ReviewPage, bool) {
	var raw map[string]any
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil || raw == nil {
		return nil, false
	}
	if !truthy(raw["success"]) {
		return nil, false
	}
	items, ok := raw["data"].([]any)
	if !ok {
		return nil, false
	}

	page := &model.ReviewPage{
		Success: true,
		Message: raw["message"],
		Data:    make([]model.Review, 0, len(items)),
	}
	for _, item := range items {
		record, _ := item.(map[string]any)
		page.Data = append(page.Data, normalizeReview(record))
	}

	return page, true
}

// normalizeReview never fails; every absent or mistyped field takes its
// default.
func normalizeReview(item map[string]any) model.Review {
	product, _ := item["product"].(map[string]any)
	info, _ := product["product_info"].(map[string]any)
	aroma, _ := item["aroma_profile"].(map[string]any)
	categoryID := numberOr(product["category"])

	return model.Review{
		ReviewID:    numberOr(item["review_id"]),
		Nickname:    stringOr(item["nickname"], anonymousNickname),
		AvgScore:    numberOr(item["avg_score"]),
		NoseScore:   numberOr(item["nose_score"]),
		PalateScore: numberOr(item["palate_score"]),
		FinishScore: numberOr(item["finish_score"]),
		Content:     stringOr(item["content"], ""),
		CreatedAt:   stringOr(item["created_at"], ""),
		Product: model.ReviewProduct{
			ProductID:   numberOr(product["id"]),
			ProductName: stringOr(product["name"], unknownValue),
			ImgPath:     stringOr(product["imgPath"], ""),
			Alcohol:     numberOr(info["alcohol"]),
			Capacity:    numberOr(info["capacity"]),
			Area:        stringOr(info["area"], unknownValue),
			Category: model.Category{
				ID:   categoryID,
				Name: CategoryName(categoryID),
			},
		},
		AromaProfile: model.AromaProfile{
			Labels: stringList(aroma["labels"]),
			Data:   numberList(aroma["scores"]),
		},
	}
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case json.Number:
		f, err := value.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func numberOr(v any) json.Number {
	switch value := v.(type) {
	case json.Number:
		if truthy(value) {
			return value
		}
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err == nil && f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
		}
	}
	return json.Number("0")
}

func stringOr(v any, fallback string) string {
	switch value := v.(type) {
	case string:
		if value != "" {
			return value
		}
	case json.Number:
		if truthy(value) {
			return value.String()
		}
	}
	return fallback
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch value := item.(type) {
		case string:
			out = append(out, value)
		case json.Number:
			out = append(out, value.String())
		}
	}
	return out
}

// numberList keeps one entry per input element so scores stay aligned with
// their labels.
func numberList(v any) []json.Number {
	items, _ := v.([]any)
	out := make([]json.Number, 0, len(items))
	for _, item := range items {
		out = append(out, numberOr(item))
	}
	return out
}
