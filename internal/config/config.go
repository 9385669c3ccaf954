package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Role is a semantic category a spreadsheet column may represent.
type Role string

const (
	RoleReview       Role = "review"
	RoleRating       Role = "rating"
	RoleProduct      Role = "product"
	RoleCustomerID   Role = "customer_id"
	RoleName         Role = "name"
	RoleAge          Role = "age"
	RolePurchaseDate Role = "purchase_date"
	RoleGender       Role = "gender"
)

// Roles lists every role in canonical order. Code that walks a role mapping
// iterates this slice, never the map, so results stay deterministic.
var Roles = []Role{
	RoleReview,
	RoleRating,
	RoleProduct,
	RoleCustomerID,
	RoleName,
	RoleAge,
	RolePurchaseDate,
	RoleGender,
}

// RoleCandidates pairs a role with its accepted header synonyms, highest
// priority first.
type RoleCandidates struct {
	Role    Role     `yaml:"role"`
	Headers []string `yaml:"headers"`
}

// DefaultCandidates returns the built-in header synonym lists. The lists are
// matched after normalization, so case and whitespace variants all hit.
func DefaultCandidates() []RoleCandidates {
	return []RoleCandidates{
		{Role: RoleReview, Headers: []string{
			"리뷰내용", "리뷰 내용", "Review", "review_content", "리뷰",
			"review content", "내용", "코멘트", "comment",
		}},
		{Role: RoleRating, Headers: []string{
			"평점", "점수", "rating", "Rating", "별점", "점", "score", "Score",
		}},
		{Role: RoleProduct, Headers: []string{
			"구매한 노트북 모델", "노트북 모델", "모델", "product", "제품명",
			"제품", "상품", "노트북", "model", "Model",
		}},
		{Role: RoleCustomerID, Headers: []string{
			"고객ID", "고객 id", "customer_id", "ID", "id", "고객코드", "코드",
		}},
		{Role: RoleName, Headers: []string{
			"이름", "name", "Name", "고객명", "구매자", "작성자",
		}},
		{Role: RoleAge, Headers: []string{
			"연령", "연령대", "age", "Age", "나이", "연령구간",
		}},
		{Role: RolePurchaseDate, Headers: []string{
			"구매일자", "구매일", "구매 날짜", "purchase_date", "date", "Date",
			"날짜", "작성일", "리뷰일", "order_date", "created_at",
		}},
		{Role: RoleGender, Headers: []string{
			"성별", "gender", "Gender", "남녀", "sex", "Sex",
		}},
	}
}

// LoadCandidates reads a role-candidate table from a YAML file. The file
// replaces the built-in table wholesale; entry order is priority order.
func LoadCandidates(path string) ([]RoleCandidates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	var out []RoleCandidates
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse candidates: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("candidates file %s defines no roles", path)
	}
	return out, nil
}

// Thresholds holds the rating cutoffs for sentiment bucketing. Ratings below
// Negative are negative, at or above Positive are positive, the half-open
// band between is neutral.
type Thresholds struct {
	Negative float64
	Positive float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Negative: 2.5, Positive: 4.0}
}

const (
	DefaultModel    = "gpt-4o-mini"
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
)

// Config carries process-wide settings for report generation.
type Config struct {
	APIKey     string
	Model      string
	Endpoint   string
	Thresholds Thresholds
}

// FromEnv builds a Config from the process environment. Callers load .env
// via godotenv before this.
func FromEnv() Config {
	return Config{
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		Model:      envOr("OPENAI_MODEL", DefaultModel),
		Endpoint:   envOr("LLM_ENDPOINT", DefaultEndpoint),
		Thresholds: DefaultThresholds(),
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
