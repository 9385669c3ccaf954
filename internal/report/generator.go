package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"review-insights-go/internal/config"
	"review-insights-go/internal/dataset"
	"review-insights-go/internal/llm"
)

// ErrMissingAPIKey is returned before any network call when no credential is
// configured.
var ErrMissingAPIKey = errors.New("missing API key: set OPENAI_API_KEY in the environment or .env")

// systemPrompt pins the model to a markdown-only Korean report with a fixed
// section sequence, so the output can be saved as an .md file as-is.
const systemPrompt = "당신은 고객 리뷰 데이터를 분석하는 전문가입니다. " +
	"주어진 통계와 리뷰 샘플을 바탕으로 **반드시 마크다운(Markdown) 문법만 사용**한 한국어 분석 보고서를 작성합니다. " +
	"출력 전체가 .md 파일로 저장될 수 있도록, 아래 문법을 정확히 사용하세요.\n\n" +
	"【마크다운 문법 필수】\n" +
	"- 제목: 첫 줄에 # 제목 (H1)\n" +
	"- 섹션 제목: ## 섹션명, ### 소섹션명\n" +
	"- 표: 반드시 헤더 행 + 구분선 + 데이터 행. 예시:\n" +
	"  | 항목 | 값 |\n" +
	"  |---|---|\n" +
	"  | 총 리뷰 수 | 100건 |\n" +
	"- 목록: 하이픈 - 또는 별표 * 또는 숫자 1. 2.\n" +
	"- 강조: **굵게**\n\n" +
	"【필수 구성】\n" +
	"1. # 제목 (H1 한 개)\n" +
	"2. ## 요약 + 2~4문단\n" +
	"3. ## 기본 통계 + 마크다운 표\n" +
	"4. ## 평균 평점 및 평점별 분포 + 표\n" +
	"5. ## 긍정/부정/중립 리뷰 분포 + 표\n" +
	"6. ## 연령대 분포 + 표 (데이터 있을 때만)\n" +
	"7. ## 성별 분포 + 표 (데이터 있을 때만)\n" +
	"8. ## 구매일자 분포 + 표 (데이터 있을 때만)\n" +
	"9. ## 제품별 현황 + 표 또는 목록\n" +
	"10. ## 상세 분석 + - 목록\n" +
	"11. ## 개선점 및 제안 + - 목록\n\n" +
	"일반 텍스트만 나열하지 말고, 모든 섹션에 ## 제목과 표(|) 또는 목록(-)을 반드시 사용하세요."

func userPrompt(summaryText string) string {
	return "다음은 노트북 구매 고객 리뷰 데이터의 통계와 샘플입니다.\n\n" +
		summaryText + "\n\n" +
		"위 데이터를 바탕으로 **마크다운 문법만 사용**한 분석 보고서를 작성해 주세요. " +
		"제목은 #, 섹션은 ##, 표는 | 열 | 열 | 와 다음 줄 |---|---| 형식, 목록은 - 로 작성하세요. " +
		"저장 시 .md 파일에서 표와 제목이 제대로 렌더링되도록 반드시 마크다운 문법을 사용하세요."
}

// Generator issues report-generation requests against a chat-completions
// endpoint.
type Generator struct {
	cfg    config.Config
	client *llm.Client
}

func New(cfg config.Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = config.DefaultEndpoint
	}
	return &Generator{
		cfg: cfg,
		client: &llm.Client{
			Endpoint: cfg.Endpoint,
			APIKey:   strings.TrimSpace(cfg.APIKey),
			Model:    cfg.Model,
		},
	}
}

// Generate builds the summary for the table and requests the analysis
// report. It short-circuits with ErrMissingAPIKey when no credential is
// configured, before any network I/O. On any endpoint failure it returns ""
// and the failure as an error value.
func (g *Generator) Generate(ctx context.Context, t *dataset.Table, m dataset.RoleMapping) (string, error) {
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return "", ErrMissingAPIKey
	}
	summaryText := dataset.BuildSummary(t, m, g.cfg.Thresholds)
	out, err := g.client.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(summaryText)},
	})
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	return CleanMarkdown(out), nil
}

// Summary exposes the prompt data block, e.g. for API responses and
// debugging.
func (g *Generator) Summary(t *dataset.Table, m dataset.RoleMapping) string {
	return dataset.BuildSummary(t, m, g.cfg.Thresholds)
}
