package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"review-insights-go/internal/config"
	"review-insights-go/internal/dataset"
)

func sampleTable() (*dataset.Table, dataset.RoleMapping) {
	t := dataset.NewTable([]dataset.Column{
		{Name: "리뷰내용", Cells: []string{"좋아요", "별로예요"}},
		{Name: "평점", Cells: []string{"5", "1"}},
	})
	m := dataset.RoleMapping{
		config.RoleReview: "리뷰내용",
		config.RoleRating: "평점",
	}
	return t, m
}

func testConfig(endpoint, key string) config.Config {
	return config.Config{
		APIKey:     key,
		Model:      "gpt-4o-mini",
		Endpoint:   endpoint,
		Thresholds: config.DefaultThresholds(),
	}
}

func TestGenerateMissingAPIKey(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	tab, m := sampleTable()
	for _, key := range []string{"", "   "} {
		gen := New(testConfig(srv.URL, key))
		out, err := gen.Generate(context.Background(), tab, m)
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("err = %v, want ErrMissingAPIKey", err)
		}
		if out != "" {
			t.Errorf("report = %q, want empty", out)
		}
	}
	if atomic.LoadInt64(&hits) != 0 {
		t.Errorf("endpoint was called %d times; missing credential must short-circuit", hits)
	}
}

func TestGenerateSuccess(t *testing.T) {
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) == 2 {
			gotUser = req.Messages[1].Content
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"` + "```markdown\\n# 리뷰 분석 보고서\\n\\n## 요약\\n좋습니다.\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	tab, m := sampleTable()
	gen := New(testConfig(srv.URL, "sk-test"))
	out, err := gen.Generate(context.Background(), tab, m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(out, "# 리뷰 분석 보고서") {
		t.Errorf("fences not stripped: %q", out)
	}
	// the user message embeds the summary verbatim
	if !strings.Contains(gotUser, "총 리뷰 수: 2") {
		t.Errorf("user prompt missing summary block:\n%s", gotUser)
	}
	if !strings.Contains(gotUser, "[1] ") {
		t.Errorf("user prompt missing review sample:\n%s", gotUser)
	}
}

func TestGenerateEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	tab, m := sampleTable()
	gen := New(testConfig(srv.URL, "sk-bad"))
	out, err := gen.Generate(context.Background(), tab, m)
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Errorf("report = %q, want empty on failure", out)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error must surface the endpoint message, got %v", err)
	}
}

func TestCleanMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"# 제목\n본문", "# 제목\n본문"},
		{"  # 제목\n본문  \n", "# 제목\n본문"},
		{"```markdown\n# 제목\n```", "# 제목"},
		{"```\n# 제목\n```", "# 제목"},
		{"```json\n{}\n```은 예시", "```json\n{}\n```은 예시"},
	}
	for _, c := range cases {
		if got := CleanMarkdown(c.in); got != c.want {
			t.Errorf("CleanMarkdown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSaveMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := Save(path, "# 제목\n내용"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# 제목\n내용" {
		t.Errorf("saved = %q", data)
	}
}

func TestSaveHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	if err := Save(path, "# 제목\n\n- 항목"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<li>") {
		t.Errorf("markdown not rendered: %q", html)
	}
}
