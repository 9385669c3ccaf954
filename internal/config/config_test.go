package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("LLM_ENDPOINT", "")

	cfg := FromEnv()
	if cfg.Model != DefaultModel {
		t.Errorf("model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("endpoint = %q, want %q", cfg.Endpoint, DefaultEndpoint)
	}
	if cfg.Thresholds != DefaultThresholds() {
		t.Errorf("thresholds = %+v", cfg.Thresholds)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("LLM_ENDPOINT", "http://localhost:9999/v1/chat/completions")

	cfg := FromEnv()
	if cfg.APIKey != "sk-test" || cfg.Model != "gpt-4o" || cfg.Endpoint != "http://localhost:9999/v1/chat/completions" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestDefaultCandidatesCoverAllRoles(t *testing.T) {
	cands := DefaultCandidates()
	if len(cands) != len(Roles) {
		t.Fatalf("got %d candidate lists, want %d", len(cands), len(Roles))
	}
	for i, rc := range cands {
		if rc.Role != Roles[i] {
			t.Errorf("candidate %d is %s, want %s (canonical order)", i, rc.Role, Roles[i])
		}
		if len(rc.Headers) == 0 {
			t.Errorf("role %s has no header candidates", rc.Role)
		}
	}
}

func TestLoadCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.yaml")
	data := `- role: review
  headers: ["본문", "리뷰"]
- role: rating
  headers: ["별점"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cands, err := LoadCandidates(path)
	if err != nil {
		t.Fatalf("LoadCandidates: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d entries, want 2", len(cands))
	}
	if cands[0].Role != RoleReview || cands[0].Headers[0] != "본문" {
		t.Errorf("first entry = %+v", cands[0])
	}
	if cands[1].Role != RoleRating || cands[1].Headers[0] != "별점" {
		t.Errorf("second entry = %+v", cands[1])
	}
}

func TestLoadCandidatesErrors(t *testing.T) {
	if _, err := LoadCandidates(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file must fail")
	}

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCandidates(path); err == nil {
		t.Error("empty candidate list must fail")
	}
}
