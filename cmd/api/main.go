package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"review-insights-go/internal/config"
	"review-insights-go/internal/dataset"
	"review-insights-go/internal/logger"
	"review-insights-go/internal/report"
)

type reportRequest struct {
	Path    string            `json:"path"`
	Sheet   string            `json:"sheet,omitempty"`
	Mapping map[string]string `json:"mapping,omitempty"`
	Model   string            `json:"model,omitempty"`
	SaveTo  string            `json:"save_to,omitempty"`
}

type reportResponse struct {
	Report     string              `json:"report"`
	Summary    string              `json:"summary"`
	Mapping    dataset.RoleMapping `json:"mapping"`
	DurationMs int64               `json:"duration_ms"`
	Error      string              `json:"error,omitempty"`
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "review-insights-go").Info("starting service")

	cfg := config.FromEnv()
	candidates := config.DefaultCandidates()
	if p := os.Getenv("CANDIDATES_PATH"); p != "" {
		loaded, err := config.LoadCandidates(p)
		if err != nil {
			log.WithError(err).Fatal("failed to load candidate table")
		}
		candidates = loaded
		log.WithField("candidates_path", p).WithField("roles", len(candidates)).Info("loaded candidate table override")
	}

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// columns: load a workbook, report headers and the auto-resolved mapping
	mux.HandleFunc("/columns", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "columns")
		path := r.URL.Query().Get("path")
		if path == "" {
			reqLog.Warn("missing path")
			http.Error(w, "missing path", http.StatusBadRequest)
			return
		}
		t, err := dataset.LoadExcel(path, r.URL.Query().Get("sheet"))
		if err != nil {
			reqLog.WithError(err).Warn("workbook load failed")
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		mapping := dataset.Resolve(t, candidates)
		reqLog.WithField("columns", len(t.Headers())).WithField("rows", t.Rows()).Info("workbook resolved")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"columns": t.Headers(),
			"rows":    t.Rows(),
			"mapping": mapping,
		})
	})

	// report: load, resolve (with overrides), project, summarize, generate
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "report")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			reqLog.WithError(err).Warn("bad request body")
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		if req.Path == "" {
			reqLog.Warn("missing path")
			http.Error(w, "missing path", http.StatusBadRequest)
			return
		}
		reqLog = reqLog.WithField("path", req.Path)

		t, err := dataset.LoadExcel(req.Path, req.Sheet)
		if err != nil {
			reqLog.WithError(err).Warn("workbook load failed")
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		mapping := dataset.Resolve(t, candidates)
		if len(req.Mapping) > 0 {
			overrides := make(map[config.Role]string, len(req.Mapping))
			for k, v := range req.Mapping {
				overrides[config.Role(k)] = v
			}
			mapping = mapping.Override(t, overrides)
		}

		projected, err := dataset.Project(t, mapping)
		if err != nil {
			reqLog.WithError(err).Warn("projection failed")
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		genCfg := cfg
		if req.Model != "" {
			genCfg.Model = req.Model
		}
		gen := report.New(genCfg)

		start := time.Now()
		text, err := gen.Generate(r.Context(), projected, mapping)
		resp := reportResponse{
			Report:     text,
			Summary:    gen.Summary(projected, mapping),
			Mapping:    mapping,
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			resp.Error = err.Error()
			status := http.StatusBadGateway
			if errors.Is(err, report.ErrMissingAPIKey) {
				status = http.StatusUnauthorized
			}
			reqLog.WithError(err).Warn("report generation failed")
			writeJSON(w, status, resp)
			return
		}
		if req.SaveTo != "" {
			if err := report.Save(req.SaveTo, text); err != nil {
				reqLog.WithError(err).Error("failed to save report")
				resp.Error = fmt.Sprintf("report generated but not saved: %v", err)
			} else {
				reqLog.WithField("save_to", req.SaveTo).Info("report saved")
			}
		}
		reqLog.WithField("duration_ms", resp.DurationMs).Info("report generated")
		writeJSON(w, http.StatusOK, resp)
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
