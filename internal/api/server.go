package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"litsearch/internal/config"
	"litsearch/internal/jobs"
	"litsearch/internal/keywords"
	"litsearch/internal/models"
	"litsearch/internal/providers"
	"litsearch/internal/rag"
	"litsearch/internal/storage"
	"litsearch/internal/vector"
	"litsearch/internal/workflows"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg       config.Config
	db        *storage.DB
	jobRepo   *storage.JobRepo
	chunkRepo *storage.ChunkRepo
	engine    *rag.Engine
	temporal  tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		panic(err)
	}
	embedder, err := providers.NewEmbedder(cfg)
	if err != nil {
		panic(err)
	}
	llm, err := providers.NewLLM(cfg)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:       cfg,
		db:        db,
		jobRepo:   storage.NewJobRepo(db),
		chunkRepo: storage.NewChunkRepo(db),
		engine:    rag.NewEngine(vector.NewSearcher(db.Pool), embedder, llm, cfg),
		temporal:  tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/corpus/enrich", s.handleEnrich)
	mux.HandleFunc("/corpus/status", s.handleStatus)
	mux.HandleFunc("/chat", s.handleChat)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("subject is required"))
		return
	}
	kws := keywords.Extract(req.Subject)
	if len(kws) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("subject yields no searchable keywords"))
		return
	}

	jobID := uuid.NewString()
	job := models.EnrichmentJob{
		ID:       jobID,
		Subject:  req.Subject,
		Keywords: kws,
		Status:   string(jobs.StatusExtracting),
		Progress: map[string]any{"step": string(jobs.StatusExtracting), "current": 0, "total": 0},
	}
	if err := s.jobRepo.CreateJob(r.Context(), job); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	_, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                    "enrich-" + jobID,
		TaskQueue:             s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.EnrichWorkflow, workflows.EnrichInput{
		JobID:     jobID,
		Keywords:  kws,
		BatchSize: s.cfg.EmbedBatchSize,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"job_id": jobID, "keywords": kws})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	job, err := s.jobRepo.LatestJob(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, statusResponse(models.EnrichmentJob{}, false))
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse(job, true))
}

// statusResponse reflects the most recently created job; both fields are
// null when no job exists yet.
func statusResponse(job models.EnrichmentJob, found bool) map[string]any {
	if !found {
		return map[string]any{"status": nil, "progress": nil}
	}
	return map[string]any{"status": job.Status, "progress": job.Progress}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("question is required"))
		return
	}

	n, err := s.chunkRepo.Count(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if n == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("corpus is empty"))
		return
	}

	res, err := s.engine.Query(r.Context(), req.Question, s.cfg.RetrievalTopK)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "LS-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500 && status != http.StatusBadGateway:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "LS-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "LS-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "LS-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "LS-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "LS-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusMethodNotAllowed:
		code = "LS-API-4005"
		msg = "This endpoint does not support the requested method."
	case status == http.StatusBadGateway:
		code = "LS-API-5020"
		msg = "Upstream provider unavailable. Retry shortly."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		switch {
		case strings.Contains(raw, "subject is required"):
			msg = "Subject is required."
		case strings.Contains(raw, "no searchable keywords"):
			msg = "Subject yields no searchable keywords. Try a more specific topic."
		case strings.Contains(raw, "question is required"):
			msg = "Question is required."
		case strings.Contains(raw, "corpus is empty"):
			msg = "Corpus is empty. Please add papers first."
		case strings.Contains(raw, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
