package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsroom/internal/app/newsroom"
	"newsroom/internal/domain"
	"newsroom/internal/observability"
)

// PipelineFactory builds a fresh pipeline (with its own run-scoped mailbox)
// for every article request.
type PipelineFactory func() (*newsroom.Pipeline, error)

type Server struct {
	newPipeline PipelineFactory
	archive     domain.ArchiveStore
}

func NewServer(newPipeline PipelineFactory, archive domain.ArchiveStore) http.Handler {
	s := &Server{newPipeline: newPipeline, archive: archive}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /articles → POST: generate an article, GET: list archived articles
	mux.HandleFunc("/articles", s.handleArticles)

	// /articles/{id} → GET: one archived article
	mux.HandleFunc("/articles/", s.handleArticleByID)

	return chainMiddlewares(mux, withCORS, withLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type generateArticleRequest struct {
	Topic string `json:"topic"`
}

type generateArticleResponse struct {
	RunID    string              `json:"run_id"`
	Topic    string              `json:"topic"`
	Article  string              `json:"article"`
	Messages []logRecordResponse `json:"messages"`
}

type logRecordResponse struct {
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

type articleResponse struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type listArticlesResponse struct {
	Articles []articleResponse `json:"articles"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleGenerateArticle(w, r)
	case http.MethodGet:
		s.handleListArticles(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleGenerateArticle(w http.ResponseWriter, r *http.Request) {
	var req generateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		badRequest(w, "topic is required")
		return
	}

	pipe, err := s.newPipeline()
	if err != nil {
		internalError(w, err)
		return
	}

	runID := uuid.NewString()
	ctx := observability.WithRunID(r.Context(), runID)

	text, err := pipe.Run(ctx, req.Topic)
	if err != nil {
		if errors.Is(err, domain.ErrPipelineIncomplete) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error": "pipeline incomplete: no article produced",
			})
			return
		}
		internalError(w, err)
		return
	}

	resp := generateArticleResponse{
		RunID:   runID,
		Topic:   req.Topic,
		Article: text,
	}
	for _, rec := range pipe.Mailbox().History() {
		resp.Messages = append(resp.Messages, logRecordResponse{
			Sender:    rec.Sender,
			Recipient: rec.Recipient,
			Kind:      string(rec.Kind),
			Timestamp: rec.Timestamp,
		})
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.archive.(domain.ArticleReader)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, map[string]string{
			"error": "the configured archive backend cannot list articles",
		})
		return
	}

	articles, err := reader.ListArticles(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}

	resp := listArticlesResponse{Articles: make([]articleResponse, 0, len(articles))}
	for _, a := range articles {
		resp.Articles = append(resp.Articles, toArticleResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArticleByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/articles/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	reader, ok := s.archive.(domain.ArticleReader)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, map[string]string{
			"error": "the configured archive backend cannot read articles",
		})
		return
	}

	article, err := reader.GetArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ID:        a.ID,
		Topic:     a.Topic,
		Text:      a.Text,
		CreatedAt: a.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
