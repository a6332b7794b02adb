package playground

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler serves the playground API.
type Handler struct {
	store BookStore
}

// NewHandler creates a playground handler backed by the given store.
func NewHandler(store BookStore) *Handler {
	return &Handler{store: store}
}

// Routes mounts the playground endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/hello", h.handleHello)
	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.handleListBooks)
		r.Post("/", h.handleCreateBook)
		r.Get("/{id}", h.handleGetBook)
		r.Delete("/{id}", h.handleDeleteBook)
	})
	return r
}

// handleHello is the article's hello-world endpoint.
func (h *Handler) handleHello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "hello, world"})
}

func (h *Handler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("list books", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *Handler) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var in BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("request body is not valid JSON"))
		return
	}
	if missing, ok := in.Validate(); !ok {
		// The article's validation example: a missing required field is a
		// 400 naming the field.
		writeJSON(w, http.StatusBadRequest, errorBody("missing required field: "+missing))
		return
	}

	book := &Book{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Author:    in.Author,
		Year:      in.Year,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Create(r.Context(), book); err != nil {
		slog.Error("create book", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Location", "/api/books/"+book.ID)
	writeJSON(w, http.StatusCreated, book)
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("book not found"))
			return
		}
		slog.Error("get book", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("book not found"))
			return
		}
		slog.Error("delete book", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
