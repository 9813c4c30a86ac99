package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "taskchat/agent/contract"
)

// Config holds the API process HTTP settings.
type Config struct {
	Addr           string        `envconfig:"ADDR" default:":8000"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdentityHeader string        `envconfig:"IDENTITY_HEADER" default:"X-User-ID"`
	DevUserID      string        `envconfig:"DEV_USER_ID"`
}

// TurnProcessor runs one chat turn end to end.
type TurnProcessor interface {
	ProcessMessage(ctx context.Context, ownerID, conversationID uuid.UUID, text string) (contractx.TurnResult, error)
}

var (
	errNilProcessor     = errors.New("turn processor is nil")
	errNilTaskStore     = errors.New("task store is nil")
	errNilConvoStore    = errors.New("conversation store is nil")
	errNilIdentity      = errors.New("identity resolver is nil")
	errInvalidOwnerID   = errors.New("invalid or missing owner identity")
	errInvalidRequest   = errors.New("invalid request body")
	errConversationGone = errors.New("Conversation not found or access denied")
)

// Server exposes the chat endpoint alongside direct task and conversation
// routes sharing the same stores and identity resolution.
type Server struct {
	processor TurnProcessor
	tasks     contractx.TaskStore
	convos    contractx.ConversationStore
	identity  IdentityResolver
}

func New(processor TurnProcessor, tasks contractx.TaskStore, convos contractx.ConversationStore, identity IdentityResolver) (*Server, error) {
	if processor == nil {
		return nil, errNilProcessor
	}
	if tasks == nil {
		return nil, errNilTaskStore
	}
	if convos == nil {
		return nil, errNilConvoStore
	}
	if identity == nil {
		return nil, errNilIdentity
	}
	return &Server{processor: processor, tasks: tasks, convos: convos, identity: identity}, nil
}

// Handler wires all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /chat", s.handleChat)

	mux.HandleFunc("GET /tasks", s.handleListTasks)
	mux.HandleFunc("POST /tasks", s.handleCreateTask)
	mux.HandleFunc("PUT /tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /tasks/{id}/complete", s.handleCompleteTask)

	mux.HandleFunc("GET /conversations", s.handleListConversations)
	mux.HandleFunc("GET /conversations/{id}", s.handleGetConversation)

	return mux
}

// owner resolves the request identity or writes the 401 itself.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := s.identity.Resolve(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, errInvalidOwnerID.Error())
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the {id} path segment or writes the 400 itself.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return errInvalidRequest
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug().Err(err).Msg("write response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
