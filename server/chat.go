package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "taskchat/agent/contract"
)

type chatRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id"`
}

type chatResponse struct {
	ID             uuid.UUID            `json:"id"`
	Content        string               `json:"content"`
	ConversationID uuid.UUID            `json:"conversation_id"`
	Tasks          []contractx.TaskView `json:"tasks"`
	ToolCalls      []string             `json:"tool_calls"`
	Timestamp      time.Time            `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()

	var conversationID uuid.UUID
	if req.ConversationID != nil && *req.ConversationID != "" {
		id, err := uuid.Parse(*req.ConversationID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid conversation_id")
			return
		}
		if _, err := s.convos.GetConversation(ctx, id, ownerID); err != nil {
			if errors.Is(err, contractx.ErrConversationNotFound) {
				writeError(w, http.StatusNotFound, errConversationGone.Error())
				return
			}
			log.Error().Err(err).Msg("load conversation failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		conversationID = id
	} else {
		conv, err := s.convos.CreateConversation(ctx, ownerID)
		if err != nil {
			log.Error().Err(err).Msg("create conversation failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		conversationID = conv.ID
	}

	// The user message is committed before the turn runs so the log stays
	// truthful even when the provider or a tool fails mid-turn.
	if _, err := s.convos.AppendMessage(ctx, conversationID, ownerID, contractx.RoleUser, req.Message); err != nil {
		if errors.Is(err, contractx.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, errConversationGone.Error())
			return
		}
		log.Error().Err(err).Msg("persist user message failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result, err := s.processor.ProcessMessage(ctx, ownerID, conversationID, req.Message)
	if err != nil {
		if errors.Is(err, contractx.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, errConversationGone.Error())
			return
		}
		log.Error().Err(err).Str("conversation_id", conversationID.String()).Msg("process message failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	assistant, err := s.convos.AppendMessage(ctx, conversationID, ownerID, contractx.RoleAssistant, result.Reply)
	if err != nil {
		log.Error().Err(err).Msg("persist assistant message failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	tasks := result.Tasks
	if tasks == nil {
		tasks = []contractx.TaskView{}
	}
	calls := result.ToolCalls
	if calls == nil {
		calls = []string{}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ID:             assistant.ID,
		Content:        result.Reply,
		ConversationID: conversationID,
		Tasks:          tasks,
		ToolCalls:      calls,
		Timestamp:      assistant.CreatedAt,
	})
}
