package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	contractx "taskchat/agent/contract"
)

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	convos, err := s.convos.ListConversations(r.Context(), ownerID)
	if err != nil {
		log.Error().Err(err).Msg("list conversations failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if convos == nil {
		convos = []contractx.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": convos})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}
	conversationID, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	conv, err := s.convos.GetConversation(ctx, conversationID, ownerID)
	if err != nil {
		if errors.Is(err, contractx.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, errConversationGone.Error())
			return
		}
		log.Error().Err(err).Msg("load conversation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	messages, err := s.convos.ListMessages(ctx, conversationID, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("list messages failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if messages == nil {
		messages = []contractx.Message{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversation": conv,
		"messages":     messages,
	})
}
