package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "taskchat/agent/contract"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	var completed *bool
	switch r.URL.Query().Get("completed") {
	case "":
	case "true":
		v := true
		completed = &v
	case "false":
		v := false
		completed = &v
	default:
		writeError(w, http.StatusBadRequest, "completed must be true or false")
		return
	}

	tasks, err := s.tasks.ListTasks(r.Context(), ownerID, completed)
	if err != nil {
		log.Error().Err(err).Msg("list tasks failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []contractx.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), ownerID, req.Title, req.Description)
	if err != nil {
		s.writeTaskError(w, err, "create task failed")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == nil && req.Description == nil && req.Completed == nil {
		writeError(w, http.StatusBadRequest, "At least one field (title or description) must be provided for update")
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), taskID, ownerID, contractx.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		s.writeTaskError(w, err, "update task failed")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	completed := true
	task, err := s.tasks.UpdateTask(r.Context(), taskID, ownerID, contractx.TaskPatch{Completed: &completed})
	if err != nil {
		s.writeTaskError(w, err, "complete task failed")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.tasks.DeleteTask(r.Context(), taskID, ownerID); err != nil {
		s.writeTaskError(w, err, "delete task failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) writeTaskError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, contractx.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found or access denied")
	case errors.Is(err, contractx.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg(logMsg)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
