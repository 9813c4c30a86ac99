package gateway

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	contractx "taskchat/agent/contract"
)

const maxToolRequestBytes = 1 << 20

type ServerConfig struct {
	Addr string `envconfig:"ADDR" split_words:"true" default:":8001"`
}

// NewHandler exposes every tool as an independent operation at
// POST /tools/{tool}. The request body is the raw argument bag; the
// response is the flat ToolResult shape, with failures carried on a non-2xx
// status as well as in the body.
func NewHandler(svc *Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "taskchat-tools",
		})
	})

	mux.HandleFunc("POST /tools/{tool}", func(w http.ResponseWriter, r *http.Request) {
		toolName := r.PathValue("tool")

		args := map[string]any{}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxToolRequestBytes)).Decode(&args); err != nil {
			writeJSON(w, http.StatusBadRequest, contractx.FailureResult(KindValidationError, "request body must be a JSON object"))
			return
		}

		result := svc.Dispatch(r.Context(), contractx.ToolIntent{Name: toolName, Args: args})

		log.Info().
			Str("tool", toolName).
			Bool("failed", result.IsFailure()).
			Msg("tool call served")

		writeJSON(w, statusFor(result), result)
	})

	return mux
}

func statusFor(result contractx.ToolResult) int {
	if !result.IsFailure() {
		return http.StatusOK
	}
	switch result.Err.Kind {
	case KindInvalidUUID, KindValidationError, KindUnknownTool:
		return http.StatusBadRequest
	case KindTaskNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode tool response")
	}
}
