package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNoIdentity is returned when a request carries no resolvable owner.
var ErrNoIdentity = errors.New("request carries no identity")

// IdentityResolver turns an inbound request into an already-verified owner
// id. Token verification belongs to an upstream auth layer; this process
// only consumes its result and never defaults silently.
type IdentityResolver interface {
	Resolve(r *http.Request) (uuid.UUID, error)
}

const defaultIdentityHeader = "X-User-ID"

// HeaderResolver reads the verified owner id from a trusted header set by
// the authenticating proxy. Requests without one are rejected.
type HeaderResolver struct {
	Header string
}

var _ IdentityResolver = HeaderResolver{}

func (h HeaderResolver) Resolve(r *http.Request) (uuid.UUID, error) {
	header := h.Header
	if header == "" {
		header = defaultIdentityHeader
	}

	raw := strings.TrimSpace(r.Header.Get(header))
	if raw == "" {
		return uuid.Nil, ErrNoIdentity
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed owner id", ErrNoIdentity)
	}
	return id, nil
}

// StaticResolver answers every request with one fixed owner. Development
// convenience only; it is wired solely when DEV_USER_ID is explicitly
// configured and must never be the production default.
type StaticResolver struct {
	ID uuid.UUID
}

var _ IdentityResolver = StaticResolver{}

func (s StaticResolver) Resolve(*http.Request) (uuid.UUID, error) {
	if s.ID == uuid.Nil {
		return uuid.Nil, ErrNoIdentity
	}
	return s.ID, nil
}

// NewResolver picks the resolver for the given config.
func NewResolver(cfg Config) (IdentityResolver, error) {
	devID := strings.TrimSpace(cfg.DevUserID)
	if devID == "" {
		return HeaderResolver{Header: cfg.IdentityHeader}, nil
	}

	id, err := uuid.Parse(devID)
	if err != nil {
		return nil, fmt.Errorf("invalid DEV_USER_ID: %w", err)
	}

	log.Warn().Str("user_id", id.String()).Msg("dev identity resolver active; do not use in production")
	return StaticResolver{ID: id}, nil
}
