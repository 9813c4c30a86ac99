package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	contractx "taskchat/agent/contract"
)

type conversationRow struct {
	bun.BaseModel `bun:"table:conversations,alias:c"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID   uuid.UUID `bun:"user_id,notnull,type:uuid"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type messageRow struct {
	bun.BaseModel `bun:"table:messages,alias:m"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid"`
	ConversationID uuid.UUID      `bun:"conversation_id,notnull,type:uuid"`
	OwnerID        uuid.UUID      `bun:"user_id,notnull,type:uuid"`
	Role           contractx.Role `bun:"role,notnull"`
	Content        string         `bun:"content,notnull"`
	CreatedAt      time.Time      `bun:"created_at,notnull"`
}

// ConversationStore is the Postgres-backed contract.ConversationStore.
type ConversationStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ contractx.ConversationStore = (*ConversationStore)(nil)

func NewConversationStore(db *bun.DB) *ConversationStore {
	return &ConversationStore{db: db, now: time.Now}
}

func (s *ConversationStore) CreateConversation(ctx context.Context, ownerID uuid.UUID) (*contractx.Conversation, error) {
	now := s.now().UTC()
	row := &conversationRow{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	return &contractx.Conversation{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *ConversationStore) GetConversation(ctx context.Context, conversationID, ownerID uuid.UUID) (*contractx.Conversation, error) {
	row := new(conversationRow)
	err := s.db.NewSelect().
		Model(row).
		Where("c.id = ?", conversationID).
		Where("c.user_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent and foreign-owned collapse into the same outcome.
			return nil, contractx.ErrConversationNotFound
		}
		return nil, fmt.Errorf("select conversation: %w", err)
	}

	return &contractx.Conversation{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *ConversationStore) ListConversations(ctx context.Context, ownerID uuid.UUID) ([]contractx.Conversation, error) {
	var rows []conversationRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("c.user_id = ?", ownerID).
		Order("c.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select conversations: %w", err)
	}

	convs := make([]contractx.Conversation, 0, len(rows))
	for _, row := range rows {
		convs = append(convs, contractx.Conversation{
			ID:        row.ID,
			OwnerID:   row.OwnerID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return convs, nil
}

func (s *ConversationStore) ListMessages(ctx context.Context, conversationID, ownerID uuid.UUID) ([]contractx.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, ownerID); err != nil {
		return nil, err
	}

	var rows []messageRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("m.conversation_id = ?", conversationID).
		Order("m.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}

	msgs := make([]contractx.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, contractx.Message{
			ID:             row.ID,
			ConversationID: row.ConversationID,
			OwnerID:        row.OwnerID,
			Role:           row.Role,
			Content:        row.Content,
			CreatedAt:      row.CreatedAt,
		})
	}
	return msgs, nil
}

func (s *ConversationStore) AppendMessage(ctx context.Context, conversationID, ownerID uuid.UUID, role contractx.Role, content string) (*contractx.Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid message role %q", contractx.ErrValidation, role)
	}

	if _, err := s.GetConversation(ctx, conversationID, ownerID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	row := &messageRow{
		ID:             uuid.New(),
		ConversationID: conversationID,
		OwnerID:        ownerID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}

	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	_, err := s.db.NewUpdate().
		Model((*conversationRow)(nil)).
		Set("updated_at = ?", now).
		Where("id = ?", conversationID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}

	return &contractx.Message{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		OwnerID:        row.OwnerID,
		Role:           row.Role,
		Content:        row.Content,
		CreatedAt:      row.CreatedAt,
	}, nil
}
