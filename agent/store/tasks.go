package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	contractx "taskchat/agent/contract"
)

type taskRow struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID     uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description *string   `bun:"description"`
	Completed   bool      `bun:"completed,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (r *taskRow) toTask() contractx.Task {
	return contractx.Task{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// TaskStore is the Postgres-backed contract.TaskStore.
type TaskStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ contractx.TaskStore = (*TaskStore)(nil)

func NewTaskStore(db *bun.DB) *TaskStore {
	return &TaskStore{db: db, now: time.Now}
}

func (s *TaskStore) CreateTask(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*contractx.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", contractx.ErrValidation)
	}

	now := s.now().UTC()
	row := &taskRow{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	task := row.toTask()
	return &task, nil
}

func (s *TaskStore) ListTasks(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]contractx.Task, error) {
	var rows []taskRow
	q := s.db.NewSelect().
		Model(&rows).
		Where("t.user_id = ?", ownerID).
		Order("t.created_at ASC")
	if completed != nil {
		q = q.Where("t.completed = ?", *completed)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}

	tasks := make([]contractx.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toTask())
	}
	return tasks, nil
}

func (s *TaskStore) GetTask(ctx context.Context, taskID, ownerID uuid.UUID) (*contractx.Task, error) {
	row := new(taskRow)
	err := s.db.NewSelect().
		Model(row).
		Where("t.id = ?", taskID).
		Where("t.user_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contractx.ErrTaskNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}

	task := row.toTask()
	return &task, nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, taskID, ownerID uuid.UUID, patch contractx.TaskPatch) (*contractx.Task, error) {
	task, err := s.GetTask(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", contractx.ErrValidation)
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	task.UpdatedAt = s.now().UTC()

	row := &taskRow{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Scoped on user_id again so a concurrent owner change can never widen
	// the write; two concurrent updates race at commit granularity.
	res, err := s.db.NewUpdate().
		Model(row).
		WherePK().
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, contractx.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error {
	res, err := s.db.NewDelete().
		Model((*taskRow)(nil)).
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return contractx.ErrTaskNotFound
	}
	return nil
}
