package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"now-and-here/internal/model"
	"now-and-here/pkg/logx"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db  *gorm.DB
	log logx.Logger
}

func NewTaskRepository(db *gorm.DB, log logx.Logger) *TaskRepository {
	return &TaskRepository{db: db, log: log.With(logx.String("component", "task_repository"))}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListOpen returns the user's unfinished tasks, soonest due first. Tasks whose
// stored repeat rule cannot be read are logged and left out.
func (r *TaskRepository) ListOpen(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND done = ?", userID, false).
		Order("due IS NULL, due ASC, priority DESC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}

	out := tasks[:0]
	for _, task := range tasks {
		if err := task.Repeat.Err(); err != nil {
			r.log.Warn("skipping task with unreadable repeat rule",
				logx.Uint("task_id", task.ID), logx.Uint("user_id", userID), logx.Err(err))
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

// ListSeries returns every row of a repeating task, oldest occurrence first.
func (r *TaskRepository) ListSeries(ctx context.Context, userID uint, seriesID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND series_id = ?", userID, seriesID).
		Order("due ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) MarkDone(ctx context.Context, task *model.Task, completedAt time.Time) error {
	task.Done = true
	task.CompletedAt = &completedAt
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) MarkUndone(ctx context.Context, task *model.Task) error {
	task.Done = false
	task.CompletedAt = nil
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("reopen task: %w", err)
	}
	return nil
}

// Checkoff completes a repeating task in one transaction: done is marked
// finished and loses its rule, next is inserted carrying the rule forward.
func (r *TaskRepository) Checkoff(ctx context.Context, done, next *model.Task, completedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		done.Done = true
		done.CompletedAt = &completedAt
		done.Repeat = model.RepeatRule{}
		if err := tx.Save(done).Error; err != nil {
			return fmt.Errorf("complete task: %w", err)
		}
		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("create next occurrence: %w", err)
		}
		return nil
	})
}

// Delete removes a task for the given user.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
