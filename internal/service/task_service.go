package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"now-and-here/internal/model"
	"now-and-here/internal/recurrence"
	"now-and-here/internal/repository"
	"now-and-here/pkg/logx"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    int
	Due         *time.Time
	// Repeat is a phrase such as "every 2 weeks on monday"; empty means a one-off task.
	Repeat string
}

// Completion is the outcome of checking a task off. Next is set when a
// repeating task was carried forward.
type Completion struct {
	Task *model.Task
	Next *model.Task
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	loc          *time.Location
	now          func() time.Time
	log          logx.Logger
}

// NewTaskService builds the service. loc is the default wall-clock zone used
// to evaluate repeat rules for users without a zone of their own.
func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, loc *time.Location, log logx.Logger) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		loc:          loc,
		now:          time.Now,
		log:          log.With(logx.String("component", "task_service")),
	}
}

// WithClock replaces the time source.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Location is the zone repeat rules are evaluated in for user.
func (s *TaskService) Location(user *model.User) *time.Location {
	if user == nil {
		return s.loc
	}
	return user.Location(s.loc)
}

// ParseRepeat turns a phrase into a rule. Empty, "never" and "none" clear the repeat.
func ParseRepeat(phrase string) (recurrence.Rule, error) {
	switch p := strings.ToLower(strings.TrimSpace(phrase)); p {
	case "", "never", "none", "no":
		return nil, nil
	default:
		rule, ok := recurrence.Parse(p)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrRepeatNotUnderstood, phrase)
		}
		return rule, nil
	}
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !model.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}
	rule, err := ParseRepeat(input.Repeat)
	if err != nil {
		return nil, err
	}

	var categoryID *uint
	if input.Category != "" {
		category, err := s.categoryRepo.GetOrCreate(ctx, user.ID, input.Category)
		if err != nil {
			return nil, err
		}
		if category != nil {
			categoryID = &category.ID
		}
	}

	task := model.Task{
		UserID:      user.ID,
		CategoryID:  categoryID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
	}
	if input.Due != nil {
		due := input.Due.UTC()
		task.Due = &due
	}
	if rule != nil {
		task.Repeat = model.NewRepeatRule(rule)
		if task.Due == nil {
			first := recurrence.NextOccurrence(rule, s.now(), s.Location(user), time.UTC)
			task.Due = &first
		}
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	s.log.Info("task created", logx.Uint("task_id", task.ID), logx.Uint("user_id", user.ID),
		logx.Bool("repeats", task.Repeats()), logx.String("repeat", task.Repeat.String()))
	return &task, nil
}

func (s *TaskService) ListActive(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListOpen(ctx, user.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// History lists every occurrence of the series the task belongs to.
func (s *TaskService) History(ctx context.Context, user *model.User, taskID uint) ([]model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	return s.taskRepo.ListSeries(ctx, user.ID, task.SeriesID)
}

// CompleteTask checks a task off. A repeating task is carried forward: the
// next occurrence is computed from its due time on the user's wall clock,
// stored in UTC, and a clone due then takes the rule over.
func (s *TaskService) CompleteTask(ctx context.Context, user *model.User, taskID uint) (Completion, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return Completion{}, err
	}
	if task.Done {
		return Completion{}, ErrAlreadyDone
	}
	now := s.now()

	if err := task.Repeat.Err(); err != nil {
		s.log.Warn("completing task without carry-forward, repeat rule unreadable",
			logx.Uint("task_id", task.ID), logx.Err(err))
	}
	if !task.Repeats() {
		if err := s.taskRepo.MarkDone(ctx, task, now); err != nil {
			return Completion{}, err
		}
		return Completion{Task: task}, nil
	}
	if task.Due == nil {
		return Completion{}, ErrNoDueDate
	}

	nextDue := recurrence.NextOccurrence(task.Repeat.Rule, *task.Due, s.Location(user), time.UTC)
	next := task.Clone()
	next.Due = &nextDue
	if err := s.taskRepo.Checkoff(ctx, task, &next, now); err != nil {
		return Completion{}, err
	}
	s.log.Info("repeating task carried forward", logx.Uint("task_id", task.ID),
		logx.Uint("next_id", next.ID), logx.Time("next_due", nextDue))
	return Completion{Task: task, Next: &next}, nil
}

// UncompleteTask reopens a finished task. A carried-forward occurrence is
// left in place.
func (s *TaskService) UncompleteTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Done {
		return nil, ErrNotDone
	}
	if err := s.taskRepo.MarkUndone(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetRepeat replaces a task's repeat rule from a phrase. A task that gains a
// rule without a due time is scheduled at the rule's first occurrence.
func (s *TaskService) SetRepeat(ctx context.Context, user *model.User, taskID uint, phrase string) (*model.Task, error) {
	rule, err := ParseRepeat(phrase)
	if err != nil {
		return nil, err
	}
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	task.Repeat = model.NewRepeatRule(rule)
	if rule != nil && task.Due == nil {
		first := recurrence.NextOccurrence(rule, s.now(), s.Location(user), time.UTC)
		task.Due = &first
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// PreviewRepeat parses a phrase and lists its next n occurrences from now in
// the user's zone.
func (s *TaskService) PreviewRepeat(user *model.User, phrase string, n int) (recurrence.Rule, []time.Time, error) {
	rule, err := ParseRepeat(phrase)
	if err != nil {
		return nil, nil, err
	}
	if rule == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrRepeatNotUnderstood, phrase)
	}
	return rule, recurrence.Upcoming(rule, s.now().In(s.Location(user)), n), nil
}

// DeleteTask removes a single task row.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}
