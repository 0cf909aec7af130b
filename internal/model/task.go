package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinPriority = 0
	MaxPriority = 3
)

// Task is a single item in the planner. A repeating task is carried forward on
// completion: the finished row keeps its history without a rule, and a clone
// due on the next occurrence takes the rule over. All rows of one repeating
// task share a SeriesID.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	CategoryID  *uint  `gorm:"index"`
	SeriesID    string `gorm:"size:36;index"`
	Title       string
	Description string
	Priority    int `gorm:"default:0"`
	Due         *time.Time
	Repeat      RepeatRule `gorm:"type:text"`
	Done        bool       `gorm:"default:false"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns a series to tasks that do not belong to one yet.
func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.SeriesID == "" {
		t.SeriesID = uuid.NewString()
	}
	return nil
}

// Repeats reports whether the task carries a usable repeat rule.
func (t Task) Repeats() bool { return t.Repeat.IsSet() }

// Overdue reports whether the task is open and its due time is before now.
func (t Task) Overdue(now time.Time) bool {
	return !t.Done && t.Due != nil && t.Due.Before(now)
}

// Clone returns an unsaved open copy of t in the same series.
func (t Task) Clone() Task {
	c := t
	c.ID = 0
	c.Done = false
	c.CompletedAt = nil
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	if t.Due != nil {
		due := *t.Due
		c.Due = &due
	}
	if t.CategoryID != nil {
		id := *t.CategoryID
		c.CategoryID = &id
	}
	return c
}

// ValidPriority reports whether p is within [MinPriority, MaxPriority].
func ValidPriority(p int) bool { return p >= MinPriority && p <= MaxPriority }
