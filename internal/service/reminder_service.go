package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"now-and-here/internal/model"
	"now-and-here/internal/repository"
)

// upcomingWindow bounds the "coming up" section of the daily summary.
const upcomingWindow = 7 * 24 * time.Hour

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	loc          *time.Location
}

func NewReminderService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{taskRepo: taskRepo, categoryRepo: categoryRepo, loc: loc}
}

// Summary splits open tasks by urgency.
type Summary struct {
	Overdue  []model.Task
	Today    []model.Task
	Upcoming []model.Task
	Someday  []model.Task
}

// Empty reports whether there is nothing to remind about.
func (s Summary) Empty() bool {
	return len(s.Overdue)+len(s.Today)+len(s.Upcoming)+len(s.Someday) == 0
}

// Classify buckets tasks relative to now on loc's calendar. Tasks due beyond
// the upcoming window are left out.
func Classify(tasks []model.Task, now time.Time, loc *time.Location) Summary {
	now = now.In(loc)
	y, m, d := now.Date()
	endOfDay := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	var s Summary
	for _, task := range tasks {
		switch {
		case task.Done:
		case task.Due == nil:
			s.Someday = append(s.Someday, task)
		case task.Due.Before(now):
			s.Overdue = append(s.Overdue, task)
		case task.Due.Before(endOfDay):
			s.Today = append(s.Today, task)
		case task.Due.Before(now.Add(upcomingWindow)):
			s.Upcoming = append(s.Upcoming, task)
		}
	}
	return s
}

func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	tasks, err := s.taskRepo.ListOpen(ctx, user.ID)
	if err != nil {
		return "", err
	}
	catNames, err := s.categoryRepo.NamesByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}

	loc := user.Location(s.loc)
	now = now.In(loc)
	summary := Classify(tasks, now, loc)

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily summary</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("Monday, 02 Jan 2006")))

	if summary.Empty() {
		builder.WriteString("\nNothing planned. Add something with /newtask.")
		return builder.String(), nil
	}

	sections := []struct {
		title string
		tasks []model.Task
	}{
		{"⚠️ <b>Overdue</b>", summary.Overdue},
		{"🔥 <b>Today</b>", summary.Today},
		{"⏳ <b>Coming up</b>", summary.Upcoming},
		{"🗂 <b>Someday</b>", summary.Someday},
	}
	for _, sec := range sections {
		if len(sec.tasks) == 0 {
			continue
		}
		builder.WriteString("\n" + sec.title + "\n")
		for _, task := range sec.tasks {
			builder.WriteString(FormatTask(task, catNames, now))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

// FormatTask renders one task as an HTML block; now's location is used for dates.
func FormatTask(task model.Task, catNames map[uint]string, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	if task.Due != nil {
		d := task.Due.In(now.Location())
		switch {
		case now.After(d):
			icon = "⚠️"
		case d.Sub(now) <= 48*time.Hour:
			icon = "⏳"
		}
	}
	if task.Repeats() {
		icon = "♻️"
	}

	sb.WriteString(fmt.Sprintf("%s <b>#%d</b> %s", icon, task.ID, html.EscapeString(strings.TrimSpace(task.Title))))
	if mark := priorityMark(task.Priority); mark != "" {
		sb.WriteString(" " + mark)
	}

	if task.CategoryID != nil {
		if name := strings.TrimSpace(catNames[*task.CategoryID]); name != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
		}
	}

	if task.Due != nil {
		d := task.Due.In(now.Location())
		if now.After(d) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s · <b>overdue</b>", d.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s · %s", d.Format("2006-01-02 15:04"), RelativeTime(d, now)))
		}
	}
	if task.Repeats() {
		sb.WriteString(fmt.Sprintf("\n   🔁 %s", html.EscapeString(task.Repeat.String())))
	}
	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(task.Description))))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func priorityMark(p int) string {
	if p <= 0 {
		return ""
	}
	return strings.Repeat("!", p)
}

// RelativeTime renders the distance from now to t, e.g. "in 3 days" or "in 5 hours".
func RelativeTime(t, now time.Time) string {
	d := t.Sub(now)
	past := d < 0
	if past {
		d = -d
	}
	var s string
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		s = plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		s = plural(int(d/time.Hour), "hour")
	default:
		s = plural(int(d/(24*time.Hour)), "day")
	}
	if past {
		return s + " ago"
	}
	return "in " + s
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
