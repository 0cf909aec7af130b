package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"now-and-here/internal/service"
	"now-and-here/pkg/logx"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stageCategory
	stagePriority
	stageDue
	stageRepeat
)

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.log.Debug("start new task conversation", logx.Int64("from", msg.From.ID))
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what should it be called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	b.log.Trace("conversation step", logx.Int("stage", int(state.stage)), logx.Int64("from", msg.From.ID))

	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title can't be empty.", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Add a short description (or press «Skip»).", skipKeyboard())
	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = text
		}
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 Pick a category or type your own (or «Skip»).", categoryKeyboard())
	case stageCategory:
		if !isSkipInput(text) {
			state.input.Category = text
		}
		state.stage = stagePriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "❗ Priority from 0 (none) to 3 (urgent)?", priorityKeyboard())
	case stagePriority:
		if !isSkipInput(text) {
			priority, err := parsePriority(text)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Priority must be a number from 0 to 3.", priorityKeyboard())
			}
			state.input.Priority = priority
		}
		state.stage = stageDue
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ When is it due? Use <code>2025-11-30 18:00</code> or just <code>2025-11-30</code> (or «Skip»).", skipKeyboard())
	case stageDue:
		if !isSkipInput(text) {
			user, err := b.ensureUser(ctx, msg.From)
			if err != nil {
				return err
			}
			due, err := parseDue(text, b.taskSvc.Location(user))
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "I can't read that date. Use <code>2025-11-30 18:00</code>, <code>2025-11-30</code> or «Skip».", skipKeyboard())
			}
			state.input.Due = &due
		}
		state.stage = stageRepeat
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔁 Does it repeat? Describe it, e.g. <code>every monday at 9am</code>, or press «Skip».", skipKeyboard())
	case stageRepeat:
		if !isSkipInput(text) {
			if _, err := service.ParseRepeat(text); err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, repeatHint(text), skipKeyboard())
			}
			state.input.Repeat = text
		}
		err := b.finishTaskCreation(ctx, msg.From, state.input, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "The dialog was reset. Try again with /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, from *tgbotapi.User, input service.TaskInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	task, err := b.taskSvc.CreateTask(ctx, user, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			return b.sendText(chatID, "A task needs a title.")
		case errors.Is(err, service.ErrInvalidPriority):
			return b.sendText(chatID, "Priority must be a number from 0 to 3.")
		}
		return b.sendText(chatID, fmt.Sprintf("Could not save the task: %s", escape(err.Error())))
	}

	loc := b.taskSvc.Location(user)
	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	summary.WriteString(fmt.Sprintf("• <b>Title:</b> %s\n", escape(normalizeTitle(task.Title))))
	if task.Description != "" {
		summary.WriteString(fmt.Sprintf("• <b>Description:</b> %s\n", escape(task.Description)))
	}
	if task.Priority > 0 {
		summary.WriteString(fmt.Sprintf("• <b>Priority:</b> %d\n", task.Priority))
	}
	if task.Due != nil {
		summary.WriteString(fmt.Sprintf("• <b>Due:</b> %s\n", formatDue(*task.Due, loc)))
	}
	if task.Repeats() {
		summary.WriteString(fmt.Sprintf("• <b>Repeats:</b> %s\n", escape(task.Repeat.String())))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(summary.String()))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, user)
}
