package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"now-and-here/internal/model"
	"now-and-here/internal/recurrence"
	"now-and-here/internal/service"
	"now-and-here/pkg/logx"
)

const (
	cbCompletePrefix = "complete:"
	cbDeletePrefix   = "delete:"
)

const previewCount = 5

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /newtask · add a task step by step\n" +
	"• /tasks · open tasks with complete buttons\n" +
	"• /complete &lt;id&gt; · check a task off (repeating tasks move to their next date)\n" +
	"• /undo &lt;id&gt; · reopen a finished task\n" +
	"• /delete &lt;id&gt; · delete a task\n" +
	"• /repeat &lt;id&gt; &lt;phrase&gt; · set or clear (\"never\") how a task repeats\n" +
	"• /preview &lt;phrase&gt; · show the next dates of a repeat phrase\n" +
	"• /history &lt;id&gt; · every occurrence of a repeating task\n" +
	"• /timezone [zone] · show or set your timezone, e.g. Europe/Berlin\n" +
	"• /categories · your categories\n" +
	"• /report · today's summary\n" +
	"• /cancel · abort the current input\n\n" +
	"Repeat phrases look like <code>every day at 9am</code>, " +
	"<code>every 2 weeks on monday and thursday at 18:00</code> or " +
	"<code>the last day of every month</code>."

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if msg.IsCommand() {
		b.log.Debug("command", logx.Int64("from", msg.From.ID), logx.String("command", msg.Command()))
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if state := b.getConversation(msg.From.ID); state != nil {
		return b.handleConversation(ctx, msg, state)
	}

	return b.sendText(msg.Chat.ID, "I didn't get that. Use /newtask to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "report":
		return b.handleReport(ctx, msg)
	case "newtask":
		return b.startNewTaskConversation(ctx, msg)
	case "tasks":
		return b.handleListTasks(ctx, msg)
	case "complete":
		return b.handleComplete(ctx, msg)
	case "undo":
		return b.handleUndo(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "repeat":
		return b.handleRepeat(ctx, msg)
	case "preview":
		return b.handlePreview(ctx, msg)
	case "history":
		return b.handleHistory(ctx, msg)
	case "timezone":
		return b.handleTimezone(ctx, msg)
	case "categories":
		return b.handleCategories(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep track of your tasks, including the ones that repeat.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.reminderSvc.DailySummary(ctx, *user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the summary: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleListTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendTaskList(ctx, msg.Chat.ID, user)
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task ID: /complete 12")
	}
	return b.completeTask(ctx, msg.Chat.ID, msg.From, taskID, false)
}

func (b *Bot) handleUndo(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task ID: /undo 12")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	task, err := b.taskSvc.UncompleteTask(ctx, user, taskID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return b.sendText(msg.Chat.ID, "Task not found.")
	case errors.Is(err, service.ErrNotDone):
		return b.sendText(msg.Chat.ID, "That task is not done yet.")
	case err != nil:
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("↩️ Task «%s» is open again.", escape(normalizeTitle(task.Title))))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task ID: /delete 12")
	}
	return b.deleteTask(ctx, msg.Chat.ID, msg.From, taskID, false)
}

func (b *Bot) handleRepeat(ctx context.Context, msg *tgbotapi.Message) error {
	idArg, phrase := splitFirstWord(msg.CommandArguments())
	taskID, err := parseTaskID(idArg, "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /repeat 12 every monday at 9am (or /repeat 12 never)")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	task, err := b.taskSvc.SetRepeat(ctx, user, taskID, phrase)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return b.sendText(msg.Chat.ID, "Task not found.")
	case errors.Is(err, service.ErrRepeatNotUnderstood):
		return b.sendText(msg.Chat.ID, repeatHint(phrase))
	case err != nil:
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	if !task.Repeats() {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Task «%s» no longer repeats.", escape(normalizeTitle(task.Title))))
	}
	loc := b.taskSvc.Location(user)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🔁 Task «%s» repeats %s.\nNext due: %s",
		escape(normalizeTitle(task.Title)), escape(task.Repeat.String()), formatDue(*task.Due, loc)))
}

func (b *Bot) handlePreview(ctx context.Context, msg *tgbotapi.Message) error {
	phrase := strings.TrimSpace(msg.CommandArguments())
	if phrase == "" {
		return b.sendText(msg.Chat.ID, "Usage: /preview every 2 weeks on friday at 6pm")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	rule, times, err := b.taskSvc.PreviewRepeat(user, phrase, previewCount)
	if err != nil {
		return b.sendText(msg.Chat.ID, repeatHint(phrase))
	}
	return b.sendText(msg.Chat.ID, formatPreview(rule, times))
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task ID: /history 12")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	tasks, err := b.taskSvc.History(ctx, user, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b.sendText(msg.Chat.ID, "Task not found.")
	}
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, formatHistory(tasks, b.taskSvc.Location(user)))
}

func (b *Bot) handleTimezone(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	zone := strings.TrimSpace(msg.CommandArguments())
	if zone == "" {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Your timezone: <b>%s</b>. Change it with /timezone Europe/Berlin", escape(b.taskSvc.Location(user).String())))
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Unknown timezone %q. Use an IANA name such as Europe/Berlin.", escape(zone)))
	}
	if err := b.userRepo.SetTimezone(ctx, user, zone); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🌍 Timezone set to <b>%s</b>.", escape(zone)))
}

func (b *Bot) handleCategories(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	categories, err := b.categorySvc.List(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load categories: %s", escape(err.Error())))
	}
	if len(categories) == 0 {
		return b.sendText(msg.Chat.ID, "No categories yet. Add one while creating a task.")
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, cat := range categories {
		builder.WriteString(fmt.Sprintf("• %s\n", categoryLabel(cat.Name)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(msg.Text)) {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTaskConversation(ctx, msg)
	case strings.ToLower(menuLabelTasks):
		return true, b.handleListTasks(ctx, msg)
	case strings.ToLower(menuLabelCategories):
		return true, b.handleCategories(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.sendText(msg.Chat.ID, helpText)
	default:
		return false, nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	b.ack(cb)

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		taskID, err := parseTaskID(data, cbCompletePrefix)
		if err != nil {
			return nil
		}
		return b.askConfirmation(ctx, cb.Message.Chat.ID, cb.From, taskID, actionComplete)
	case strings.HasPrefix(data, cbDeletePrefix):
		taskID, err := parseTaskID(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.askConfirmation(ctx, cb.Message.Chat.ID, cb.From, taskID, actionDelete)
	default:
		return nil
	}
}

func (b *Bot) askConfirmation(ctx context.Context, chatID int64, from *tgbotapi.User, taskID uint, action confirmationAction) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	task, err := b.taskSvc.GetTask(ctx, user, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(chatID, "Task not found.")
		}
		return err
	}

	var text string
	switch action {
	case actionDelete:
		text = fmt.Sprintf("Delete task «%s» (#%d)?", escape(normalizeTitle(task.Title)), task.ID)
	default:
		if task.Done {
			return b.sendText(chatID, "That task is already done.")
		}
		text = fmt.Sprintf("Mark task «%s» (#%d) as done?", escape(normalizeTitle(task.Title)), task.ID)
	}
	b.setConfirmation(from.ID, confirmationRequest{taskID: task.ID, action: action})
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		if req.action == actionDelete {
			return b.deleteTask(ctx, msg.Chat.ID, msg.From, req.taskID, true)
		}
		return b.completeTask(ctx, msg.Chat.ID, msg.From, req.taskID, true)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		prompt := "Confirm or cancel completing the task."
		if req.action == actionDelete {
			prompt = "Confirm or cancel deleting the task."
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, prompt, confirmKeyboard())
	}
}

// completeTask checks a task off and reports the carried-forward occurrence.
// refresh re-sends the task list, as after a button flow.
func (b *Bot) completeTask(ctx context.Context, chatID int64, from *tgbotapi.User, taskID uint, refresh bool) error {
	reply := b.sendText
	if refresh {
		reply = b.sendTextWithRemove
	}
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	res, err := b.taskSvc.CompleteTask(ctx, user, taskID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return reply(chatID, "Task not found.")
	case errors.Is(err, service.ErrAlreadyDone):
		return reply(chatID, "That task is already done.")
	case errors.Is(err, service.ErrNoDueDate):
		return reply(chatID, "This repeating task has no due date. Set one again with /repeat.")
	case err != nil:
		return reply(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	info := fmt.Sprintf("✅ Task «%s» done.", escape(normalizeTitle(res.Task.Title)))
	if res.Next != nil {
		info += fmt.Sprintf("\n♻️ Next one (#%d) due %s.", res.Next.ID, formatDue(*res.Next.Due, b.taskSvc.Location(user)))
	}
	if err := reply(chatID, info); err != nil {
		return err
	}
	if refresh {
		return b.sendTaskList(ctx, chatID, user)
	}
	return nil
}

func (b *Bot) deleteTask(ctx context.Context, chatID int64, from *tgbotapi.User, taskID uint, refresh bool) error {
	reply := b.sendText
	if refresh {
		reply = b.sendTextWithRemove
	}
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	task, err := b.taskSvc.GetTask(ctx, user, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reply(chatID, "Task not found or already deleted.")
		}
		return reply(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	if err := b.taskSvc.DeleteTask(ctx, user, taskID); err != nil {
		return reply(chatID, fmt.Sprintf("Could not delete the task: %s", escape(err.Error())))
	}
	b.log.Info("task deleted", logx.Uint("task_id", task.ID), logx.Uint("user_id", user.ID))
	if err := reply(chatID, fmt.Sprintf("🗑 Task «%s» deleted.", escape(normalizeTitle(task.Title)))); err != nil {
		return err
	}
	if refresh {
		return b.sendTaskList(ctx, chatID, user)
	}
	return nil
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64, user *model.User) error {
	tasks, err := b.taskSvc.ListActive(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load tasks: %s", escape(err.Error())))
	}
	if len(tasks) == 0 {
		return b.sendText(chatID, "No open tasks. Add one with /newtask.")
	}
	catNames, err := b.categorySvc.Names(ctx, user)
	if err != nil {
		b.log.Warn("load category names", logx.Err(err))
	}
	now := time.Now().In(b.taskSvc.Location(user))

	groups := groupByCategory(tasks, catNames)

	var builder strings.Builder
	builder.WriteString("📋 <b>Open tasks</b>\n")
	builder.WriteString("Tap a button to complete a task.\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, group := range groups {
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", group.label))
		for _, task := range group.tasks {
			builder.WriteString(service.FormatTask(task, nil, now))
			builder.WriteByte('\n')
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", task.ID, shortTitle(task.Title, 20)), fmt.Sprintf("%s%d", cbCompletePrefix, task.ID)),
				tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)),
			))
		}
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(msg)
	return err
}

type categoryGroup struct {
	key   string
	label string
	tasks []model.Task
}

// groupByCategory keeps the repository's due-date order inside each group and
// sorts groups by name, uncategorized last.
func groupByCategory(tasks []model.Task, catNames map[uint]string) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, task := range tasks {
		key, label := normalizedCategory(task.CategoryID, catNames)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, categoryGroup{key: key, label: label})
		}
		groups[i].tasks = append(groups[i].tasks, task)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].key == noCategoryKey {
			return false
		}
		if groups[j].key == noCategoryKey {
			return true
		}
		return groups[i].key < groups[j].key
	})
	return groups
}

func repeatHint(phrase string) string {
	return fmt.Sprintf("I couldn't read %q as a repeat. Try something like:\n"+
		"• <code>every day at 9am</code>\n"+
		"• <code>every 2 weeks on monday and thursday at 18:00</code>\n"+
		"• <code>the last day of every month</code>", escape(phrase))
}

// formatPreview lists upcoming dates of a rule, rendered in their own location.
func formatPreview(rule recurrence.Rule, times []time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔁 <b>%s</b>\n", escape(recurrence.Display(rule))))
	for _, t := range times {
		sb.WriteString("• " + t.Format("Mon 2006-01-02 15:04") + "\n")
	}
	return strings.TrimSpace(sb.String())
}

func formatHistory(tasks []model.Task, loc *time.Location) string {
	if len(tasks) == 0 {
		return "No history."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗂 <b>%s</b>\n", escape(normalizeTitle(tasks[0].Title))))
	for _, task := range tasks {
		mark := "⬜"
		if task.Done {
			mark = "✅"
		}
		due := "no due date"
		if task.Due != nil {
			due = formatDue(*task.Due, loc)
		}
		sb.WriteString(fmt.Sprintf("%s #%d · %s\n", mark, task.ID, due))
	}
	return strings.TrimSpace(sb.String())
}

func formatDue(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon 2006-01-02 15:04")
}
