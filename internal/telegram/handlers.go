package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/report"
	"github.com/abhisek/interviewer/internal/scoring"
)

const (
	msgNoSession = "No interview in progress. Send /start to begin."
	msgHelp      = "Commands:\n/start - begin a new interview\n/score - show the current scorecard\n/report - download the report\n/stop - end the interview"
	msgStopped   = "Interview stopped. Send /start to begin again."
	msgError     = "Sorry, something went wrong. Please try again."
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, chatID, candidateName(msg.From))
		case "score":
			b.handleScore(ctx, chatID)
		case "report":
			b.handleReport(ctx, chatID)
		case "stop":
			b.setSession(chatID, "")
			b.sendMessage(chatID, msgStopped)
		default:
			b.sendMessage(chatID, msgHelp)
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	b.handleAnswer(ctx, chatID, text)
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, name string) {
	res, err := b.svc.Start(ctx, name)
	if err != nil {
		b.log.Error("start interview failed", zap.Error(err))
		b.sendMessage(chatID, msgError)
		return
	}
	b.setSession(chatID, res.SessionID)
	b.sendMessage(chatID, fmt.Sprintf("Hi %s! The interview has three rounds of three questions.\n\n%s",
		displayName(name), formatAction(res.InitialAction)))
}

func (b *Bot) handleAnswer(ctx context.Context, chatID int64, text string) {
	id, ok := b.sessionFor(chatID)
	if !ok {
		b.sendMessage(chatID, msgNoSession)
		return
	}
	act, err := b.svc.NextAction(ctx, id, &text)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendMessage(chatID, formatAction(act))
	if act.Completed() {
		if sc, err := b.svc.Scorecard(ctx, id); err == nil {
			b.sendMessage(chatID, formatScorecard(sc))
		}
	}
}

func (b *Bot) handleScore(ctx context.Context, chatID int64) {
	id, ok := b.sessionFor(chatID)
	if !ok {
		b.sendMessage(chatID, msgNoSession)
		return
	}
	sc, err := b.svc.Scorecard(ctx, id)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendMessage(chatID, formatScorecard(sc))
}

func (b *Bot) handleReport(ctx context.Context, chatID int64) {
	id, ok := b.sessionFor(chatID)
	if !ok {
		b.sendMessage(chatID, msgNoSession)
		return
	}
	doc, err := b.svc.ExportReport(ctx, id, report.FormatMarkdown)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	file := tgbotapi.FileBytes{Name: report.FormatMarkdown.Filename(id), Bytes: doc}
	if _, err := b.s.Send(tgbotapi.NewDocument(chatID, file)); err != nil {
		b.log.Warn("send report failed", zap.Error(err))
		b.sendMessage(chatID, msgError)
	}
}

func (b *Bot) replyError(chatID int64, err error) {
	if errors.Is(err, orchestrator.ErrNotFound) {
		b.setSession(chatID, "")
		b.sendMessage(chatID, "This interview has expired. Send /start to begin a new one.")
		return
	}
	b.log.Error("telegram request failed", zap.Int64("chat_id", chatID), zap.Error(err))
	b.sendMessage(chatID, msgError)
}

func candidateName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	return name
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

func formatAction(act *interview.Action) string {
	var b strings.Builder
	if fb := act.Feedback; fb != nil {
		fmt.Fprintf(&b, "Score: %.1f/5\n%s\n\n", fb.Score, fb.Feedback)
	}
	if act.Completed() {
		b.WriteString(act.Message)
		return b.String()
	}
	if q := act.Question; q != nil {
		fmt.Fprintf(&b, "[%s round]\n%s", act.Round.Label(), q.Text)
	}
	return b.String()
}

func formatScorecard(sc scoring.Scorecard) string {
	var b strings.Builder
	b.WriteString("Scorecard\n")
	for _, c := range sc.Categories() {
		fmt.Fprintf(&b, "%s: %.2f (weight %.0f%%)\n", c.Name, c.Score, c.Weight*100)
	}
	fmt.Fprintf(&b, "Overall: %.2f/5", sc.Overall)
	return b.String()
}
