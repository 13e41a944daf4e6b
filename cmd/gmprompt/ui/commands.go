package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gmprompt/internal/catalog"
	"gmprompt/internal/prompt"
)

const defaultToastDuration = 4 * time.Second

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

func loadCatalogCmd(ctx context.Context, store *catalog.Store, source string) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{err: store.Load(ctx, source)}
	}
}

// publishCmd runs the output sinks off the event loop. The notification is
// captured and returned so Update can show it as a toast.
func publishCmd(ctx context.Context, cfg prompt.PublisherConfig, res prompt.Result) tea.Cmd {
	return func() tea.Msg {
		var note notification
		cfg.Notifier = prompt.NotifierFunc(func(message, action string, c prompt.NotificationConfig) {
			note = notification{message: message, action: action, duration: c.Duration}
		})

		id, err := prompt.NewPublisher(cfg).Publish(ctx, res)
		return publishedMsg{result: res, historyID: id, notification: note, err: err}
	}
}

func sendCmd(ctx context.Context, sender *prompt.Sender, res prompt.Result, historyID string) tea.Cmd {
	return func() tea.Msg {
		text, err := sender.Send(ctx, res, historyID)
		return responseMsg{text: text, err: err}
	}
}

func expireToastCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
