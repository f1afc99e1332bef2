package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamboard/client/internal/credstore"
	"github.com/teamboard/client/internal/meetings"
	"github.com/teamboard/client/internal/models"
)

const listPageSize = 50

// Tasks lists tasks from the board. An optional argument narrows the listing:
// "available", "mine" or "accepted"; no argument lists everything.
func (a *App) Tasks(ctx context.Context, args []string) error {
	scope := ""
	if len(args) > 0 {
		scope = args[0]
	}

	var (
		list []models.Task
		err  error
	)
	switch scope {
	case "":
		list, err = a.tasks.List(ctx, 0, listPageSize, "")
	case "available":
		list, err = a.tasks.Available(ctx, 0, listPageSize)
	case "mine":
		list, err = a.tasks.Mine(ctx, 0, listPageSize)
	case "accepted":
		list, err = a.tasks.Accepted(ctx, 0, listPageSize)
	default:
		printlnFn("Usage: tasks [available|mine|accepted]")
		return nil
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		printlnFn("No tasks")
		return nil
	}
	for _, t := range list {
		printlnFn(fmt.Sprintf("#%d [%s] %s (%d/%d accepted, by %s)",
			t.ID, t.Status, t.Title, t.AcceptedCount, t.MaxAcceptCount, t.PublisherName))
	}
	return nil
}

// Agenda lists the current user's meetings for the next seven days.
func (a *App) Agenda(ctx context.Context) error {
	now := time.Now()
	end := now.AddDate(0, 0, 7)

	list, err := a.meets.Mine(ctx, 0, listPageSize, meetings.Filter{Start: &now, End: &end})
	if err != nil {
		return err
	}

	if len(list) == 0 {
		printlnFn("No meetings in the next 7 days")
		return nil
	}
	for _, m := range list {
		printlnFn(fmt.Sprintf("#%d %s  %s (%d min)",
			m.ID, m.MeetingDate.Local().Format("Mon 02 Jan 15:04"), m.Title, m.Duration))
	}
	return nil
}

// SetLanguage persists the UI language preference. When the store is backed
// by SQLite the write goes through a transaction so a concurrent writer
// cannot interleave.
func (a *App) SetLanguage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: lang <en|zh>")
		return nil
	}
	code := strings.ToLower(args[0])
	if code != "en" && code != "zh" {
		printlnFn("Supported languages: en, zh")
		return nil
	}
	if a.db != nil {
		return a.db.Update(ctx, credstore.KeyLanguage, func([]byte) ([]byte, error) {
			return []byte(code), nil
		})
	}
	return a.store.Set(ctx, credstore.KeyLanguage, []byte(code))
}

// SetURL persists a backend base-URL override. It takes effect on the next
// start, since the API client resolves its base URL once at construction.
func (a *App) SetURL(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: seturl <url>")
		return nil
	}
	u := strings.TrimSpace(args[0])
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		printlnFn("URL must start with http:// or https://")
		return nil
	}
	if err := a.store.Set(ctx, credstore.KeyBaseURL, []byte(u)); err != nil {
		return err
	}
	printlnFn("Server URL saved; restart the client to apply it")
	return nil
}
