package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/pulse/internal/client/models"
)

var getMultiline = GetMultiline

// Feed prints one page of the thread feed and remembers its position for More.
func (a *App) Feed(ctx context.Context, page int) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	p, err := a.threads.List(ctx, page, a.config.PageSize)
	if err != nil {
		return err
	}

	if len(p.Items) == 0 {
		fmt.Fprintln(a.out, "No threads yet")
	}
	for _, t := range p.Items {
		printThread(a.out, t)
	}
	fmt.Fprintf(a.out, "Page %d of %d (%d threads)\n", p.Meta.CurrentPage, p.Meta.TotalPages, p.Meta.TotalItems)

	meta := p.Meta
	a.setFeed(&meta)
	return nil
}

// More loads the page after the last one shown, starting from the first.
func (a *App) More(ctx context.Context) error {
	meta := a.currentFeed()
	if meta == nil {
		return a.Feed(ctx, 1)
	}
	next, ok := meta.NextPage()
	if !ok {
		fmt.Fprintln(a.out, "No more threads")
		return nil
	}
	return a.Feed(ctx, next)
}

func (a *App) Post(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return err
	}

	t, err := a.threads.Create(ctx, models.CreateThreadInput{Title: title, Content: content})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created thread %s\n", t.ID)
	return nil
}

func (a *App) Subscribe(ctx context.Context, threadID string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if err := a.threads.Subscribe(ctx, threadID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Subscribed to %s\n", threadID)
	return nil
}

func (a *App) Unsubscribe(ctx context.Context, threadID string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if err := a.threads.Unsubscribe(ctx, threadID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Unsubscribed from %s\n", threadID)
	return nil
}

func printThread(w io.Writer, t models.Thread) {
	mark := " "
	if t.IsSubscribed {
		mark = "*"
	}
	fmt.Fprintf(w, "%s %s  %s  by @%s  [%d subscribers, %d comments]\n",
		mark, t.ID, t.Title, t.Author.Username, t.SubscriberCount, t.CommentCount)
}
