package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const defaultOnlineCheckInterval = 3 * time.Second

// getStatus renders "<user id|guest> <mode>" for the prompt.
func (a *App) getStatus(ctx context.Context) string {
	user := "guest"
	if id, ok, err := a.auth.CurrentUserID(ctx); err == nil && ok {
		user = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s %s", user, a.Mode())
}

// Root runs the online-status watcher and the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Snapgram CLI (type 'help' for commands)")

	interval := a.config.OnlineCheckInterval
	if interval <= 0 {
		interval = defaultOnlineCheckInterval
	}
	go a.StartOnlineStatusWatcher(ctx, interval)

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}
