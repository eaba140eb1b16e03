package cli

import "context"

// Feed prints the posts of everyone the user follows, newest first. When the
// feed cannot be composed the user gets a warning and an empty feed.
func (a *App) Feed(ctx context.Context) error {
	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	items, err := a.feed.ComposeFeed(ctx, viewer)
	if err != nil {
		a.printWarn("could not load the feed: %s", describeError(err))
		items = nil
	}

	if len(items) == 0 {
		a.printf("No posts yet. Follow someone to fill your feed.")
		return err
	}
	for _, it := range items {
		a.printPost(it.AuthorName(), it.Post)
	}
	return nil
}
