package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/models"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.printWarn("usage: %s", text)
	return errUsage
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

// targetOrSelf resolves an optional user id argument, defaulting to self.
func (a *App) targetOrSelf(args []string, self int64) (int64, error) {
	if len(args) == 0 {
		return self, nil
	}
	id, err := parseUserID(args[0])
	if err != nil {
		errColor.Fprintln(a.out, err.Error())
		return 0, err
	}
	return id, nil
}

// requireTarget resolves the mandatory user id argument of cmd.
func (a *App) requireTarget(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, a.usage(cmd + " <id>")
	}
	id, err := parseUserID(args[0])
	if err != nil {
		errColor.Fprintln(a.out, err.Error())
		return 0, err
	}
	return id, nil
}

func (a *App) Profile(ctx context.Context, args []string) error {
	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	target, err := a.targetOrSelf(args, viewer)
	if err != nil {
		return err
	}

	p, err := a.profiles.GetProfile(ctx, viewer, target)
	if err != nil {
		return a.fail("profile", err)
	}

	headColor.Fprintf(a.out, "%s (@%s)\n", p.User.DisplayName(), p.User.UserName)
	a.printf("id: %d", p.User.ID)
	if p.User.ProfileURL != nil {
		a.printf("picture: %s", *p.User.ProfileURL)
	}
	a.printStats(p.Stats)

	switch {
	case p.Own:
		dimColor.Fprintln(a.out, "this is you")
	case p.Relationship.Following:
		a.printf("you follow this user")
	default:
		a.printf("you do not follow this user")
	}

	if len(p.Posts) == 0 {
		a.printf("No posts yet.")
		return nil
	}
	for _, post := range p.Posts {
		a.printPost("@"+p.User.UserName, post)
	}
	return nil
}

func (a *App) Stats(ctx context.Context, args []string) error {
	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	target, err := a.targetOrSelf(args, viewer)
	if err != nil {
		return err
	}

	a.printStats(a.profiles.GetStats(ctx, target))
	return nil
}

func (a *App) printStats(st models.Stats) {
	a.printf("posts: %d  followers: %d  following: %d", st.PostCount, st.FollowerCount, st.FollowingCount)
}

func (a *App) Follow(ctx context.Context, args []string) error {
	target, err := a.requireTarget("follow", args)
	if err != nil {
		return err
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if err := a.follows.Follow(ctx, viewer, target); err != nil {
		return a.fail("follow", err)
	}
	a.printOK("You follow user %d.", target)
	return nil
}

func (a *App) Unfollow(ctx context.Context, args []string) error {
	target, err := a.requireTarget("unfollow", args)
	if err != nil {
		return err
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if err := a.follows.Unfollow(ctx, viewer, target); err != nil {
		return a.fail("unfollow", err)
	}
	a.printOK("You no longer follow user %d.", target)
	return nil
}

func (a *App) Toggle(ctx context.Context, args []string) error {
	target, err := a.requireTarget("toggle", args)
	if err != nil {
		return err
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	rel, err := a.follows.Toggle(ctx, viewer, target)
	if err != nil {
		return a.fail("toggle", err)
	}
	if rel.Following {
		a.printOK("You follow user %d.", target)
	} else {
		a.printOK("You no longer follow user %d.", target)
	}
	return nil
}

// Search matches text case-insensitively anywhere in the username, first
// name or last name. A query superseded by a newer one prints nothing.
func (a *App) Search(ctx context.Context, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return a.usage("search <text>")
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	users, err := a.search.Query(ctx, text)
	if errors.Is(err, common.ErrorStaleResult) {
		return nil
	}
	if err != nil {
		return a.fail("search", err)
	}

	if len(users) == 0 {
		a.printf("No users found.")
		return nil
	}
	for _, u := range users {
		a.printUser(u)
	}
	return nil
}
