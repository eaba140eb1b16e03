package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/filex"
)

// readImage is a test seam for filex.ReadImage.
var readImage = filex.ReadImage

// Upload publishes the picture at args[0] with the rest of args as caption.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("upload <path> [caption]")
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	img, err := readImage(args[0])
	if err != nil {
		return a.fail("upload", err)
	}
	caption := strings.Join(args[1:], " ")

	post, err := a.profiles.UploadPost(ctx, viewer, img.Data, img.Ext, caption)
	if err != nil {
		if errors.Is(err, common.ErrorUpdate) && post != nil {
			a.printWarn("image stored at %s but the post was not saved", post.ImageURL)
			return err
		}
		return a.fail("upload", err)
	}

	a.printOK("Posted #%d.", post.ID)
	return nil
}

// Avatar replaces the profile picture with the image at args[0].
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("avatar <path>")
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	img, err := readImage(args[0])
	if err != nil {
		return a.fail("avatar", err)
	}

	url, err := a.profiles.UpdateProfileImage(ctx, viewer, img.Data, img.Ext)
	if err != nil {
		if errors.Is(err, common.ErrorUpdate) && url != "" {
			a.printWarn("picture uploaded to %s but the profile was not updated", url)
			a.printWarn("run: relink %s", url)
			return err
		}
		return a.fail("avatar", err)
	}

	a.printOK("Profile picture updated.")
	return nil
}

// Relink retries recording an already uploaded profile picture.
func (a *App) Relink(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("relink <url>")
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if err := a.profiles.LinkProfileImage(ctx, viewer, args[0]); err != nil {
		return a.fail("relink", err)
	}
	a.printOK("Profile picture updated.")
	return nil
}
