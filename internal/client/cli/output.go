package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/filex"
	"github.com/dmitrijs2005/snapgram/internal/models"
	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.Bold)
	dimColor  = color.New(color.Faint)
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *App) printOK(format string, args ...any) {
	okColor.Fprintf(a.out, format+"\n", args...)
}

func (a *App) printWarn(format string, args ...any) {
	warnColor.Fprintf(a.out, format+"\n", args...)
}

// fail reports err to the user and returns it unchanged.
func (a *App) fail(action string, err error) error {
	errColor.Fprintf(a.out, "%s failed: %s\n", action, describeError(err))
	return err
}

func (a *App) printPost(author string, p models.Post) {
	headColor.Fprintf(a.out, "#%d %s", p.ID, author)
	dimColor.Fprintf(a.out, "  %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "  %s\n", p.ImageURL)
	if p.Caption != nil && *p.Caption != "" {
		fmt.Fprintf(a.out, "  %s\n", *p.Caption)
	}
}

func (a *App) printUser(u models.UserSummary) {
	headColor.Fprintf(a.out, "#%d @%s", u.ID, u.UserName)
	fmt.Fprintf(a.out, "  %s\n", u.DisplayName())
}

// describeError turns err into a short message for the terminal.
func describeError(err error) string {
	switch {
	case errors.Is(err, common.ErrorNotAuthenticated):
		return "please log in"
	case errors.Is(err, common.ErrorInvalidCredentials):
		return "incorrect email or password"
	case errors.Is(err, common.ErrorInvalidOperation):
		return "you cannot do that with your own account"
	case errors.Is(err, common.ErrorNotFound):
		return "not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "already exists"
	case errors.Is(err, common.ErrorValidation):
		return err.Error()
	case errors.Is(err, filex.ErrNotAnImage), errors.Is(err, filex.ErrImageTooLarge):
		return err.Error()
	case errors.Is(err, common.ErrorUpload):
		return "the image could not be uploaded"
	case errors.Is(err, common.ErrorUpdate):
		return "the change could not be saved"
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, common.ErrorTransientGateway):
		return "gateway unavailable, try again later"
	default:
		return err.Error()
	}
}
