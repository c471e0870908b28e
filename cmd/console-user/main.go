// console-user edits a console user account from the command line. It is a
// thin front-end over the edit session workflow: it logs in, opens a session
// for the caller's own profile or for a target user, applies the requested
// field edits and submits them.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/libregate/go-console-api"
)

func main() {
	app := &cli.App{
		Name:  "console-user",
		Usage: "edit a console user account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "host URL of the console API",
				Value:   console.DefaultHostURL,
				EnvVars: []string{"CONSOLE_HOST"},
			},
			&cli.StringFlag{
				Name:     "username",
				Usage:    "username to log in as",
				Required: true,
				EnvVars:  []string{"CONSOLE_USERNAME"},
			},
			&cli.StringFlag{
				Name:     "password",
				Usage:    "password to log in with",
				Required: true,
				EnvVars:  []string{"CONSOLE_PASSWORD"},
			},
			&cli.IntFlag{
				Name:  "user",
				Usage: "ID of the user to edit (omit to edit your own profile)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the current record of the user",
				Action: showAction,
			},
			{
				Name:  "edit",
				Usage: "edit fields of the user and submit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "display-name", Usage: "new display name"},
					&cli.StringFlag{Name: "remark", Usage: "new remark"},
					&cli.StringFlag{Name: "group", Usage: "new group (admin edits only)"},
					&cli.StringFlag{Name: "new-password", Usage: "new password"},
					&cli.StringFlag{Name: "quota", Usage: "new quota"},
					&cli.StringFlag{Name: "add-quota", Usage: "signed quota delta applied on top of the current quota"},
					&cli.BoolFlag{Name: "unlimited", Usage: "grant unlimited quota"},
				},
				Action: editAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("Command failed")
	}
}

// logNotifier surfaces session outcomes on the terminal.
type logNotifier struct{}

func (logNotifier) Success(message string) { logrus.Info(message) }
func (logNotifier) Error(message string)   { logrus.Error(message) }

func openSession(c *cli.Context) (*console.UserEditSession, error) {
	m := console.New(
		console.WithHostURL(c.String("host")),
		console.WithAppVersion("console-user_1.0.0"),
	)

	client, _, err := m.NewClientWithLogin(c.Context, c.String("username"), c.String("password"))
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	var session *console.UserEditSession

	if userID := c.Int("user"); userID > 0 {
		session = console.NewAdminEditSession(client, userID, logNotifier{}, console.SessionCallbacks{})
	} else {
		session = console.NewSelfEditSession(client, logNotifier{}, console.SessionCallbacks{})
	}

	session.Open(c.Context)

	if err := waitLoaded(c.Context, session); err != nil {
		session.Close()
		return nil, err
	}

	return session, nil
}

func waitLoaded(ctx context.Context, session *console.UserEditSession) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.After(30 * time.Second)

	for session.Loading() {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timeout:
			return fmt.Errorf("timed out waiting for the user record")

		case <-ticker.C:
		}
	}

	return nil
}

func showAction(c *cli.Context) error {
	session, err := openSession(c)
	if err != nil {
		return err
	}
	defer session.Close()

	draft := session.Draft()

	fmt.Printf("username:     %v\n", draft.Username)
	fmt.Printf("display name: %v\n", draft.DisplayName)
	fmt.Printf("remark:       %v\n", draft.Remark)
	fmt.Printf("group:        %v\n", draft.Group)
	fmt.Printf("quota:        %v (unlimited: %v)\n", draft.QuotaValue(), draft.UnlimitedQuota)
	fmt.Printf("bindings:     github=%v oidc=%v wechat=%v telegram=%v email=%v\n",
		draft.GitHubID, draft.OIDCID, draft.WeChatID, draft.TelegramID, draft.Email)

	return nil
}

func editAction(c *cli.Context) error {
	session, err := openSession(c)
	if err != nil {
		return err
	}

	if c.IsSet("display-name") {
		session.SetDisplayName(c.String("display-name"))
	}

	if c.IsSet("remark") {
		session.SetRemark(c.String("remark"))
	}

	if c.IsSet("group") {
		session.SetGroup(c.String("group"))
	}

	if c.IsSet("new-password") {
		session.SetPassword(c.String("new-password"))
	}

	if c.IsSet("quota") {
		session.SetQuota(c.String("quota"))
	}

	if c.IsSet("unlimited") {
		session.SetUnlimitedQuota(c.Bool("unlimited"))
	}

	if c.IsSet("add-quota") {
		adjuster := session.Adjuster()

		adjuster.Open()
		adjuster.SetDelta(c.String("add-quota"))

		current, delta, result := adjuster.Preview()
		logrus.WithFields(logrus.Fields{
			"current": current,
			"delta":   delta,
			"result":  result,
		}).Info("Applying quota delta")

		adjuster.Commit()
	}

	return session.Submit(c.Context)
}
