package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/client/api"
	"github.com/noah-isme/campus-complaints/internal/client/app"
	"github.com/noah-isme/campus-complaints/internal/client/preferences"
	"github.com/noah-isme/campus-complaints/internal/client/render"
	"github.com/noah-isme/campus-complaints/internal/client/session"
	"github.com/noah-isme/campus-complaints/internal/models"
	"github.com/noah-isme/campus-complaints/pkg/config"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
	"github.com/noah-isme/campus-complaints/pkg/logger"
	"github.com/noah-isme/campus-complaints/pkg/storage"
)

// NoticeError is a failed action. Its message is the notice the view router
// recorded, so callers can print it verbatim.
type NoticeError struct {
	Notice app.Notice
	Err    error
}

func (e *NoticeError) Error() string {
	return e.Notice.Message
}

func (e *NoticeError) Unwrap() error {
	return e.Err
}

// flagKeys maps persistent flags onto the configuration keys they override.
var flagKeys = map[string]string{
	"api":       "API_BASE_URL",
	"state-dir": "CLIENT_STATE_DIR",
}

type runtime struct {
	app    *app.App
	prefs  *preferences.Preferences
	term   render.Terminal
	logger *zap.Logger
	out    io.Writer
	in     *bufio.Reader
	prompt io.Writer
}

func newRuntime(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind --%s: %w", name, err)
		}
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.NewCLI(cfg, opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	kv, err := storage.NewLocalStore(cfg.Client.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open state dir: %w", err)
	}

	sessions := session.NewStore(kv, session.WithLogger(logr))
	client := api.New(cfg.Client.APIBaseURL, sessions, api.WithLogger(logr))
	prefs := preferences.New(kv)

	dark, err := prefs.DarkMode()
	if err != nil {
		logr.Warn("ignoring unreadable theme preference", zap.Error(err))
	}

	logr.Debug("client ready", zap.String("api", cfg.Client.APIBaseURL), zap.String("state_dir", cfg.Client.StateDir))

	return &runtime{
		app:    app.New(sessions, client, logr),
		prefs:  prefs,
		term:   render.Terminal{Dark: dark, Color: !opts.noColor && !color.NoColor},
		logger: logr,
		out:    cmd.OutOrStdout(),
		in:     bufio.NewReader(cmd.InOrStdin()),
		prompt: cmd.ErrOrStderr(),
	}, nil
}

// run builds a runtime for each invocation and hands it to fn.
func run(opts *rootOptions, fn func(ctx context.Context, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, opts)
		if err != nil {
			return err
		}
		defer rt.logger.Sync() //nolint:errcheck
		return fn(cmd.Context(), rt, args)
	}
}

// start restores the persisted session.
func (rt *runtime) start(ctx context.Context) error {
	if err := rt.app.Start(ctx); err != nil {
		return rt.failure(err)
	}
	return nil
}

func (rt *runtime) dispatch(ctx context.Context, action app.Action, in app.Input) error {
	if err := rt.app.Dispatch(ctx, action, in); err != nil {
		return rt.failure(err)
	}
	return nil
}

func (rt *runtime) failure(err error) error {
	notice := rt.app.State().Notice
	if !notice.IsError() {
		notice = app.Notice{Kind: appErrors.Category(err), Message: err.Error()}
	}
	return &NoticeError{Notice: notice, Err: err}
}

// requirePortal fails unless a session was restored, optionally for a specific role.
func (rt *runtime) requirePortal(role models.Role) error {
	state := rt.app.State()
	if !state.View.LoggedIn() {
		return &NoticeError{
			Notice: app.Notice{Kind: appErrors.KindSession, Message: "Not logged in. Run `complaints login` first."},
			Err:    appErrors.ErrNoSession,
		}
	}
	if role != "" && state.Session.Role != role {
		msg := "this command needs an administrator session"
		if role == models.RoleStudent {
			msg = "this command needs a student session"
		}
		return &NoticeError{
			Notice: app.Notice{Kind: appErrors.KindRejected, Message: msg},
			Err:    appErrors.Clone(appErrors.ErrForbidden, msg),
		}
	}
	return nil
}

// notice prints the last success notice, if any.
func (rt *runtime) notice() error {
	n := rt.app.State().Notice
	if n.Message == "" || n.IsError() {
		return nil
	}
	_, err := fmt.Fprintln(rt.out, n.Message)
	return err
}

// portal prints the greeting, admin statistics and the current view.
func (rt *runtime) portal() error {
	state := rt.app.State()
	if !state.View.LoggedIn() {
		return nil
	}
	if err := rt.term.WriteWelcome(rt.out, state.Session.Identity.DisplayName, state.Session.Identity.ID); err != nil {
		return err
	}
	if state.View == app.ViewAdminPortal {
		if err := rt.term.WriteStats(rt.out, rt.app.Stats()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(rt.out); err != nil {
		return err
	}
	return rt.term.Write(rt.out, rt.app.Render())
}

// ask returns value when set, otherwise prompts for a line on stdin.
func (rt *runtime) ask(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	if _, err := fmt.Fprintf(rt.prompt, "%s: ", label); err != nil {
		return "", err
	}
	line, err := rt.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
