// Command adminctl is the terminal admin console: one subcommand per console
// operation, sharing the session store with the desktop console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
	"github.com/LunovVladyslav/ws-tutorial/pkg/config"
	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
	"github.com/LunovVladyslav/ws-tutorial/pkg/logging"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
	"github.com/LunovVladyslav/ws-tutorial/pkg/session"
	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
	"github.com/LunovVladyslav/ws-tutorial/pkg/term"
	"github.com/LunovVladyslav/ws-tutorial/pkg/version"
)

const usage = `Usage: adminctl [flags] <command> [args]

Commands:
  login [-u user] [-p password]   sign in (prompts for missing values)
  logout                          forget the stored session
  whoami                          show the stored session
  users                           list users
  user-create -u user -p password [-role USER|ADMIN]
  user-delete <id>                delete a user
  ban <id> <hours|permanent>      ban a user (-1 is permanent)
  unban <id>                      lift a ban
  peers                           list live connections
  reports                         list reports
  resolve <id>                    resolve a report
  logs                            print the server log tail
  version                         print build information

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type app struct {
	cfg      *config.Config
	client   *api.Client
	sessions session.Store
	render   *term.Renderer
	prompt   *term.Prompter
	router   *term.Router
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	configFile := flags.String("config", "", "YAML config file (default: ./admin-console.yaml or the user config dir)")
	envFile := flags.String("env", ".env", "dotenv file loaded before reading the config")
	serverURL := flags.String("server", "", "server base URL (overrides config)")
	backend := flags.String("storage", "", "session storage: "+storage.BackendNames())
	storagePath := flags.String("storage-path", "", "session storage file")
	output := flags.String("o", term.FormatTable, "output format: table or yaml")
	assumeYes := flags.Bool("y", false, "answer yes to confirmations")
	logLevel := flags.String("log-level", "", "log level: "+logging.LevelNames())
	logFormat := flags.String("log-format", "", "log format: text or json")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}
	cmd, cmdArgs := flags.Arg(0), flags.Args()[1:]

	if cmd == "version" {
		return printVersion(stdout, *output)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "load %s: %v\n", *envFile, err)
		return 1
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	override(&cfg.ServerURL, *serverURL)
	override(&cfg.Storage, *backend)
	override(&cfg.StoragePath, *storagePath)
	override(&cfg.LogLevel, *logLevel)
	override(&cfg.LogFormat, *logFormat)
	if *storagePath == "" && *backend != "" {
		if dir, err := config.Dir(); err == nil {
			cfg.StoragePath = filepath.Join(dir, config.DefaultStorageFile(cfg.Storage))
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	opts := cfg.LoggingOptions()
	opts.Output = stderr
	if err := logging.Setup(opts); err != nil {
		fmt.Fprintf(stderr, "invalid logging config: %v\n", err)
		return 1
	}

	st, err := cfg.OpenStorage()
	if err != nil {
		slog.Error("open session storage", "backend", cfg.Storage, "path", cfg.StoragePath, "err", err)
		return 1
	}
	defer st.Close()

	client, err := api.New(cfg.ServerURL, api.WithUserAgent(version.UserAgent("adminctl")))
	if err != nil {
		slog.Error("create api client", "err", err)
		return 1
	}
	defer client.Metrics().LogSummary()
	render, err := term.NewRenderer(stdout, stderr, *output)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	a := &app{
		cfg:      cfg,
		client:   client,
		sessions: session.NewStore(st),
		render:   render,
		prompt:   &term.Prompter{In: stdin, Out: stderr, AssumeYes: *assumeYes},
		router:   &term.Router{Out: stderr, LoginHint: "Run `adminctl login` to sign in."},
	}
	return a.dispatch(ctx, cmd, cmdArgs, stderr)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string, stderr io.Writer) int {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "users", "peers", "reports", "logs", "user-create", "user-delete", "ban", "unban", "resolve":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		return 2
	}

	c, err := console.New(console.Config{
		Store:    a.sessions,
		Client:   a.client,
		View:     a.render,
		Prompter: a.prompt,
		Router:   a.router,
		Modals: map[string]console.Modal{
			console.ModalAddUser: &term.Modal{},
			console.ModalBanUser: &term.Modal{},
		},
	})
	if err != nil {
		slog.Debug("console refused", "err", err)
		return 1
	}

	alerts := a.prompt.Alerts
	switch cmd {
	case "users", "peers", "reports", "logs":
		var tab console.Tab
		if tab, err = console.ParseTab(cmd); err == nil {
			err = c.Dispatch(ctx, console.Action{Name: console.TabAction(tab)})
		}
	case "user-create":
		err = a.createUser(ctx, c, args)
	case "user-delete":
		err = a.withID(args, func(id int64) error {
			return c.Dispatch(ctx, console.Action{Name: console.ActionUserDelete, ID: id})
		})
	case "ban":
		err = a.ban(ctx, c, args)
	case "unban":
		err = a.withID(args, func(id int64) error {
			return c.Dispatch(ctx, console.Action{Name: console.ActionUserUnban, ID: id})
		})
	case "resolve":
		err = a.withID(args, func(id int64) error {
			return c.Dispatch(ctx, console.Action{Name: console.ActionReportResolve, ID: id})
		})
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if a.prompt.Alerts > alerts {
		return 1
	}
	return 0
}

func (a *app) login(ctx context.Context, args []string) int {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	flags.SetOutput(a.prompt.Out)
	username := flags.String("u", "", "username")
	password := flags.String("p", "", "password")
	force := flags.Bool("force", false, "sign in again even if a session is stored")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	l := console.NewLogin(a.client, a.sessions, a.render, a.router)
	if !*force && l.Resume() {
		return 0
	}

	var err error
	if *username == "" {
		if *username, err = a.prompt.ReadLine("Username: "); err != nil {
			fmt.Fprintln(a.prompt.Out, err)
			return 1
		}
	}
	if *password == "" {
		if *password, err = a.prompt.ReadPassword("Password: "); err != nil {
			fmt.Fprintln(a.prompt.Out, err)
			return 1
		}
	}

	if err := l.Submit(ctx, *username, *password); err != nil {
		if errors.Is(err, console.ErrMissingCredentials) {
			fmt.Fprintln(a.prompt.Out, "username and password are required")
		}
		return 1
	}
	return 0
}

func (a *app) logout() int {
	if err := a.sessions.Clear(); err != nil {
		slog.Error("logout", "err", err)
		return 1
	}
	fmt.Fprintln(a.prompt.Out, "Logged out.")
	return 0
}

func (a *app) whoami() int {
	s, err := session.RequireAdmin(a.sessions)
	if err != nil {
		a.router.ToLogin()
		return 1
	}
	expires := ""
	if t, ok := session.ExpiresAt(s.Token); ok {
		expires = t.Local().Format("2006-01-02 15:04")
	}
	a.render.SetOperator(s.Username, expires)
	if a.render.Format == term.FormatYAML {
		out := map[string]string{"username": s.Username, "role": s.Role.String(), "server": a.client.BaseURL()}
		if expires != "" {
			out["expires"] = expires
		}
		return encodeYAML(a.render.Out, out)
	}
	return 0
}

func (a *app) createUser(ctx context.Context, c *console.Console, args []string) error {
	flags := flag.NewFlagSet("user-create", flag.ContinueOnError)
	flags.SetOutput(a.prompt.Out)
	username := flags.String("u", "", "username")
	password := flags.String("p", "", "password")
	role := flags.String("role", string(model.RoleUser), "role: USER or ADMIN")
	if err := flags.Parse(args); err != nil {
		return err
	}
	r := model.ParseRole(*role)
	if !strings.EqualFold(strings.TrimSpace(*role), r.String()) {
		return fmt.Errorf("unknown role %q: want USER or ADMIN", *role)
	}
	if err := c.Dispatch(ctx, console.Action{Name: console.ActionUserCreate}); err != nil {
		return err
	}
	c.Users.Create(ctx, model.NewUser{Username: *username, Password: *password, Role: r})
	return nil
}

func (a *app) ban(ctx context.Context, c *console.Console, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: adminctl ban <id> <hours|permanent>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := c.Dispatch(ctx, console.Action{Name: console.ActionUserBan, ID: id, Target: "#" + args[0]}); err != nil {
		return err
	}
	c.Users.SubmitBan(ctx, args[1])
	return nil
}

func (a *app) withID(args []string, fn func(id int64) error) error {
	if len(args) != 1 {
		return errors.New("expected exactly one id argument")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return fn(id)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printVersion(w io.Writer, format string) int {
	if format == term.FormatYAML {
		return encodeYAML(w, version.Get())
	}
	fmt.Fprintln(w, "adminctl "+version.Full())
	return 0
}

func encodeYAML(w io.Writer, v any) int {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		slog.Error("encode yaml", "err", err)
		return 1
	}
	return 0
}
