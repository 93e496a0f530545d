package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/crawl"
	maghttp "github.com/fwojciec/magdoc/http"
	"github.com/fwojciec/magdoc/readability"
	"github.com/fwojciec/magdoc/rod"
	magslog "github.com/fwojciec/magdoc/slog"
	"github.com/fwojciec/magdoc/sqlite"
	"github.com/fwojciec/magdoc/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService magdoc.ArticleService

	// Fetcher and Downloader replace the network clients when set.
	Fetcher    magdoc.Fetcher
	Downloader magdoc.Downloader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("magdoc"),
		kong.Description("Convert printed magazine editions to Markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'magdoc --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Config = DefaultConfig()
	if cli.Config != "" {
		if deps.Config, err = LoadConfig(cli.Config); err != nil {
			fmt.Fprintf(stderr, "error: invalid config %s: %s\n", cli.Config, errorText(err))
			return err
		}
	}
	deps.Logger = newLogger(stderr, cli.Verbose)

	cmd := strings.Fields(kongCtx.Command())[0]

	if cmd == "archive" || (cmd == "edition" && !cli.Edition.NoArchive) {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set MAGDOC_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.ArticleService = sqlite.NewArticleService(m.DB)
		deps.Articles = magslog.NewLoggingArticleService(m.ArticleService, deps.Logger)
	}

	if cmd == "parse" || cmd == "edition" {
		fetcher, err := m.fetcher(deps.Config, cmd == "edition" && cli.Edition.Render)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()
		deps.Fetcher = magslog.NewLoggingFetcher(fetcher, deps.Logger)
	}

	if cmd == "edition" {
		downloader := m.Downloader
		if downloader == nil {
			downloader = maghttp.NewFetcher(httpOptions(deps.Config)...)
		}
		deps.Downloader = magslog.NewLoggingDownloader(downloader, deps.Logger)
		deps.RateLimiter = crawl.NewDomainLimiter(deps.Config.RequestsPerSecond)
		deps.Meta = crawl.MetaChain{
			readability.NewMetaReader(),
			trafilatura.NewMetaReader(),
		}
	}

	return kongCtx.Run(deps)
}

// fetcher returns the page fetcher: a headless browser when render is set,
// plain HTTP otherwise.
func (m *Main) fetcher(cfg Config, render bool) (magdoc.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if render {
		return rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout))
	}
	return maghttp.NewFetcher(httpOptions(cfg)...), nil
}

func httpOptions(cfg Config) []maghttp.Option {
	opts := []maghttp.Option{maghttp.WithTimeout(cfg.Timeout)}
	if cookie := os.Getenv("MAGDOC_COOKIE"); cookie != "" {
		opts = append(opts, maghttp.WithCookie(cookie))
	}
	return opts
}

// newLogger logs warnings to stderr, or everything when verbose is set.
func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// errorText returns the message of an application error, or the full
// error text for anything else.
func errorText(err error) string {
	if magdoc.ErrorCode(err) == magdoc.EINTERNAL {
		return err.Error()
	}
	return magdoc.ErrorMessage(err)
}

func defaultDBPath() string {
	if path := os.Getenv("MAGDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "magdoc.db"
	}
	dir := filepath.Join(home, ".magdoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "magdoc.db")
}
