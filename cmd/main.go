package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/app"
	"github.com/Akashdeep-Patra/zed-git-history/internal/config"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/watcher"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags by GoReleaser / Taskfile.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	// ── Multi-instance resource tuning ──────────────────────────────
	//
	// zgh is usually one of several terminals in an editor session. The
	// event loop is mostly idle and git work runs in subprocesses, so two
	// OS threads are plenty. An explicit GOMAXPROCS wins.
	if os.Getenv("GOMAXPROCS") == "" {
		maxProcs := 2
		if n := runtime.NumCPU(); n < maxProcs {
			maxProcs = n
		}
		runtime.GOMAXPROCS(maxProcs)
	}

	// Decoded files are cached, so let the GC start early rather than let
	// RSS follow the cache.
	debug.SetMemoryLimit(96 * 1024 * 1024) // 96 MiB
}

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zgh:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	path       string
	commit     string
	file       string
	line       int
	blame      bool
	configPath string
}

func buildRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "zgh",
		Short: "Browse the history of a git repository, file by file",
		Long: `zgh is a keyboard-first terminal browser for git history, built to run
inside Zed's integrated terminal (or any terminal emulator).

Filter the files of any commit, step through history with the file kept
in view, toggle blame, and open or copy a permalink to the exact line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"zgh %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())
	rootCmd.AddCommand(buildZedCmd())

	f := rootCmd.Flags()
	f.StringVarP(&flags.path, "path", "p", ".", "Path to the git repository")
	f.StringVarP(&flags.commit, "commit", "c", "", "Commit id or prefix to start at instead of HEAD")
	f.StringVarP(&flags.file, "file", "f", "", "File to open, relative to the repository root")
	f.IntVarP(&flags.line, "line", "l", 0, "Line to scroll to in --file")
	f.BoolVar(&flags.blame, "blame", false, "Start in blame mode")
	f.StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/zgh/config.yaml)")

	return rootCmd
}

// buildVersionCmd creates the `zgh version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Printf("zgh %s\n", version)
			fmt.Printf("  commit:  %s\n", commit)
			fmt.Printf("  built:   %s\n", date)
			fmt.Printf("  go:      %s\n", runtime.Version())
			fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}

// buildCompletionCmd creates the `zgh completion` subcommand for shell completions.
func buildCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for zgh.

Examples:
  # Bash (add to ~/.bashrc)
  zgh completion bash > /etc/bash_completion.d/zgh

  # Zsh (add to ~/.zshrc before compinit)
  zgh completion zsh > "${fpath[1]}/_zgh"

  # Fish
  zgh completion fish > ~/.config/fish/completions/zgh.fish

  # PowerShell
  zgh completion powershell > zgh.ps1`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}

	return cmd
}

func runApp(ctx context.Context, flags rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, err := git.Open(cfg.Backend, flags.path, git.Options{Remote: cfg.Remote, FirstParent: cfg.FirstParent})
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	if cli, ok := repo.(*git.CLISource); ok {
		cli.SetTimeout(cfg.GitTimeout)
	}
	log.Info("repository opened", "root", repo.RepoRoot(), "backend", cfg.Backend)

	src, err := git.NewCachedSource(repo, cfg.CacheSize, int(cfg.MaxFileSize))
	if err != nil {
		return fmt.Errorf("creating cache: %w", err)
	}

	model := app.New(cfg, src, app.Options{
		StartCommit: flags.commit,
		StartFile:   strings.TrimPrefix(flags.file, "./"),
		StartLine:   flags.line,
		Blame:       flags.blame,
		RepoRoot:    repo.RepoRoot(),
		Logger:      log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Only .git refs are watched, which stays cheap in huge monorepos.
	if cfg.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		events, watchErr := watcher.Watch(watchCtx, repo.GitDir(), cfg.WatchDebounce, log)
		if watchErr != nil {
			log.Warn("watcher disabled", "err", watchErr)
		} else {
			go watcher.Forward(events, p.Send)
		}
	}

	_, err = p.Run()
	return err
}

// openLog returns the session logger. Bubbletea owns the terminal, so logs
// go to cfg.LogFile or nowhere.
func openLog(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := tea.LogToFile(cfg.LogFile, "zgh")
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return log, func() { _ = f.Close() }, nil
}
