package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type zedTask struct {
	Label               string            `json:"label"`
	Command             string            `json:"command"`
	Args                []string          `json:"args,omitempty"`
	Env                 map[string]string `json:"env,omitempty"`
	Cwd                 string            `json:"cwd,omitempty"`
	UseNewTerminal      bool              `json:"use_new_terminal,omitempty"`
	AllowConcurrentRuns bool              `json:"allow_concurrent_runs,omitempty"`
	Reveal              string            `json:"reveal,omitempty"`
	Hide                string            `json:"hide,omitempty"`
	Shell               string            `json:"shell,omitempty"`
	ShowSummary         bool              `json:"show_summary,omitempty"`
	ShowCommand         bool              `json:"show_command,omitempty"`
}

const zedLabelPrefix = "zgh:"

func buildZedCmd() *cobra.Command {
	zedCmd := &cobra.Command{
		Use:   "zed",
		Short: "Manage Zed IDE integration",
		Long: `Manage global Zed tasks for zgh.

Examples:
  zgh zed status
  zgh zed install
  zgh zed uninstall`,
	}

	zedCmd.AddCommand(buildZedInstallCmd())
	zedCmd.AddCommand(buildZedUninstallCmd())
	zedCmd.AddCommand(buildZedStatusCmd())

	return zedCmd
}

func buildZedInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install global Zed tasks for zgh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, err := zedTasksPath()
			if err != nil {
				return err
			}
			existing, err := readZedTasks(tasksPath)
			if err != nil {
				return err
			}
			if err := writeZedTasks(tasksPath, mergeZedTasks(existing, defaultZedTasks())); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed zgh Zed integration at %s\n", tasksPath)
			fmt.Fprintln(out, "Open Zed and run: task: spawn -> zgh:*")
			return nil
		},
	}
}

func buildZedUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove global Zed tasks managed by zgh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, err := zedTasksPath()
			if err != nil {
				return err
			}
			existing, err := readZedTasks(tasksPath)
			if err != nil {
				return err
			}
			if err := writeZedTasks(tasksPath, removeManagedZedTasks(existing)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed zgh Zed integration from %s\n", tasksPath)
			return nil
		},
	}
}

func buildZedStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show global Zed integration status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, err := zedTasksPath()
			if err != nil {
				return err
			}
			existing, err := readZedTasks(tasksPath)
			if err != nil {
				return err
			}

			var labels []string
			for _, t := range existing {
				if strings.HasPrefix(t.Label, zedLabelPrefix) {
					labels = append(labels, t.Label)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zed tasks file: %s\n", tasksPath)
			if len(labels) == 0 {
				fmt.Fprintln(out, "zgh integration: not installed")
				return nil
			}
			fmt.Fprintf(out, "zgh integration: installed (%d task(s))\n", len(labels))
			for _, label := range labels {
				fmt.Fprintf(out, "  - %s\n", label)
			}
			return nil
		},
	}
}

func zedTasksPath() (string, error) {
	dir, err := zedConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tasks.json"), nil
}

func zedConfigDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv("ZGH_ZED_CONFIG_DIR")); override != "" {
		return override, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "zed"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home dir: %w", err)
	}
	return filepath.Join(home, ".config", "zed"), nil
}

func readZedTasks(path string) ([]zedTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read zed tasks file %s: %w", path, err)
	}

	var tasks []zedTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse zed tasks file %s: %w", path, err)
	}
	return tasks, nil
}

func writeZedTasks(path string, tasks []zedTask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create zed config dir: %w", err)
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize zed tasks: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write zed tasks file %s: %w", path, err)
	}
	return nil
}

func mergeZedTasks(existing, managed []zedTask) []zedTask {
	return append(removeManagedZedTasks(existing), managed...)
}

func removeManagedZedTasks(tasks []zedTask) []zedTask {
	out := make([]zedTask, 0, len(tasks))
	for _, t := range tasks {
		if strings.HasPrefix(t.Label, zedLabelPrefix) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// newZedTask launches zgh in a fresh terminal at the worktree root.
func newZedTask(label string, args ...string) zedTask {
	return zedTask{
		Label:          label,
		Command:        "zgh",
		Args:           append([]string{"--path", "$ZED_WORKTREE_ROOT"}, args...),
		Cwd:            "$ZED_WORKTREE_ROOT",
		UseNewTerminal: true,
		Reveal:         "always",
		Hide:           "on_success",
		Shell:          "system",
		ShowSummary:    false,
		ShowCommand:    false,
	}
}

func defaultZedTasks() []zedTask {
	return []zedTask{
		newZedTask("zgh: browse history"),
		newZedTask("zgh: file history", "--file", "$ZED_RELATIVE_FILE", "--line", "$ZED_ROW"),
		newZedTask("zgh: blame file", "--file", "$ZED_RELATIVE_FILE", "--line", "$ZED_ROW", "--blame"),
	}
}
