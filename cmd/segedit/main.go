// Command segedit is a terminal editor for time-aligned transcript
// segments. The root command opens the TUI against a running backend;
// the serve subcommand runs the bundled CSV-backed backend.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"segedit/internal/api"
	"segedit/internal/app"
	"segedit/internal/editor"
	"segedit/internal/server"
)

const defaultServerURL = "http://localhost:8100"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL       string
		immediateDelete bool
	)

	root := &cobra.Command{
		Use:   "segedit",
		Short: "Edit time-aligned transcript segments in the terminal",
		Long: `segedit connects to a segment backend and opens a terminal editor
for reviewing, retiming, and deleting transcript segments chunk by chunk.

Changes are held locally until you save; deletions can be marked and
reviewed before they are sent to the backend.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = os.Getenv("SEGEDIT_SERVER")
			}
			if serverURL == "" {
				serverURL = defaultServerURL
			}

			policy := editor.DeleteDeferred
			if immediateDelete {
				policy = editor.DeleteImmediate
			}

			client := api.New(serverURL)
			m := app.New(client, policy)
			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run editor: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&serverURL, "server", "",
		"backend base URL (default $SEGEDIT_SERVER or "+defaultServerURL+")")
	root.Flags().BoolVar(&immediateDelete, "immediate-delete", false,
		"remove deleted segments from the table right away instead of marking them")

	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		projectDir string
		addr       string
	)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the bundled segment backend over a project directory",
		Long: `serve exposes a project's segments.csv and chunk metadata over HTTP
for the editor to connect to. Every mutation is written back to the CSV
with a timestamped backup, and recorded in an edit journal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectDir == "" {
				projectDir = os.Getenv("SEGEDIT_PROJECTS_DIR")
			}
			if projectDir == "" {
				return fmt.Errorf("no project directory: pass --project-dir or set SEGEDIT_PROJECTS_DIR")
			}
			abs, err := filepath.Abs(projectDir)
			if err != nil {
				return fmt.Errorf("resolve project dir: %w", err)
			}

			svc, err := server.OpenProject(abs)
			if err != nil {
				return err
			}
			journal, err := server.OpenJournal(filepath.Join(abs, "transcriptions", "edits.db"))
			if err != nil {
				return err
			}
			defer journal.Close()

			srv := server.NewServer(svc, journal)
			log.Printf("serving %s on %s", svc.ProjectName(), addr)
			if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	serve.Flags().StringVar(&projectDir, "project-dir", "",
		"project directory containing transcriptions/segments.csv (default $SEGEDIT_PROJECTS_DIR)")
	serve.Flags().StringVar(&addr, "addr", ":8100", "listen address")

	return serve
}
