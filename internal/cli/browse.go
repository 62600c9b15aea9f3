package cli

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/internal/tui"
)

const browseLogFile = "browse.log"

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the storefront interactively",
		Long: "Browse opens the storefront in the terminal with both carousels\n" +
			"auto-advancing, the cart panel, and the wishlist. Log lines go to\n" +
			browseLogFile + " in the data directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logFile, err := openBrowseLog(a.cfg.DataDir)
			if err != nil {
				return sysError("open browse log: %w", err)
			}
			defer logFile.Close()
			a.logger = logging.NewWriter(a.cfg.LogLevel, logFile).Named("storefront")

			loop := schedule.NewLoop(64)
			defer loop.Close()

			views := tui.NewViews()
			deps := views.Deps()
			deps.Scheduler = schedule.New(schedule.RealClock{}, loop)

			s, err := a.openSession(deps)
			if err != nil {
				return err
			}
			defer s.Close()

			model := tui.New(s.page, views, tui.WithLoop(loop))
			prog := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := prog.Run(); err != nil {
				model.Close()
				return sysError("browse: %w", err)
			}
			return nil
		},
	}
}

func openBrowseLog(dataDir string) (*os.File, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dataDir, browseLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
