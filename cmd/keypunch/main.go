package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/yuanying/epub2txt/internal/keypunch"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keypunch <file.txt>",
		Short: "Practice typing the paragraphs of a text file",
		Long: `keypunch shows a text file one paragraph at a time and checks what
you type against it. Output of epub2txt is a good source.

Keys: Esc quits, Tab clears the input, Up returns to the previous paragraph,
Down skips to the next one, Right types the next character, Left deletes
a character or steps back into the previous paragraph.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession(args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(keypunch.NewModel(session),
				tea.WithAltScreen(),
				tea.WithOutput(cmd.ErrOrStderr()),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("terminal UI failed: %w", err)
			}
			return nil
		},
	}
}

func loadSession(path string) (*keypunch.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return keypunch.NewSession(path, string(data)), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
