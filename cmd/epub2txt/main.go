package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/yuanying/epub2txt/internal/converter"
)

// ArgumentError reports a command line that cannot be run.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epub2txt <input.epub> <output.txt>",
		Short: "Extract the text of an EPUB file",
		Long: `epub2txt extracts the readable text of an EPUB ebook into a plain
text file.

Content documents are written in reading order, each preceded by a blank
line, with one line per top-level element of the document body.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return &ArgumentError{Msg: fmt.Sprintf("expected 2 arguments, got %d", len(args))}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}

			opts.Logger.Info("converting", "input", opts.InputPath, "output", opts.OutputPath)
			res, err := converter.NewPipeline(opts).Convert(cmd.Context())
			if err != nil {
				return err
			}
			if res.Skipped > 0 {
				opts.Logger.Warn("some content documents were skipped", "skipped", res.Skipped)
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ArgumentError{Msg: err.Error()}
	})
	registerFlags(cmd)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, newRootCmd(), os.Args[1:]))
}

// run executes cmd and maps its outcome to a process exit code.
func run(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s", argErr, cmd.UsageString())
		return 1
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	return 1
}
