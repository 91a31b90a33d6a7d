// Command gorelay translates Indonesian text into English, Chinese, Japanese
// and Korean through OpenAI and Gemini.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gorelay"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   gorelay.Name,
		Short: gorelay.Description,
		Long: `gorelay translates Indonesian text into English, Chinese, Japanese and
Korean. Every language is sent to the preferred provider first and falls back
to the other provider when that call fails.

Commands:
  serve      Run the HTTP translation service
  translate  Translate text once and print a report
  version    Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newServeCmd(),
		newTranslateCmd(),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", gorelay.Name, gorelay.FullVersion())
			if gorelay.GitCommit != "unknown" && gorelay.GitCommit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", gorelay.GitCommit)
			}
			if gorelay.BuildDate != "unknown" && gorelay.BuildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", gorelay.BuildDate)
			}
		},
	}
}
