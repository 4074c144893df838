package main

import (
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/obentoo/gitkit/internal/common/git"
	"github.com/spf13/cobra"
)

// runShape selects how the outcome is printed
var runShape string

var runCmd = &cobra.Command{
	Use:   "run NAME FAMILY [SUBCOMMAND] [-- ARGS...]",
	Short: "Run a git command in a registered repository",
	Long: `Run "git FAMILY [SUBCOMMAND] ARGS" in the repository registered as NAME.
SUBCOMMAND must be allowed for FAMILY by the configured command list.

The --as flag selects what is printed:
  raw       stdout and stderr as captured (default)
  success   "true" or "false"
  failed    "true" or "false"
  output    stdout without surrounding whitespace
  combined  stdout followed by stderr

Examples:
  gitkit run app log -- --oneline -n 5
  gitkit run app stash list --as output
  gitkit run app submodule "--quiet status"`,
	Args: cobra.MinimumNArgs(2),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runShape, "as", "raw", "Result shape: raw, success, failed, output or combined")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	positional, extra := splitAtDash(args, cmd.ArgsLenAtDash())
	if len(positional) < 2 || len(positional) > 3 {
		fatal("expected NAME FAMILY [SUBCOMMAND], got %d arguments", len(positional))
	}

	shape, ok := git.ParseShape(runShape)
	if !ok {
		fatal("unknown result shape %q", runShape)
	}

	cfg, _ := loadConfig()
	repo := mustRepository(newRegistry(cfg), positional[0])

	var subcommand string
	if len(positional) == 3 {
		subcommand = positional[2]
	}

	outcome, err := repo.Invoke(cmd.Context(), positional[1], subcommand, git.Raw(shellquote.Join(extra...)))
	if err != nil {
		fatal("%v", err)
	}

	printOutcome(outcome, shape)
	if shape == git.ShapeRaw && outcome.Failed() {
		code := outcome.ExitCode
		if code <= 0 {
			code = 1
		}
		os.Exit(code)
	}
}

func printOutcome(outcome *git.Outcome, shape git.Shape) {
	switch v := git.Project(outcome, shape).(type) {
	case *git.Outcome:
		fmt.Fprint(os.Stdout, v.Stdout)
		fmt.Fprint(os.Stderr, v.Stderr)
	case bool:
		fmt.Println(v)
	case string:
		if v != "" {
			fmt.Println(v)
		}
	}
}
