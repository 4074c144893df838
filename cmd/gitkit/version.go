package main

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/obentoo/gitkit/internal/common/git"
	"github.com/obentoo/gitkit/internal/common/logger"
	"github.com/obentoo/gitkit/internal/common/version"
	"github.com/obentoo/gitkit/internal/repository"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gitkit and git version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		reg := repository.New(cfg, nil, repository.WithLogger(logger.Default()))

		gitVersion, err := reg.Version(cmd.Context())
		if err != nil {
			logger.Warn("git version unavailable: %v", err)
		}
		fmt.Println(version.Info(gitVersion))
	},
}

var gitHelpCmd = &cobra.Command{
	Use:   "git-help [TOPIC...]",
	Short: "Show git's own help",
	Long: `Run "git help" with the given arguments.

Examples:
  gitkit git-help
  gitkit git-help -a
  gitkit git-help stash`,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		reg := repository.New(cfg, nil, repository.WithLogger(logger.Default()))

		text, err := reg.Help(cmd.Context(), helpArgs(args))
		if text != "" {
			fmt.Println(text)
		}
		if err != nil {
			fatal("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, gitHelpCmd)
}

// helpArgs quotes the topic words for "git help"
func helpArgs(args []string) git.Args {
	if len(args) == 0 {
		return nil
	}
	return git.Raw(shellquote.Join(args...))
}
