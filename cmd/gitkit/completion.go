package main

import (
	"os"
	"sort"
	"strings"

	"github.com/obentoo/gitkit/internal/common/config"
	"github.com/obentoo/gitkit/internal/common/git"
	"github.com/obentoo/gitkit/internal/repository"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for gitkit.

Bash:
  $ source <(gitkit completion bash)

Zsh:
  $ gitkit completion zsh > "${fpath[1]}/_gitkit"

Fish:
  $ gitkit completion fish > ~/.config/fish/completions/gitkit.fish

PowerShell:
  PS> gitkit completion powershell | Out-String | Invoke-Expression

Repository names and command families are completed from the config file.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)

	repoStatusCmd.ValidArgsFunction = completeRepoNames
	submodulesCmd.ValidArgsFunction = completeRepoNames
	runCmd.ValidArgsFunction = completeRun
}

// completionConfig loads the config without creating or failing
func completionConfig() *config.Config {
	path := configPath
	if path == "" {
		found, err := config.FindConfigPath()
		if err != nil {
			return nil
		}
		path = found
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil
	}
	return cfg
}

func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg := completionConfig()
	if cfg == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return filterPrefix(cfg.RepoNames(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeRun completes NAME, then FAMILY from the allow-list, then SUBCOMMAND
func completeRun(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := completionConfig()
	if cfg == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	switch len(args) {
	case 0:
		return filterPrefix(cfg.RepoNames(), toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		seen := make(map[string]bool)
		var families []string
		for _, op := range repository.Operations() {
			seen[string(op)] = true
			families = append(families, string(op))
		}
		for family := range cfg.Commands {
			if !seen[family] {
				families = append(families, family)
			}
		}
		sort.Strings(families)
		return filterPrefix(families, toComplete), cobra.ShellCompDirectiveNoFileComp
	case 2:
		command := cfg.Command(git.Family(args[1]))
		allowed := git.ExpandSubcommands(command.Subcommands, command.Prefixes)
		return filterPrefix(allowed, toComplete), cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveDefault
	}
}

func filterPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}
