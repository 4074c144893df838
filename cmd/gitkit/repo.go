package main

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/obentoo/gitkit/internal/common/config"
	"github.com/obentoo/gitkit/internal/common/git"
	"github.com/obentoo/gitkit/internal/common/logger"
	"github.com/obentoo/gitkit/internal/common/output"
	"github.com/obentoo/gitkit/internal/repository"
	"github.com/spf13/cobra"
)

var (
	// addReplace re-points an existing name
	addReplace bool
	// addRoot registers the root of the enclosing working tree
	addRoot bool
	// cloneName registers the clone under a name other than the directory
	cloneName string
)

var repoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered repositories",
	Args:  cobra.NoArgs,
	Run:   runRepoList,
}

var repoAddCmd = &cobra.Command{
	Use:   "add NAME [PATH]",
	Short: "Register a directory under a name",
	Long: `Register a directory under a name and save it in the config file.
PATH defaults to the current directory.

Examples:
  gitkit repo add app ~/src/app
  gitkit repo add app --root        Register the working tree containing the current directory
  gitkit repo add app /srv/app --replace`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runRepoAdd,
}

var repoCloneCmd = &cobra.Command{
	Use:   "clone URL DEST [-- GIT_ARGS...]",
	Short: "Clone a repository and register it",
	Long: `Clone URL into DEST and register the new working tree under the base
name of DEST, or under --name. Arguments after "--" are passed to git clone.

Examples:
  gitkit repo clone https://github.com/obentoo/gitkit.git gitkit
  gitkit repo clone git@github.com:obentoo/gitkit.git ~/src/gk --name gk -- --depth 1`,
	Args: cobra.MinimumNArgs(2),
	Run:  runRepoClone,
}

var repoStatusCmd = &cobra.Command{
	Use:   "status NAME",
	Short: "Show branch, tag and working tree state",
	Args:  cobra.ExactArgs(1),
	Run:   runRepoStatus,
}

func init() {
	repoAddCmd.Flags().BoolVar(&addReplace, "replace", false, "Replace an existing repository with the same name")
	repoAddCmd.Flags().BoolVar(&addRoot, "root", false, "Register the root of the working tree containing PATH")
	repoCloneCmd.Flags().StringVar(&cloneName, "name", "", "Register the clone under this name")

	repoCmd.AddCommand(repoListCmd, repoAddCmd, repoCloneCmd, repoStatusCmd)
}

func runRepoList(cmd *cobra.Command, args []string) {
	cfg, _ := loadConfig()
	reg := newRegistry(cfg)

	repos := reg.Repositories()
	if len(repos) == 0 {
		output.PrintInfo("no repositories registered")
		return
	}
	for _, repo := range repos {
		fmt.Println(output.FormatRepo(repo.Name, repo.Path))
	}
}

func runRepoAdd(cmd *cobra.Command, args []string) {
	cfg, path := loadConfig()
	reg := newRegistry(cfg)

	name, dir := args[0], "."
	if len(args) > 1 {
		dir = args[1]
	}
	if addRoot {
		root, err := repository.FindRoot(dir)
		if err != nil {
			fatal("%v", err)
		}
		dir = root
	}

	repo, err := reg.AddRepository(name, dir, addReplace)
	if err != nil {
		fatal("%v", err)
	}
	saveRepo(cfg, path, repo)
	output.PrintSuccess("registered %s", output.FormatRepo(repo.Name, repo.Path))
}

func runRepoClone(cmd *cobra.Command, args []string) {
	positional, extra := splitAtDash(args, cmd.ArgsLenAtDash())
	if len(positional) != 2 {
		fatal("expected URL and DEST, got %d arguments", len(positional))
	}

	cfg, path := loadConfig()
	reg := newRegistry(cfg)

	var cloneArgs git.Args
	if len(extra) > 0 {
		cloneArgs = git.Raw(shellquote.Join(extra...))
	}

	repo, err := reg.Clone(cmd.Context(), positional[0], positional[1], cloneArgs, cloneName)
	if err != nil {
		fatal("%v", err)
	}
	saveRepo(cfg, path, repo)
	output.PrintSuccess("cloned %s", output.FormatRepo(repo.Name, repo.Path))
}

func runRepoStatus(cmd *cobra.Command, args []string) {
	cfg, _ := loadConfig()
	repo := mustRepository(newRegistry(cfg), args[0])

	st, err := repo.Status(cmd.Context())
	if err != nil {
		fatal("%v", err)
	}

	fmt.Println(output.FormatRepo(repo.Name, repo.Path))
	if !st.Ready {
		fmt.Printf("  %s\n", output.FormatState("not a repository"))
		return
	}
	fmt.Printf("  branch: %s\n", output.FormatRef(st.Branch, "(detached)"))
	fmt.Printf("  tag:    %s\n", output.FormatRef(st.Tag, "(none)"))
	fmt.Printf("  state:  %s\n", output.FormatDirty(st.Dirty))
}

// saveRepo records repo in the config file at path
func saveRepo(cfg *config.Config, path string, repo *repository.Repo) {
	cfg.Repos[repo.Name] = repo.Path
	if err := cfg.SaveTo(path); err != nil {
		fatal("saving config: %v", err)
	}
	logger.Debug("saved %s to %s", repo.Name, path)
}
