package main

import (
	"fmt"

	"github.com/obentoo/gitkit/internal/common/output"
	"github.com/obentoo/gitkit/internal/repository"
	"github.com/spf13/cobra"
)

var (
	// submodulesSearch filters submodules by name or path
	submodulesSearch string
	// submodulesRefresh rescans instead of using a previous scan
	submodulesRefresh bool
)

var submodulesCmd = &cobra.Command{
	Use:   "submodules NAME",
	Short: "List the submodules of a registered repository",
	Long: `List the checked-out submodules of the repository registered as NAME
with their branch, tag and working tree state.

Examples:
  gitkit submodules app
  gitkit submodules app --search vendor
  gitkit submodules app --refresh`,
	Args: cobra.ExactArgs(1),
	Run:  runSubmodules,
}

func init() {
	submodulesCmd.Flags().StringVar(&submodulesSearch, "search", "", "Only show submodules whose name or path contains this text")
	submodulesCmd.Flags().BoolVar(&submodulesRefresh, "refresh", false, "Rescan instead of using the scan cache")
	rootCmd.AddCommand(submodulesCmd)
}

func runSubmodules(cmd *cobra.Command, args []string) {
	cfg, _ := loadConfig()
	repo := mustRepository(newRegistry(cfg), args[0])
	ctx := cmd.Context()

	if submodulesRefresh {
		if _, err := repo.BuildSubmodules(ctx); err != nil {
			fatal("%v", err)
		}
	}

	children, err := repo.SearchSubmodules(ctx, submodulesSearch)
	if err != nil {
		fatal("%v", err)
	}
	if len(children) == 0 {
		output.PrintInfo("no submodules found")
		return
	}

	output.Header.Printf("%s: %d submodules\n", repo.Name, len(children))
	for _, child := range children {
		fmt.Println(formatSubmodule(child))
	}
}

func formatSubmodule(child *repository.Repo) string {
	line := output.FormatRepo(child.Name, child.Path)
	if scan := child.Scan; scan != nil {
		line += fmt.Sprintf(" %s %s %s",
			output.FormatRef(scan.Branch, "(detached)"),
			output.FormatRef(scan.Tag, "(no tag)"),
			output.FormatDirty(scan.Dirty))
	}
	return line
}
