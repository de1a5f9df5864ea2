package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Inspect or edit the RoboHelp table of contents",
}

var tocListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the href of every page in the TOC",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := internal.NewTOC(config.TOCFile, config.TOCHrefPrefix).Pages()
		if err != nil {
			return err
		}
		for _, page := range pages {
			fmt.Println(page)
		}
		return nil
	},
}

var tocAddCmd = &cobra.Command{
	Use:     "add [page.htm...]",
	Short:   "Add pages to the TOC unless already listed",
	Example: `  ythelp toc add creer_une_facture.htm`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toc := internal.NewTOC(config.TOCFile, config.TOCHrefPrefix)
		for _, arg := range args {
			name := filepath.Base(arg)
			added, err := toc.Add(name)
			if err != nil {
				return err
			}
			if config.Quiet {
				continue
			}
			if added {
				fmt.Printf("Added %s\n", name)
			} else {
				fmt.Printf("%s is already listed\n", name)
			}
		}
		return nil
	},
}

func init() {
	tocCmd.AddCommand(tocListCmd, tocAddCmd)
	rootCmd.AddCommand(tocCmd)
}
