package cmd

import (
	"encoding/json"
	"os"

	"relation-manager/feature/links"

	"github.com/spf13/cobra"
)

var (
	// Flags shared by the links subcommands
	backLinkFlag     bool
	clearOnEmptyFlag bool
)

// linksCmd is the parent command for link operations.
var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Inspect and change the links of a declared relation",
	Long: `Operates on a relation declared in relations.definitions.
Keys are raw identifiers; numeric keys are integers unless the relation stores string keys.

Examples:
  # Show the books of user 1
  links list user_books 1

  # Make user 1 own exactly books 2 and 3
  links set user_books 1 2 3

  # Remove every book of user 1
  links set user_books 1 --clear-on-empty`,
}

var linksListCmd = &cobra.Command{
	Use:   "list <relation> <primary>",
	Short: "List the links of a first side key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := linksService()
		if err != nil {
			return err
		}
		records, err := svc.Links(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

var linksBackCmd = &cobra.Command{
	Use:   "backlinks <relation> <secondary>",
	Short: "List the links of a second side key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := linksService()
		if err != nil {
			return err
		}
		records, err := svc.BackLinks(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

var linksLinkCmd = &cobra.Command{
	Use:   "link <relation> <primary> <secondary>",
	Short: "Link one pair",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := linksService()
		if err != nil {
			return err
		}
		return printResult(svc.Link(cmd.Context(), args[0], args[1], args[2], backLinkFlag))
	},
}

var linksUnlinkCmd = &cobra.Command{
	Use:   "unlink <relation> <primary> <secondary>",
	Short: "Unlink one pair",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := linksService()
		if err != nil {
			return err
		}
		return printResult(svc.Unlink(cmd.Context(), args[0], args[1], args[2], backLinkFlag))
	},
}

var linksSetCmd = &cobra.Command{
	Use:   "set <relation> <primary> [targets...]",
	Short: "Make the links of a key match the given targets",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := linksService()
		if err != nil {
			return err
		}

		req := links.SetRequest{BackLink: backLinkFlag, Targets: make([]any, 0, len(args)-2)}
		for _, target := range args[2:] {
			req.Targets = append(req.Targets, target)
		}
		if cmd.Flags().Changed("clear-on-empty") {
			req.ClearOnEmpty = &clearOnEmptyFlag
		}
		return printResult(svc.Set(cmd.Context(), args[0], args[1], req))
	},
}

var linksClearCmd = &cobra.Command{
	Use:   "clear <relation> <primary>",
	Short: "Remove every link of a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := linksService()
		if err != nil {
			return err
		}
		return printResult(svc.Clear(cmd.Context(), args[0], args[1], backLinkFlag))
	},
}

func init() {
	for _, c := range []*cobra.Command{linksBackCmd, linksListCmd} {
		linksCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{linksLinkCmd, linksUnlinkCmd, linksSetCmd, linksClearCmd} {
		c.Flags().BoolVar(&backLinkFlag, "back-link", false, "Treat the primary key as the second side")
		linksCmd.AddCommand(c)
	}
	linksSetCmd.Flags().BoolVar(&clearOnEmptyFlag, "clear-on-empty", false, "Remove every link when no target is given")

	RootCmd.AddCommand(linksCmd)
}

func linksService() (*links.Service, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	if err := a.connect(); err != nil {
		return nil, err
	}
	return links.NewService(a.registry, a.logger), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(result *links.Result, err error) error {
	if result != nil {
		if perr := printJSON(result); perr != nil {
			return perr
		}
	}
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return result.Err()
}
