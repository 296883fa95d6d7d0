package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type buildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

func newVersionCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
			if strings.ToLower(opts.OutputFormat) == "json" {
				return printJSON(cmd, info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "doclens %s (commit: %s, built: %s)\n",
				info.Version, info.GitCommit, info.BuildDate)
			return nil
		},
	}
}
