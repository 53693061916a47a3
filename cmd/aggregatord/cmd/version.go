package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/client"
)

// Set with -ldflags "-X github.com/GPTx-global/guru-aggregator/cmd/aggregatord/cmd.Version=..."
var (
	Version = "dev"
	Commit  = ""
)

type versionInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go"`
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application binary version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.PrintObject(cmd, versionInfo{
				Name:      app.Name,
				Version:   Version,
				Commit:    Commit,
				GoVersion: runtime.Version(),
			})
		},
	}
}
