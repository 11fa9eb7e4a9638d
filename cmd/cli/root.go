package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version string
	Commit  string
}

// 全局参数
var (
	configDir string
	logLevel  string
)

func NewRootCommand(info VersionInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "civicportal",
		Short:         "市民情報ポータル backend",
		Long:          "Municipal information portal: notice calendar, chat assistant, presentations and admin tools.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&configDir, "config", "./config", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)
	return cmd
}
