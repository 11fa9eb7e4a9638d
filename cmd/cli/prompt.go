package cli

import (
	"fmt"
	"time"

	"CivicPortal/internal/service"

	"github.com/spf13/cobra"
)

func NewPromptCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the chat assistant system prompt built from current events",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at 须为 RFC3339: %w", err)
				}
				now = t
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			chat := service.NewChatService(a.store, nil, service.NewPromptTemplate(a.cfg.Prompt), a.loc,
				func() time.Time { return now }, a.logger)
			prompt, err := chat.SystemPrompt(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "reference time (RFC3339), default now")
	return cmd
}
