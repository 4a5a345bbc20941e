package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soymode/jarvis/internal/store"
)

func newConversationsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"convs"},
		Short:   "List recent conversations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(cfg.DBPath, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			convStore := store.NewConversationStore(db)
			convs, err := convStore.ListConversations(limit)
			if err != nil {
				return err
			}
			if len(convs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversations yet.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, conv := range convs {
				count, err := convStore.MessageCount(conv.ID)
				if err != nil {
					return err
				}
				title := conv.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Fprintf(out, "%s  %s  %3d msgs  %s\n",
					conv.ID, conv.UpdatedAt.Local().Format("2006-01-02 15:04"), count, title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum conversations to list")
	return cmd
}
