package cli

import (
	"github.com/spf13/cobra"
)

func newInviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invitation commands",
	}

	cmd.AddCommand(newInviteSendCmd())
	cmd.AddCommand(newInviteListCmd())
	cmd.AddCommand(newInviteSentCmd())
	cmd.AddCommand(newInviteAcceptCmd())
	cmd.AddCommand(newInviteDeclineCmd())

	return cmd
}

func newInviteSendCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "send <username>",
		Short: "Invite a player to a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := client.Invite(cmd.Context(), args[0], message)
			return show(cmd, inv, err)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Message for the invitee (up to 300 characters)")

	return cmd
}

func newInviteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invitations you have received",
		RunE: func(cmd *cobra.Command, args []string) error {
			invs, err := client.Invitations(cmd.Context())
			return show(cmd, invs, err)
		},
	}
}

func newInviteSentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sent",
		Short: "List invitations you have sent",
		RunE: func(cmd *cobra.Command, args []string) error {
			invs, err := client.SentInvitations(cmd.Context())
			return show(cmd, invs, err)
		},
	}
}

func newInviteAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept an invitation and start the game (you move first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := client.Accept(cmd.Context(), args[0])
			return show(cmd, game, err)
		},
	}
}

func newInviteDeclineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decline <id>",
		Short: "Decline an invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Decline(cmd.Context(), args[0]); err != nil {
				return err
			}
			output(cmd).PrintMessage("Invitation declined")
			return nil
		},
	}
}
