package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameAllCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

func newGameListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your games",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch status {
			case "all", "active", "finished":
			default:
				return fmt.Errorf("--status must be active, finished or all")
			}
			games, err := client.MyGames(cmd.Context(), status)
			return show(cmd, games, err)
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "Which games to show: active, finished, all")

	return cmd
}

func newGameAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "List every game on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := client.Games(cmd.Context())
			return show(cmd, games, err)
		},
	}
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a game's board and moves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := client.Game(cmd.Context(), args[0])
			return show(cmd, game, err)
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Mark the cell at column x, row y (0-2)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}

			result, err := client.Move(cmd.Context(), args[0], x, y, comment)
			return show(cmd, result, err)
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Comment to attach to the move")

	return cmd
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game you are playing in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DeleteGame(cmd.Context(), args[0]); err != nil {
				return err
			}
			output(cmd).PrintMessage("Game deleted")
			return nil
		},
	}
}
