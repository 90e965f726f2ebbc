package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room and round commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomConfigCmd())
	cmd.AddCommand(newRoomActionCmd("start <code>", "Start a round (room host only)", "start"))
	cmd.AddCommand(newRoomWordCmd())
	cmd.AddCommand(newRoomEndCmd())
	cmd.AddCommand(newRoomVoteCmd())
	cmd.AddCommand(newRoomActionCmd("reset <code>", "Return to the lobby after a result (room host only)", "reset"))
	cmd.AddCommand(newRoomMeCmd())

	return cmd
}

func printRoom(path string, body any) error {
	var result Room
	if err := client.Post(path, body, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output).Print(&result)
	return nil
}

func newRoomCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room and take a seat in it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoom("/api/v1/rooms", map[string]string{"name": name})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name at the table (default: display name)")
	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(roomPath(args[0]), &Room{})
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Take a seat in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoom(roomPath(args[0], "join"), map[string]string{"name": name})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name at the table (default: display name)")
	return cmd
}

func newRoomConfigCmd() *cobra.Command {
	var hostSelection string
	var timer int

	cmd := &cobra.Command{
		Use:   "config <code>",
		Short: "Change room settings in the lobby (room host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("host-selection") {
				req["host_selection"] = strings.ToUpper(hostSelection)
			}
			if cmd.Flags().Changed("timer") {
				req["timer_minutes"] = timer
			}
			if len(req) == 0 {
				return fmt.Errorf("nothing to change: pass --host-selection and/or --timer")
			}

			var result Room
			if err := client.Patch(roomPath(args[0], "config"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(&result)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostSelection, "host-selection", "", "ROUND_ROBIN, RANDOM or FIXED")
	cmd.Flags().IntVar(&timer, "timer", 0, "Questioning time in minutes")
	return cmd
}

// newRoomActionCmd builds a command that posts an empty body to a room action
func newRoomActionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoom(roomPath(args[0], action), nil)
		},
	}
}

func newRoomWordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "word <code> <word>",
		Short: "Set the secret word (in-game host only)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			word := strings.Join(args[1:], " ")
			return printRoom(roomPath(args[0], "word"), map[string]string{"word": word})
		},
	}
}

func newRoomEndCmd() *cobra.Command {
	var timedOut bool

	cmd := &cobra.Command{
		Use:   "end <code>",
		Short: "End questioning (in-game host only)",
		Long: `End the questioning phase. By default the word was guessed and voting opens.
With --timeout nobody guessed it and the round ends without points.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoom(roomPath(args[0], "end-questioning"), map[string]bool{"timed_out": timedOut})
		},
	}

	cmd.Flags().BoolVar(&timedOut, "timeout", false, "The timer ran out before anyone guessed the word")
	return cmd
}

func newRoomVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <code> <player-id>",
		Short: "Name the player you suspect is the insider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoom(roomPath(args[0], "votes"), map[string]string{"target_id": args[1]})
		},
	}
}

func newRoomMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me <code>",
		Short: "Show your private role and, if you may know it, the word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(roomPath(args[0], "me"), &PrivateView{})
		},
	}
}
