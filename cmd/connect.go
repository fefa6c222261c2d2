package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/findy-network/findy-agent-core/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

// connectCmd represents the connect subcommand
var connectCmd = &cobra.Command{
	Use:   "connect [invitation|file|-]",
	Short: "Command for accepting the invitation of the other agent",
	Long: `
Command for accepting the invitation of the other agent. The connection
request is sent to the inviter's endpoint. If the sending fails the
connection stays negotiating and the request waits in the outbox.

The invitation is the c_i URL, the invitation JSON, a file of them, or -
for the standard input.

Example
	findy-agent-core connect --tenant acme \
		'https://agent.example.com/a2a?c_i=eyJAdHlwZSI6...'

	findy-agent-core connect --tenant acme invitation.json
	`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		connectionCmd.Invitation = try.To1(readInvitation(args[0]))
		connectionCmd.Cmd = try.To1(baseCmd())
		return execCmd(cmd, connectionCmd)
	},
}

// readInvitation returns the invitation of the argument which is the
// invitation itself, the file of it or - for stdin.
func readInvitation(arg string) (_ string, err error) {
	defer err2.Handle(&err)

	switch {
	case arg == "-":
		return strings.TrimSpace(string(try.To1(io.ReadAll(os.Stdin)))), nil
	case strings.HasPrefix(arg, "{") || strings.Contains(arg, "://"):
		return arg, nil
	}
	return strings.TrimSpace(string(try.To1(os.ReadFile(arg)))), nil
}

var connectionCmd = connection.ConnectCmd{}

func init() {
	rootCmd.AddCommand(connectCmd)
}
