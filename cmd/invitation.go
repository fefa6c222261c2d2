package cmd

import (
	"github.com/findy-network/findy-agent-core/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var invitationEnvs = map[string]string{
	"url": "URL",
}

// invitationCmd represents the invitation subcommand
var invitationCmd = &cobra.Command{
	Use:   "invitation",
	Short: "Command for creating invitation message for agent",
	Long: `
Command for creating invitation message for agent. The invitation is printed
as JSON or as the c_i URL.

Example
	findy-agent-core invitation \
		--config agent.yaml \
		--tenant acme \
		--url
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(invitationEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		invitateCmd.Cmd = try.To1(baseCmd())
		return execCmd(cmd, invitateCmd)
	},
}

var invitateCmd = connection.InvitationCmd{}

func init() {
	invitationCmd.Flags().BoolVar(&invitateCmd.URL, "url", false, flagInfo("print the invitation URL", invitationCmd.Name(), invitationEnvs["url"]))

	rootCmd.AddCommand(invitationCmd)
}
