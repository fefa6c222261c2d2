package cmd

import (
	"github.com/findy-network/findy-agent-core/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var connectionDoc = `Command for managing the connections of the tenant`

// connCmd represents the connection command
var connCmd = &cobra.Command{
	Use:   "connection",
	Short: connectionDoc,
	Long:  connectionDoc,
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var connListEnvs = map[string]string{
	"state": "STATE",
	"limit": "LIMIT",
}

var connListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the connections",
	Long: `
Lists the connections of the tenant. The state filter is one of invited,
negotiating and connected.

Example
	findy-agent-core connection list --tenant acme --state negotiating
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(connListEnvs, "CONNECTION")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		connListC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, connListC)
	},
}

var connGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Shows the connection",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		connGetC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, connGetC)
	},
}

var (
	connListC = connection.ListCmd{}
	connGetC  = connection.GetCmd{}
)

func init() {
	connListCmd.Flags().StringVar(&connListC.State, "state", "", flagInfo("connection state", "CONNECTION", connListEnvs["state"]))
	connListCmd.Flags().IntVar(&connListC.Limit, "limit", 0, flagInfo("max count of the connections, 0 is the default", "CONNECTION", connListEnvs["limit"]))
	connGetCmd.Flags().StringVar(&connGetC.ID, "id", "", "connection id")

	connCmd.AddCommand(connListCmd, connGetCmd)
	rootCmd.AddCommand(connCmd)
}
