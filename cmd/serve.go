package cmd

import (
	"time"

	"github.com/findy-network/findy-agent-core/cmds/agency"
	"github.com/findy-network/findy-agent-core/server"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var serveEnvs = map[string]string{
	"port":               "PORT",
	"host-addr":          "HOST_ADDR",
	"service-name":       "SERVICE_NAME",
	"version-info":       "VERSION_INFO",
	"redeliver-interval": "REDELIVER_INTERVAL",
}

// serveCmd represents the serve subcommand
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the relay endpoint of the agents",
	Long: `
Runs the relay endpoint of the agents. The other agents send the envelopes
to the mailboxes of the endpoint, and the undelivered messages of the
configured tenants are sent again periodically. The metrics are served from
/metrics.

Example
	findy-agent-core serve --config agent.yaml \
		--port 8080 \
		--host-addr https://agent.example.com \
		--redeliver-interval 1m
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(serveEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		serveC.Config = try.To1(agentConfig())
		try.To(serveC.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(serveC.Exec(cmd.OutOrStdout()))
		}
		return nil
	},
}

var serveC = agency.Cmd{}

func init() {
	flags := serveCmd.Flags()
	flags.UintVar(&serveC.Port, "port", 8080, flagInfo("server port", serveCmd.Name(), serveEnvs["port"]))
	flags.StringVar(&serveC.HostAddr, "host-addr", "", flagInfo("public address of the server", serveCmd.Name(), serveEnvs["host-addr"]))
	flags.StringVar(&serveC.ServiceName, "service-name", server.DefaultServiceName, flagInfo("URL path of the mailboxes", serveCmd.Name(), serveEnvs["service-name"]))
	flags.StringVar(&serveC.VersionInfo, "version-info", "", flagInfo("version info of /version", serveCmd.Name(), serveEnvs["version-info"]))
	flags.DurationVar(&serveC.RedeliverInterval, "redeliver-interval", time.Minute, flagInfo("outbox redeliver interval, 0 is off", serveCmd.Name(), serveEnvs["redeliver-interval"]))

	rootCmd.AddCommand(serveCmd)
}
