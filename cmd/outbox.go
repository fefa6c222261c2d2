package cmd

import (
	"github.com/findy-network/findy-agent-core/cmds/outbox"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var outboxDoc = `Command for the messages which weren't delivered`

// outboxCmd represents the outbox command
var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: outboxDoc,
	Long:  outboxDoc,
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var outboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the undelivered messages",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		outboxListC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, outboxListC)
	},
}

var outboxRedeliverCmd = &cobra.Command{
	Use:   "redeliver",
	Short: "Sends the undelivered messages again",
	Long: `
Sends the undelivered message again, or all of them if the id isn't given.
The delivered messages are removed from the outbox.

Example
	findy-agent-core outbox redeliver --tenant acme
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		outboxRedeliverC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, outboxRedeliverC)
	},
}

var outboxDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Removes the message from the outbox",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		outboxDiscardC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, outboxDiscardC)
	},
}

var inboxEnvs = map[string]string{
	"url": "URL",
	"box": "BOX",
}

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Reads the envelopes of the mailbox",
	Long: `
Reads the envelopes of the mailbox from the relay. The read envelopes are
removed from the relay.

Example
	findy-agent-core inbox \
		--url https://agent.example.com/a2a \
		--box Th7MpTaRZVRYnPiabds81Y
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(inboxEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		inboxC.Format = rootFlags.format
		return execCmd(cmd, inboxC)
	},
}

var (
	outboxListC      = outbox.ListCmd{}
	outboxRedeliverC = outbox.RedeliverCmd{}
	outboxDiscardC   = outbox.DiscardCmd{}
	inboxC           = outbox.PullCmd{}
)

func init() {
	outboxListCmd.Flags().StringVar(&outboxListC.RecordID, "record-id", "", "connection or credential id")
	outboxRedeliverCmd.Flags().StringVar(&outboxRedeliverC.ID, "id", "", "message id, empty is all")
	outboxDiscardCmd.Flags().StringVar(&outboxDiscardC.ID, "id", "", "message id")

	inboxCmd.Flags().StringVar(&inboxC.URL, "url", "", flagInfo("mailbox or relay URL", inboxCmd.Name(), inboxEnvs["url"]))
	inboxCmd.Flags().StringVar(&inboxC.Box, "box", "", flagInfo("mailbox name", inboxCmd.Name(), inboxEnvs["box"]))

	outboxCmd.AddCommand(outboxListCmd, outboxRedeliverCmd, outboxDiscardCmd)
	rootCmd.AddCommand(outboxCmd, inboxCmd)
}
