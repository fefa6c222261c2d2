package cmd

import (
	"github.com/findy-network/findy-agent-core/cmds/credential"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var credentialDoc = `Command for the issue credential protocol of the tenant`

// credCmd represents the credential command
var credCmd = &cobra.Command{
	Use:   "credential",
	Short: credentialDoc,
	Long:  credentialDoc,
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var credOfferEnvs = map[string]string{
	"cred-def-id": "CRED_DEF_ID",
	"conn-id":     "CONN_ID",
}

var credOfferCmd = &cobra.Command{
	Use:   "offer",
	Short: "Offers the credential to the connection",
	Long: `
Offers the credential to the connection. The offer is stored first and sent
then. If the sending fails the credential stays offered and the offer waits
in the outbox.

Example
	findy-agent-core credential offer --tenant acme \
		--conn-id 5a5b3d5e-... \
		--cred-def-id Th7MpTaRZVRYnPiabds81Y:3:CL:12:tag \
		--attr email=alice@example.com --attr name=Alice
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(credOfferEnvs, "CREDENTIAL")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		credOfferC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, credOfferC)
	},
}

var credAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accepts the credential offer and sends the request",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		credAcceptC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, credAcceptC)
	},
}

var credIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issues the requested credential",
	Long: `
Issues the requested credential. The tenant must be provisioned. The
attributes are the offered ones if not given.

Example
	findy-agent-core credential issue --tenant acme --id 0e8bd4b4-...
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		credIssueC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, credIssueC)
	},
}

var credRejectCmd = &cobra.Command{
	Use:   "reject",
	Short: "Rejects the credential offer",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		credRejectC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, credRejectC)
	},
}

var credGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Shows the credential",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		credGetC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, credGetC)
	},
}

var credListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the credentials",
	Long: `
Lists the credentials of the tenant. The state filter is one of offered,
requested, issued and rejected.
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		credListC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, credListC)
	},
}

var (
	credOfferC  = credential.OfferCmd{}
	credAcceptC = credential.AcceptCmd{}
	credIssueC  = credential.IssueCmd{}
	credRejectC = credential.RejectCmd{}
	credGetC    = credential.GetCmd{}
	credListC   = credential.ListCmd{}
)

func init() {
	flags := credOfferCmd.Flags()
	flags.StringVar(&credOfferC.CredDefID, "cred-def-id", "", flagInfo("credential definition id", "CREDENTIAL", credOfferEnvs["cred-def-id"]))
	flags.StringVar(&credOfferC.ConnectionID, "conn-id", "", flagInfo("connection id", "CREDENTIAL", credOfferEnvs["conn-id"]))
	flags.StringArrayVar(&credOfferC.Attrs, "attr", nil, "credential attribute name=value")

	credAcceptCmd.Flags().StringVar(&credAcceptC.ID, "id", "", "credential id")
	credIssueCmd.Flags().StringVar(&credIssueC.ID, "id", "", "credential id")
	credIssueCmd.Flags().StringArrayVar(&credIssueC.Attrs, "attr", nil, "credential attribute name=value")
	credRejectCmd.Flags().StringVar(&credRejectC.ID, "id", "", "credential id")
	credGetCmd.Flags().StringVar(&credGetC.ID, "id", "", "credential id")
	credListCmd.Flags().StringVar(&credListC.State, "state", "", "credential state")
	credListCmd.Flags().IntVar(&credListC.Limit, "limit", 0, "max count of the credentials, 0 is the default")

	credCmd.AddCommand(credOfferCmd, credAcceptCmd, credIssueCmd, credRejectCmd, credGetCmd, credListCmd)
	rootCmd.AddCommand(credCmd)
}
