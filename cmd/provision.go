package cmd

import (
	"github.com/findy-network/findy-agent-core/cmds/credential"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var provisionEnvs = map[string]string{
	"seed": "SEED",
}

// provisionCmd represents the provision subcommand
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Creates the issuer DID of the tenant",
	Long: `
Creates the issuer DID of the tenant. The tenant can issue credentials after
it. The DID is created only once.

Example
	findy-agent-core provision --tenant acme \
		--seed 00000000000000000000thisisa_test
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(provisionEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		provisionC.Cmd = try.To1(baseCmd())
		return execCmd(cmd, provisionC)
	},
}

var provisionC = credential.ProvisionCmd{}

func init() {
	provisionCmd.Flags().StringVar(&provisionC.Seed, "seed", "", flagInfo("seed of the issuer DID", provisionCmd.Name(), provisionEnvs["seed"]))

	rootCmd.AddCommand(provisionCmd)
}
