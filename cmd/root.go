package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-agent-core/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FCLI"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: utils.Version,
	Use:     "findy-agent-core",
	Short:   "Findy agent core cli tool",
	Long: `
Findy agent core cli tool. Connects the tenant agents with the invitations,
issues credentials over the connections and runs the relay endpoint of the
agents.

The tenants and the record store are configured in the config file, e.g.

	wallet-dir: /var/lib/agent
	label: issuer
	endpoint: https://agent.example.com/a2a
	store:
	  backend: bolt
	tenants:
	  acme:
	    wallet:
	      id: acme
	      key: 6cih1cVgRH8yHD54nEYyPKLmdv67o8QbufxaTHot3Qxp
	`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmds.ParseLoggingArgs(rootFlags.logging)
		handleViperFlags(cmd)
	},
}

// Execute root
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns a current root command which can be used for adding own
// commands in an own repo.
func RootCmd() *cobra.Command {
	return rootCmd
}

// DryRun returns a value of a dry run flag.
func DryRun() bool {
	return rootFlags.dryRun
}

// RootFlags are the common flags
type RootFlags struct {
	cfgFile string
	dryRun  bool
	logging string

	tenant     string
	format     string
	walletName string
	walletKey  string
}

var rootFlags = RootFlags{}

var rootEnvs = map[string]string{
	"config":      "CONFIG",
	"logging":     "LOGGING",
	"dry-run":     "DRY_RUN",
	"tenant":      "TENANT",
	"format":      "FORMAT",
	"wallet-name": "WALLET_NAME",
	"wallet-key":  "WALLET_KEY",

	"wallet-dir":           "WALLET_DIR",
	"label":                "LABEL",
	"endpoint":             "ENDPOINT",
	"timeout":              "TIMEOUT",
	"store.backend":        "STORE",
	"store.path":           "STORE_PATH",
	"store.redis-addr":     "REDIS_ADDR",
	"store.redis-password": "REDIS_PASSWORD",
	"store.redis-db":       "REDIS_DB",
}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.cfgFile, "config", "", flagInfo("configuration file", "", rootEnvs["config"]))
	flags.StringVar(&rootFlags.logging, "logging", "-logtostderr=true -v=2", flagInfo("logging startup arguments", "", rootEnvs["logging"]))
	flags.BoolVarP(&rootFlags.dryRun, "dry-run", "n", false, flagInfo("perform a trial run with no changes made", "", rootEnvs["dry-run"]))
	flags.StringVarP(&rootFlags.tenant, "tenant", "t", "", flagInfo("tenant ID, empty is the default tenant", "", rootEnvs["tenant"]))
	flags.StringVarP(&rootFlags.format, "format", "f", cmds.FormatJSON, flagInfo("output format: json|yaml", "", rootEnvs["format"]))
	flags.StringVar(&rootFlags.walletName, "wallet-name", "", flagInfo("wallet of the tenant given by the flags", "", rootEnvs["wallet-name"]))
	flags.StringVar(&rootFlags.walletKey, "wallet-key", "", flagInfo("wallet key of the tenant given by the flags", "", rootEnvs["wallet-key"]))

	flags.String("wallet-dir", "", flagInfo("directory of the wallets and the bolt store", "", rootEnvs["wallet-dir"]))
	flags.String("label", "", flagInfo("label of our invitations", "", rootEnvs["label"]))
	flags.String("endpoint", "", flagInfo("base address of our mailboxes", "", rootEnvs["endpoint"]))
	flags.Duration("timeout", 0, flagInfo("timeout of the network operations", "", rootEnvs["timeout"]))
	flags.String("store", cmds.BackendBolt, flagInfo("record store: memory|bolt|redis", "", rootEnvs["store.backend"]))
	flags.String("store-path", "", flagInfo("bolt file of the records", "", rootEnvs["store.path"]))
	flags.String("redis-addr", "", flagInfo("redis address", "", rootEnvs["store.redis-addr"]))
	flags.String("redis-password", "", flagInfo("redis password", "", rootEnvs["store.redis-password"]))
	flags.Int("redis-db", 0, flagInfo("redis database", "", rootEnvs["store.redis-db"]))

	try.To(viper.BindPFlag("logging", flags.Lookup("logging")))
	try.To(viper.BindPFlag("dry-run", flags.Lookup("dry-run")))
	try.To(viper.BindPFlag("tenant", flags.Lookup("tenant")))
	try.To(viper.BindPFlag("format", flags.Lookup("format")))
	try.To(viper.BindPFlag("wallet-name", flags.Lookup("wallet-name")))
	try.To(viper.BindPFlag("wallet-key", flags.Lookup("wallet-key")))
	try.To(viper.BindPFlag("wallet-dir", flags.Lookup("wallet-dir")))
	try.To(viper.BindPFlag("label", flags.Lookup("label")))
	try.To(viper.BindPFlag("endpoint", flags.Lookup("endpoint")))
	try.To(viper.BindPFlag("timeout", flags.Lookup("timeout")))
	try.To(viper.BindPFlag("store.backend", flags.Lookup("store")))
	try.To(viper.BindPFlag("store.path", flags.Lookup("store-path")))
	try.To(viper.BindPFlag("store.redis-addr", flags.Lookup("redis-addr")))
	try.To(viper.BindPFlag("store.redis-password", flags.Lookup("redis-password")))
	try.To(viper.BindPFlag("store.redis-db", flags.Lookup("redis-db")))

	try.To(BindEnvs(rootEnvs, ""))
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	readConfigFile()
	readBoundRootFlags()
}

func readBoundRootFlags() {
	rootFlags.logging = viper.GetString("logging")
	rootFlags.dryRun = viper.GetBool("dry-run")
	rootFlags.tenant = viper.GetString("tenant")
	rootFlags.format = viper.GetString("format")
	rootFlags.walletName = viper.GetString("wallet-name")
	rootFlags.walletKey = viper.GetString("wallet-key")
}

func readConfigFile() {
	cfgEnv := os.Getenv(getEnvName("", "config"))
	if rootFlags.cfgFile != "" || cfgEnv != "" {
		printInfo := true
		if rootFlags.cfgFile == "" {
			rootFlags.cfgFile = cfgEnv
			printInfo = false
		}
		viper.SetConfigFile(rootFlags.cfgFile)
		// If a config file is found, read it in.
		if err := viper.ReadInConfig(); err == nil && printInfo {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// agentConfig reads the agent configuration from viper. The wallet flags
// add the tenant of the tenant flag.
func agentConfig() (cfg cmds.Config, err error) {
	defer err2.Handle(&err, "agent config")

	try.To(viper.Unmarshal(&cfg))
	if rootFlags.walletName != "" || rootFlags.walletKey != "" {
		if cfg.Tenants == nil {
			cfg.Tenants = make(actx.StaticTenants)
		}
		cfg.Tenants[rootFlags.tenant] = actx.TenantConfig{
			Wallet: *ssi.NewRawWalletCfg(rootFlags.walletName, rootFlags.walletKey),
		}
	}
	return cfg, nil
}

// baseCmd returns the base of the agent commands.
func baseCmd() (c cmds.Cmd, err error) {
	defer err2.Handle(&err)

	return cmds.Cmd{
		Config: try.To1(agentConfig()),
		Tenant: rootFlags.tenant,
		Format: rootFlags.format,
	}, nil
}

// execCmd validates the command and runs it if it isn't a dry run.
func execCmd(cmd *cobra.Command, c cmds.Command) (err error) {
	defer err2.Handle(&err)

	try.To(c.Validate())
	if !rootFlags.dryRun {
		cmd.SilenceUsage = true
		try.To1(c.Exec(os.Stdout))
	}
	return nil
}

// BindEnvs calls viper.BindEnv with envMap and cmdName which can be empty if
// flag is general.
func BindEnvs(envMap map[string]string, cmdName string) (err error) {
	defer err2.Handle(&err)

	for flagKey, envName := range envMap {
		finalEnvName := getEnvName(cmdName, envName)
		try.To(viper.BindEnv(flagKey, finalEnvName))
	}
	return nil
}

func flagInfo(info, cmdPrefix, envName string) string {
	return info + ", " + getEnvName(cmdPrefix, envName)
}

func getEnvName(cmdName, envName string) string {
	if cmdName == "" {
		return envPrefix + "_" + strings.ToUpper(envName)
	}
	return envPrefix + "_" + strings.ToUpper(cmdName) + "_" + envName
}

func handleViperFlags(cmd *cobra.Command) {
	setRequiredStringFlags(cmd)
	if cmd.HasParent() {
		handleViperFlags(cmd.Parent())
	}
}

func setRequiredStringFlags(cmd *cobra.Command) {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	try.To(viper.BindPFlags(cmd.LocalNonPersistentFlags()))
	if cmd.PreRunE != nil {
		try.To(cmd.PreRunE(cmd, nil))
	}
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() == "stringArray" || f.Value.Type() == "stringSlice" {
			return
		}
		if viper.GetString(f.Name) != "" {
			try.To(cmd.LocalNonPersistentFlags().Set(f.Name, viper.GetString(f.Name)))
		}
	})
}

// SubCmdNeeded prints the help and error messages because the cmd is abstract.
func SubCmdNeeded(cmd *cobra.Command) {
	fmt.Println("Subcommand needed!")
	_ = cmd.Help()
	os.Exit(1)
}
