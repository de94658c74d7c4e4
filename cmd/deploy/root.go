package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	helpers "github.com/AlexZinkM/webthree/internal/common"
	"github.com/AlexZinkM/webthree/internal/config"
	"github.com/AlexZinkM/webthree/internal/deploy"
)

var (
	// Version is set at build time.
	Version = "dev"

	networkName  string
	artifactPath string
	contractName string
	lockedAmount string
	networksFile string
	keyFile      string
	timeout      time.Duration
	jsonOut      bool

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a compiled contract to a configured network",
	Long: `deploy publishes a compiled contract artifact (Hardhat or Foundry JSON)
to a named network and passes the locked amount to its constructor.

Networks: localhost (http://127.0.0.1:8545) and sepolia (needs INFURA_PROJECT_ID
and PRIVATE_KEY). More can be declared in a YAML file (--networks-file or NETWORKS_FILE).

Deployer account (first match wins):
  1. the network's first account private key
  2. the encrypted key file (--key-file or DEPLOY_KEY_FILE), password is prompted
  3. the node's first unlocked account`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runDeploy,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("deploy version %s\n", Version)
	},
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("deployment failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&networkName, "network", config.NetworkLocalhost, "network to deploy to")
	flags.StringVar(&artifactPath, "artifact", "artifacts", "artifact file or directory to search")
	flags.StringVar(&contractName, "contract", "Lock", "contract name")
	flags.StringVar(&lockedAmount, "locked-amount", "0.1", "constructor argument in ether")
	flags.StringVar(&networksFile, "networks-file", "", "YAML file with extra networks (or NETWORKS_FILE)")
	flags.StringVar(&keyFile, "key-file", "", "encrypted deployer key file (or DEPLOY_KEY_FILE)")
	flags.DurationVar(&timeout, "timeout", 5*time.Minute, "overall deployment timeout")
	flags.BoolVar(&jsonOut, "json", false, "print the deployment result as JSON")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the environment config; flags win over environment variables
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(); err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.GetLogLevel()}))

	if !cmd.Flags().Changed("networks-file") {
		networksFile = config.GetNetworksFile()
	}
	if !cmd.Flags().Changed("key-file") {
		keyFile = config.GetKeyFilePath()
	}
	return nil
}

func runDeploy(cmd *cobra.Command, args []string) error {
	networks, err := config.LoadNetworks(networksFile)
	if err != nil {
		return err
	}
	network, err := config.ResolveNetwork(networks, networkName, config.Get())
	if err != nil {
		return err
	}

	artifact, err := deploy.FindArtifact(artifactPath, contractName)
	if err != nil {
		return err
	}

	amount, err := helpers.EtherToWei(lockedAmount)
	if err != nil {
		return fmt.Errorf("invalid locked amount: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, network.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id of %s: %w", network.Name, err)
	}
	if network.ChainID != 0 && chainID.Int64() != network.ChainID {
		return fmt.Errorf("network %s expects chain id %d, node reports %s", network.Name, network.ChainID, chainID)
	}

	signer, err := deploy.ResolveSigner(ctx, client, chainID, deploy.SignerSource{
		Network:  network,
		KeyFile:  keyFile,
		Password: promptPassword,
	})
	if err != nil {
		return err
	}

	result, err := deploy.NewDeployer(client, signer, network.Name, logger).Deploy(ctx, artifact, amount)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return nil
}

func promptPassword() ([]byte, error) {
	if err := config.PromptForPassword("Key file password: "); err != nil {
		return nil, err
	}
	defer config.ClearPassword()
	return config.GetKeyPasswordBytes()
}
