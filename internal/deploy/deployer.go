package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/AlexZinkM/webthree/internal/common"
	"github.com/AlexZinkM/webthree/internal/model"
)

// Deployer deploys contract artifacts to one network
type Deployer struct {
	backend Backend
	signer  Signer
	network string
	logger  *slog.Logger
}

// NewDeployer creates a deployer for network
func NewDeployer(backend Backend, signer Signer, network string, logger *slog.Logger) *Deployer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deployer{
		backend: backend,
		signer:  signer,
		network: network,
		logger:  logger,
	}
}

// Deploy submits the contract creation and waits until the code is on chain
func (d *Deployer) Deploy(ctx context.Context, a *Artifact, args ...any) (*model.DeployResult, error) {
	deployer := d.signer.Address().Hex()
	d.logger.Info("Deploying contracts with the account: "+deployer,
		slog.String("network", d.network),
		slog.String("contract", a.ContractName),
	)

	chainID, err := d.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}

	tx, err := d.signer.SendDeployment(ctx, a, args...)
	if err != nil {
		return nil, err
	}
	d.logger.Info("deployment transaction submitted",
		slog.String("tx_hash", tx.Hash().Hex()),
		slog.Uint64("gas", tx.Gas()),
		slog.String("gas_price_gwei", common.WeiToGwei(tx.GasPrice())),
	)

	address, err := bind.WaitDeployed(ctx, d.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s deployment: %w", a.ContractName, err)
	}

	receipt, err := d.backend.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, fmt.Errorf("get deployment receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s deployment transaction reverted", a.ContractName)
	}

	d.logger.Info(a.ContractName+" deployed to: "+address.Hex(),
		slog.String("tx_hash", tx.Hash().Hex()),
		slog.Uint64("block", receipt.BlockNumber.Uint64()),
	)

	return &model.DeployResult{
		Contract:    a.ContractName,
		Network:     d.network,
		ChainID:     chainID.Int64(),
		Deployer:    deployer,
		Address:     address.Hex(),
		TxHash:      tx.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		DeployedAt:  time.Now().UTC(),
	}, nil
}
