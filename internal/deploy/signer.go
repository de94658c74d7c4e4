package deploy

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/AlexZinkM/webthree/internal/config"
	"github.com/AlexZinkM/webthree/internal/crypto"
)

// Backend is what deployments need from a chain: ethclient.Client and the
// simulated backend client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Signer submits contract creation transactions on behalf of one account
type Signer interface {
	Address() common.Address
	SendDeployment(ctx context.Context, a *Artifact, args ...any) (*types.Transaction, error)
}

// KeyedSigner signs locally with a private key
type KeyedSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	backend Backend
	chainID *big.Int
}

// NewKeyedSigner creates a signer for key on the chain chainID
func NewKeyedSigner(key *ecdsa.PrivateKey, backend Backend, chainID *big.Int) *KeyedSigner {
	return &KeyedSigner{
		key:     key,
		address: ethcrypto.PubkeyToAddress(key.PublicKey),
		backend: backend,
		chainID: chainID,
	}
}

// ParsePrivateKey parses a hex private key with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func (s *KeyedSigner) Address() common.Address {
	return s.address
}

func (s *KeyedSigner) SendDeployment(ctx context.Context, a *Artifact, args ...any) (*types.Transaction, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("create transactor: %w", err)
	}
	opts.Context = ctx

	_, tx, _, err := bind.DeployContract(opts, a.ABI, a.Bytecode, s.backend, args...)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", a.ContractName, err)
	}
	return tx, nil
}

// NodeSigner lets the node sign with one of its unlocked accounts
// (eth_sendTransaction), as local development nodes allow.
type NodeSigner struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	address   common.Address
}

// ErrNoNodeAccounts is returned when the node exposes no unlocked account
var ErrNoNodeAccounts = errors.New("node has no unlocked accounts")

// NewNodeSigner uses the first account returned by eth_accounts
func NewNodeSigner(ctx context.Context, rpcClient *rpc.Client) (*NodeSigner, error) {
	var accounts []common.Address
	if err := rpcClient.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("list node accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoNodeAccounts
	}
	return &NodeSigner{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		address:   accounts[0],
	}, nil
}

func (s *NodeSigner) Address() common.Address {
	return s.address
}

func (s *NodeSigner) SendDeployment(ctx context.Context, a *Artifact, args ...any) (*types.Transaction, error) {
	input, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s constructor: %w", a.ContractName, err)
	}
	data := append(append([]byte(nil), a.Bytecode...), input...)

	var hash common.Hash
	err = s.rpcClient.CallContext(ctx, &hash, "eth_sendTransaction", map[string]any{
		"from": s.address,
		"data": hexutil.Bytes(data),
	})
	if err != nil {
		return nil, fmt.Errorf("send %s deployment: %w", a.ContractName, err)
	}

	tx, _, err := s.ethClient.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("get deployment transaction %s: %w", hash.Hex(), err)
	}
	return tx, nil
}

// SignerSource describes where a deployer account can come from
type SignerSource struct {
	// Network accounts, the first one is used
	Network config.Network
	// Encrypted key file, used when the network declares no accounts
	KeyFile string
	// Password returns the key file password; the caller's slice is wiped after use
	Password func() ([]byte, error)
}

// ResolveSigner picks the deployer account: the network's first private key,
// then the encrypted key file, then the node's first unlocked account.
func ResolveSigner(ctx context.Context, client *ethclient.Client, chainID *big.Int, src SignerSource) (Signer, error) {
	if len(src.Network.Accounts) > 0 {
		key, err := ParsePrivateKey(src.Network.Accounts[0])
		if err != nil {
			return nil, fmt.Errorf("network %s account: %w", src.Network.Name, err)
		}
		return NewKeyedSigner(key, client, chainID), nil
	}

	if src.KeyFile != "" {
		key, err := loadKeyFile(src.KeyFile, src.Password)
		if err != nil {
			return nil, err
		}
		return NewKeyedSigner(key, client, chainID), nil
	}

	return NewNodeSigner(ctx, client.Client())
}

func loadKeyFile(path string, password func() ([]byte, error)) (*ecdsa.PrivateKey, error) {
	if password == nil {
		return nil, errors.New("key file password source is not configured")
	}
	pw, err := password()
	if err != nil {
		return nil, err
	}
	defer clear(pw)

	_, keyData, err := crypto.DecryptKey(path, pw)
	if err != nil {
		return nil, fmt.Errorf("open key file %s: %w", path, err)
	}
	defer clear(keyData.PrivateKey)

	key, err := ethcrypto.ToECDSA(keyData.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	return key, nil
}
