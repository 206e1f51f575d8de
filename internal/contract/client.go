package contract

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/yildizm/usvote/internal/config"
	"github.com/yildizm/usvote/internal/logger"
)

// Client is a Binding over a live node connection
type Client struct {
	*Binding
	eth     *ethclient.Client
	chainID *big.Int
}

// Dial connects to the configured node and binds the configured contract
func Dial(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("contract")

	eth, err := ethclient.DialContext(ctx, cfg.Network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Network.RPCURL, err)
	}

	chainID, err := resolveChainID(ctx, eth, cfg.Network.ChainID)
	if err != nil {
		eth.Close()
		return nil, err
	}

	auth, err := Transactor(cfg.Wallet, chainID)
	if err != nil {
		eth.Close()
		return nil, err
	}
	if auth == nil {
		log.Warn("no wallet configured, writes are disabled")
	}

	binding, err := New(common.HexToAddress(cfg.Contract.Address), eth, auth, log)
	if err != nil {
		eth.Close()
		return nil, err
	}

	log.InfoWithFields("connected", []logger.Field{
		logger.F("rpc", cfg.Network.RPCURL),
		logger.F("chain_id", chainID),
		logger.F("contract", cfg.Contract.Address),
	})

	return &Client{Binding: binding, eth: eth, chainID: chainID}, nil
}

// ChainID returns the chain id the client signs for
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Close closes the node connection
func (c *Client) Close() {
	c.eth.Close()
}

type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// resolveChainID asks the node for its chain id and checks it against the
// configured one, if any, and against the supported networks.
func resolveChainID(ctx context.Context, node chainIDReader, configured int64) (*big.Int, error) {
	nodeID, err := node.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	if configured != 0 && nodeID.Cmp(big.NewInt(configured)) != 0 {
		return nil, fmt.Errorf("chain id mismatch: configured %d, node reports %s", configured, nodeID)
	}
	if !nodeID.IsInt64() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, nodeID)
	}
	if _, ok := config.LookupChain(nodeID.Int64()); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, nodeID)
	}
	return nodeID, nil
}

// Transactor builds signing options from the wallet configuration. It returns
// nil without error when no key is configured.
func Transactor(wallet config.WalletConfig, chainID *big.Int) (*bind.TransactOpts, error) {
	switch {
	case wallet.PrivateKey != "":
		key, err := ParsePrivateKey(wallet.PrivateKey)
		if err != nil {
			return nil, err
		}
		return bind.NewKeyedTransactorWithChainID(key, chainID)

	case wallet.Keystore != "":
		path := config.ExpandPath(wallet.Keystore)
		// #nosec G304 - keystore path comes from user configuration
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open keystore: %w", err)
		}
		defer f.Close()

		auth, err := bind.NewTransactorWithChainID(f, wallet.Passphrase, chainID)
		if err != nil {
			return nil, fmt.Errorf("failed to unlock keystore: %w", err)
		}
		return auth, nil

	default:
		return nil, nil
	}
}

// ParsePrivateKey parses a hex private key with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
