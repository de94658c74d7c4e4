package model

import "time"

// DeployResult describes a deployed contract
type DeployResult struct {
	Contract    string    `json:"contract"`
	Network     string    `json:"network"`
	ChainID     int64     `json:"chainId"`
	Deployer    string    `json:"deployer"`
	Address     string    `json:"address"`
	TxHash      string    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber,omitempty"`
	DeployedAt  time.Time `json:"deployedAt"`
}
