// Package wallet tracks a wallet session: the connected account, its balance
// and the active chain, driven by user actions and by notifications pushed
// from an external wallet provider.
package wallet

import (
	"context"
	"math/big"
)

// EventType names a provider notification
type EventType string

const (
	EventAccountsChanged EventType = "accountsChanged"
	EventChainChanged    EventType = "chainChanged"
)

// Event is a provider notification. Accounts is set for accountsChanged,
// ChainID for chainChanged when the provider knows it.
type Event struct {
	Type     EventType
	Accounts []string
	ChainID  int64
}

// Listener receives provider notifications.
// Implementations must be comparable: the value passed to RemoveListener has
// to be the one passed to On.
type Listener interface {
	HandleEvent(ev Event)
}

// Provider is the external wallet agent. All calls may block and may fail.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	GetBalance(ctx context.Context, address string) (*big.Int, error)
	GetChainID(ctx context.Context) (int64, error)

	On(event EventType, l Listener)
	RemoveListener(event EventType, l Listener)
}

// Notifier shows a message to the user
type Notifier interface {
	Notify(message string)
}

// Recorder receives counters about session activity
type Recorder interface {
	ConnectAttempt(outcome string)
	FetchFailed(kind string)
	SessionReloaded()
}

// Connect outcomes reported to Recorder.ConnectAttempt
const (
	OutcomeConnected      = "connected"
	OutcomeProviderAbsent = "provider_absent"
	OutcomeDenied         = "denied"
)

// Fetch kinds reported to Recorder.FetchFailed
const (
	KindBalance = "balance"
	KindNetwork = "network"
)

type nopRecorder struct{}

func (nopRecorder) ConnectAttempt(string) {}
func (nopRecorder) FetchFailed(string)    {}
func (nopRecorder) SessionReloaded()      {}
