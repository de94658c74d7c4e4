package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlexZinkM/webthree/internal/common"
)

// Controller owns one wallet session. Every mutation runs on its loop;
// provider calls run on their own goroutines and resume on the loop.
type Controller struct {
	provider     Provider
	notifier     Notifier
	recorder     Recorder
	logger       *slog.Logger
	fetchTimeout time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	loop      *loop
	closeOnce sync.Once

	// loop-confined
	state      Session
	mounted    bool
	generation uint64
	inFlight   int // balance fetches of the current generation
	pending    int // provider calls of any generation not yet resumed
	waiters    []chan struct{}
	accounts   *accountsListener
	chain      *chainListener
}

type accountsListener struct {
	c *Controller
}

func (l *accountsListener) HandleEvent(ev Event) {
	accounts := append([]string(nil), ev.Accounts...)
	l.c.loop.post(func() { l.c.onAccountsChanged(accounts) })
}

type chainListener struct {
	c *Controller
}

func (l *chainListener) HandleEvent(ev Event) {
	l.c.loop.post(func() { l.c.onChainChanged(ev.ChainID) })
}

// NewController creates an unmounted controller. provider may be nil when no
// wallet is available; Connect then reports the provider as absent.
func NewController(provider Provider, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		provider:     provider,
		recorder:     nopRecorder{},
		logger:       slog.Default(),
		fetchTimeout: defaultFetchTimeout,
		ctx:          ctx,
		cancel:       cancel,
		loop:         newLoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = logNotifier{logger: c.logger}
	}
	c.accounts = &accountsListener{c: c}
	c.chain = &chainListener{c: c}
	return c
}

// HasProvider reports whether a wallet provider was supplied
func (c *Controller) HasProvider() bool {
	return c.provider != nil
}

// Mount creates a fresh empty session and subscribes to provider notifications.
// Mounting a mounted controller is a no-op.
func (c *Controller) Mount() {
	c.loop.do(c.mount)
}

// Unmount unsubscribes the listeners registered by Mount and discards the session.
// Results of provider calls still in flight are dropped when they arrive.
func (c *Controller) Unmount() {
	c.loop.do(c.unmount)
}

// Close unmounts and stops the controller. It is safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.loop.do(func() {
			c.unmount()
			c.releaseWaiters()
		})
		c.cancel()
		c.loop.stop()
	})
}

// Reload throws the session away and starts a fresh one, as a chain change does
func (c *Controller) Reload() {
	c.loop.do(c.reload)
}

// Snapshot returns a copy of the session record
func (c *Controller) Snapshot() Session {
	var s Session
	c.loop.do(func() { s = c.state })
	return s
}

// Connect asks the provider for account access and stores the first account.
// Failures are reported once to the user; nothing is retried.
func (c *Controller) Connect(ctx context.Context) error {
	if c.provider == nil {
		if !c.loop.do(func() { c.notifier.Notify(MessageProviderAbsent) }) {
			return ErrClosed
		}
		c.recorder.ConnectAttempt(OutcomeProviderAbsent)
		return ErrProviderAbsent
	}

	var (
		gen   uint64
		alive bool
	)
	if !c.loop.do(func() { gen, alive = c.generation, c.mounted }) {
		return ErrClosed
	}
	if !alive {
		return ErrNotMounted
	}

	accounts, err := c.provider.RequestAccounts(ctx)
	if err == nil && len(accounts) == 0 {
		err = errors.New("provider returned no accounts")
	}

	var result error
	if !c.loop.do(func() {
		if !c.alive(gen) {
			result = ErrNotMounted
			return
		}
		if err != nil {
			c.logger.Error("user denied account access or error connecting", slog.String("error", err.Error()))
			c.notifier.Notify(MessageConnectFailed)
			c.recorder.ConnectAttempt(OutcomeDenied)
			result = fmt.Errorf("%w: %v", ErrAccessDenied, err)
			return
		}
		c.setAccount(accounts[0])
		c.recorder.ConnectAttempt(OutcomeConnected)
	}) {
		return ErrClosed
	}
	return result
}

// FetchBalance refreshes the balance of the connected account. No-op when disconnected.
func (c *Controller) FetchBalance() {
	c.loop.post(func() {
		if c.mounted {
			c.fetchBalance()
		}
	})
}

// FetchNetwork refreshes the chain identifier. No-op without a provider.
func (c *Controller) FetchNetwork() {
	c.loop.post(func() {
		if c.mounted {
			c.fetchNetwork()
		}
	})
}

// Wait blocks until every provider call started before it has resumed on the loop
func (c *Controller) Wait(ctx context.Context) error {
	ch := make(chan struct{})
	if !c.loop.post(func() {
		if c.pending == 0 {
			close(ch)
			return
		}
		c.waiters = append(c.waiters, ch)
	}) {
		return ErrClosed
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) mount() {
	if c.mounted {
		return
	}
	c.mounted = true
	c.generation++
	c.state = Session{ID: uuid.NewString()}
	c.inFlight = 0
	if c.provider != nil {
		c.provider.On(EventAccountsChanged, c.accounts)
		c.provider.On(EventChainChanged, c.chain)
	}
	c.logger.Debug("wallet session mounted", slog.String("session_id", c.state.ID))
}

func (c *Controller) unmount() {
	if !c.mounted {
		return
	}
	if c.provider != nil {
		c.provider.RemoveListener(EventAccountsChanged, c.accounts)
		c.provider.RemoveListener(EventChainChanged, c.chain)
	}
	c.logger.Debug("wallet session unmounted", slog.String("session_id", c.state.ID))
	c.mounted = false
	c.generation++
	c.state = Session{}
	c.inFlight = 0
}

func (c *Controller) reload() {
	if !c.mounted {
		return
	}
	c.logger.Info("chain changed, reloading wallet session", slog.String("session_id", c.state.ID))
	c.recorder.SessionReloaded()
	c.unmount()
	c.mount()
}

func (c *Controller) alive(gen uint64) bool {
	return c.mounted && c.generation == gen
}

// setAccount stores addr and starts both fetches when the account changed to a
// non-empty value. It reports whether the account changed.
func (c *Controller) setAccount(addr string) bool {
	if c.state.Account == addr {
		return false
	}
	if c.state.Account != "" {
		// balance belonged to the previous account
		c.state.Balance = ""
	}
	c.state.Account = addr
	if addr != "" {
		c.fetchBalance()
		c.fetchNetwork()
	}
	return true
}

func (c *Controller) onAccountsChanged(accounts []string) {
	if !c.mounted {
		return
	}
	if len(accounts) == 0 {
		c.logger.Info("wallet disconnected", slog.String("session_id", c.state.ID))
		c.state.Account = ""
		c.state.Balance = ""
		return
	}
	if !c.setAccount(accounts[0]) {
		c.fetchBalance()
		c.fetchNetwork()
	}
}

func (c *Controller) onChainChanged(chainID int64) {
	c.logger.Debug("chain changed notification", slog.Int64("chain_id", chainID))
	c.reload()
}

func (c *Controller) fetchBalance() {
	if c.provider == nil || c.state.Account == "" {
		return
	}
	account, gen := c.state.Account, c.generation
	c.inFlight++
	c.state.Loading = true

	c.call(func(ctx context.Context) func() {
		wei, err := c.provider.GetBalance(ctx, account)
		return func() {
			if !c.alive(gen) {
				return
			}
			c.inFlight--
			c.state.Loading = c.inFlight > 0
			if err != nil {
				c.logger.Error("error fetching balance",
					slog.String("account", account),
					slog.String("error", err.Error()),
				)
				c.recorder.FetchFailed(KindBalance)
				return
			}
			if c.state.Account != account {
				return
			}
			c.state.Balance = common.WeiToEther(wei)
		}
	})
}

func (c *Controller) fetchNetwork() {
	if c.provider == nil {
		return
	}
	gen := c.generation

	c.call(func(ctx context.Context) func() {
		chainID, err := c.provider.GetChainID(ctx)
		return func() {
			if !c.alive(gen) {
				return
			}
			if err != nil {
				c.logger.Error("error fetching network", slog.String("error", err.Error()))
				c.recorder.FetchFailed(KindNetwork)
				return
			}
			c.state.Network = chainID
		}
	})
}

// call runs fn off the loop and posts the continuation it returns back onto the loop.
func (c *Controller) call(fn func(ctx context.Context) func()) {
	c.pending++
	go func() {
		ctx, cancel := context.WithTimeout(c.ctx, c.fetchTimeout)
		resume := fn(ctx)
		cancel()
		c.loop.post(func() {
			resume()
			c.settle()
		})
	}()
}

func (c *Controller) settle() {
	c.pending--
	if c.pending == 0 {
		c.releaseWaiters()
	}
}

func (c *Controller) releaseWaiters() {
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
}
