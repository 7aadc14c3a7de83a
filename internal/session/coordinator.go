// Package session coordinates asynchronous identity resolution, the first
// data fetch, and change-feed health so a dashboard client always reaches a
// deterministic ready state within a bounded budget.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
)

// RejectReason distinguishes the gate outcomes that must surface distinct
// messages.
type RejectReason string

const (
	RejectNone            RejectReason = ""
	RejectFarmer          RejectReason = "farmer accounts do not have dashboard access"
	RejectPendingApproval RejectReason = "account pending approval"
	RejectRegistration    RejectReason = "account registration rejected"
)

// Revalidator is the slice of the subscription manager the coordinator
// needs on foreground events.
type Revalidator interface {
	Revalidate()
}

type Config struct {
	// SessionBudget bounds identity resolution; sessionReady is set when
	// resolution settles or the budget expires, whichever comes first.
	SessionBudget time.Duration
	// DataBudget bounds the first data fetch the same way.
	DataBudget time.Duration
}

// Coordinator races each upstream call against its budget. A timeout adopts
// empty/partial state; the late result, if it arrives, is discarded. Each
// ready flag flips exactly once.
type Coordinator struct {
	cfg Config

	sessionFn func(ctx context.Context) (*models.Profile, error)
	dataFn    func(ctx context.Context) error
	feed      Revalidator

	mu           sync.Mutex
	profile      *models.Profile
	sessionReady bool
	dataReady    bool
	reject       RejectReason
	refreshing   bool

	sessionOnce sync.Once
	dataOnce    sync.Once
	done        chan struct{}
}

func NewCoordinator(cfg Config, sessionFn func(ctx context.Context) (*models.Profile, error), dataFn func(ctx context.Context) error, feed Revalidator) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		sessionFn: sessionFn,
		dataFn:    dataFn,
		feed:      feed,
		done:      make(chan struct{}),
	}
}

// Start kicks off session resolution and, when an identity passes the
// gate, the first data fetch. It returns immediately; Done() closes when
// both ready flags are set.
func (c *Coordinator) Start(ctx context.Context) {
	go c.resolve(ctx)
}

func (c *Coordinator) resolve(ctx context.Context) {
	sessCtx, cancel := context.WithTimeout(ctx, c.cfg.SessionBudget)
	defer cancel()

	type sessionResult struct {
		profile *models.Profile
		err     error
	}
	resultCh := make(chan sessionResult, 1)
	go func() {
		profile, err := c.sessionFn(sessCtx)
		resultCh <- sessionResult{profile, err}
	}()

	var profile *models.Profile
	select {
	case res := <-resultCh:
		if res.err != nil {
			log.Printf("session resolution failed: %v", res.err)
		}
		profile = res.profile
	case <-sessCtx.Done():
		// Budget expired; proceed unauthenticated. A straggler result is
		// ignored.
		log.Printf("session resolution exceeded %v budget, proceeding without identity", c.cfg.SessionBudget)
	}

	c.markSessionReady(profile)

	if profile == nil || c.RejectReason() != RejectNone {
		// Nothing to fetch for this identity; data is trivially ready.
		c.markDataReady()
		return
	}

	dataCtx, cancelData := context.WithTimeout(ctx, c.cfg.DataBudget)
	defer cancelData()

	dataCh := make(chan error, 1)
	go func() {
		dataCh <- c.dataFn(dataCtx)
	}()

	select {
	case err := <-dataCh:
		if err != nil {
			log.Printf("initial data fetch failed: %v", err)
		}
	case <-dataCtx.Done():
		log.Printf("initial data fetch exceeded %v budget, proceeding with partial state", c.cfg.DataBudget)
	}
	c.markDataReady()
}

func (c *Coordinator) markSessionReady(profile *models.Profile) {
	c.sessionOnce.Do(func() {
		c.mu.Lock()
		c.profile = profile
		c.sessionReady = true
		if profile != nil {
			switch {
			case profile.Role == models.RoleFarmer:
				c.reject = RejectFarmer
			case profile.Role == models.RoleExpert && profile.Status == models.ProfileRejected:
				c.reject = RejectRegistration
			case profile.Role == models.RoleExpert && profile.Status != models.ProfileApproved:
				c.reject = RejectPendingApproval
			}
		}
		c.mu.Unlock()
	})
}

func (c *Coordinator) markDataReady() {
	c.dataOnce.Do(func() {
		c.mu.Lock()
		c.dataReady = true
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Coordinator) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile != nil
}

func (c *Coordinator) SessionReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionReady
}

func (c *Coordinator) DataReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataReady
}

func (c *Coordinator) Profile() *models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

func (c *Coordinator) RejectReason() RejectReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reject
}

// Done closes once both ready flags are set.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Foreground handles a tab-foreground signal: when already ready and no
// refresh is in flight, silently re-run the data fetch and ask the feed to
// revalidate its connection. Never flips the ready flags back.
func (c *Coordinator) Foreground(ctx context.Context) {
	c.mu.Lock()
	ready := c.sessionReady && c.dataReady && c.profile != nil && c.reject == RejectNone
	if !ready || c.refreshing {
		c.mu.Unlock()
		return
	}
	c.refreshing = true
	c.mu.Unlock()

	if c.feed != nil {
		c.feed.Revalidate()
	}

	go func() {
		defer func() {
			c.mu.Lock()
			c.refreshing = false
			c.mu.Unlock()
		}()

		refreshCtx, cancel := context.WithTimeout(ctx, c.cfg.DataBudget)
		defer cancel()
		if err := c.dataFn(refreshCtx); err != nil {
			// Silent refresh; transient failures wait for the next signal.
			log.Printf("foreground refresh failed: %v", err)
		}
	}()
}
