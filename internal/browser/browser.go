// CLAUDE:SUMMARY Manages Chrome lifecycle for an analysis session: launch or remote attach, one tab, navigate, close.
// Package browser manages the Chrome instance behind an analysis session:
// launch a local headless Chrome via Rod's launcher (or attach to a remote
// one), hold the single analysis tab, and tear everything down on close.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the devtools WebSocket URL of an external Chrome.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless controls the local launch mode. Ignored for remote attach.
	Headless bool

	// Stealth applies anti-automation-detection scripts to the tab. Sites
	// that gate assets on bot detection load differently without it.
	Stealth bool

	// UserAgent overrides the tab's user agent when non-empty.
	UserAgent string

	// LoadTimeout bounds Navigate (navigation plus load event).
	LoadTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 60 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns the Chrome process and the analysis tab.
type Manager struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	closed  bool
}

// NewManager creates a Manager. Call Start to launch Chrome.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance) and opens the
// analysis tab.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return fmt.Errorf("browser: already started")
	}

	log := m.cfg.Logger
	var wsURL string

	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(m.cfg.Headless)
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headless", m.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		m.cleanupLocked()
		return fmt.Errorf("browser: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}
	m.browser = b

	page, err := m.openTab(b)
	if err != nil {
		m.cleanupLocked()
		return err
	}
	m.page = page
	return nil
}

func (m *Manager) openTab(b *rod.Browser) (*rod.Page, error) {
	var page *rod.Page
	var err error
	if m.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if m.cfg.UserAgent != "" {
		err = (proto.NetworkSetUserAgentOverride{UserAgent: m.cfg.UserAgent}).Call(page)
		if err != nil {
			m.cfg.Logger.Warn("browser: user agent override failed", "error", err)
		}
	}
	return page, nil
}

// Page returns the analysis tab. Nil before Start.
func (m *Manager) Page() *rod.Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

// Navigate loads a URL in the analysis tab and waits for the load event.
// A load-event timeout is logged but not fatal: heavy pages that never
// settle are exactly the ones worth analysing.
func (m *Manager) Navigate(ctx context.Context, pageURL string) error {
	m.mu.Lock()
	page := m.page
	m.mu.Unlock()
	if page == nil {
		return fmt.Errorf("browser: not started")
	}

	navCtx, cancel := context.WithTimeout(ctx, m.cfg.LoadTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		m.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}
	return nil
}

// Close shuts down the tab and Chrome.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cleanupLocked()
	return nil
}

func (m *Manager) cleanupLocked() {
	if m.page != nil {
		_ = m.page.Close()
		m.page = nil
	}
	if m.browser != nil {
		_ = m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}
