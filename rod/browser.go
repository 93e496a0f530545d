package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// replaced.
const DefaultMaxPages = 75

// browserPool owns the browser process. Chrome's resident memory grows with
// every page it renders and never shrinks back, so the browser is relaunched
// after maxPages pages. browserPool is safe for concurrent use.
type browserPool struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	maxPages int64
	bin      string
	ua       string
}

// acquire returns the current browser, relaunching it first when it has
// rendered maxPages pages. A failed relaunch keeps the old browser.
func (p *browserPool) acquire() *rod.Browser {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pages.Load() >= p.maxPages {
		oldBrowser, oldLauncher := p.browser, p.launcher
		if err := p.launch(); err != nil {
			return oldBrowser
		}
		if oldBrowser != nil {
			_ = oldBrowser.Close()
		}
		if oldLauncher != nil {
			oldLauncher.Kill()
		}
		p.pages.Store(0)
	}
	return p.browser
}

// release records one rendered page.
func (p *browserPool) release() {
	p.pages.Add(1)
}

// launch starts a browser with flags that keep background tabs from being
// throttled. On success it replaces p.browser and p.launcher.
// Must be called with mu held.
func (p *browserPool) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if p.bin != "" {
		l = l.Bin(p.bin)
	}
	if p.ua != "" {
		l = l.Set("user-agent", p.ua)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	p.browser = browser
	p.launcher = l
	return nil
}

// shutdown closes the browser and kills its process.
func (p *browserPool) shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}

func (p *browserPool) pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.launcher == nil {
		return 0
	}
	return p.launcher.PID()
}
