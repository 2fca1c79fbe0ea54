package report

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"samforge/internal/logging"
)

// ChromeConverter renders HTML to PDF through a headless Chrome instance.
// The browser is launched lazily on first use and reused across renders.
type ChromeConverter struct {
	mu      sync.Mutex
	browser *rod.Browser
	bin     string
}

// NewChromeConverter creates a converter. bin optionally pins the Chrome
// binary; empty lets the launcher resolve one.
func NewChromeConverter(bin string) *ChromeConverter {
	return &ChromeConverter{bin: bin}
}

func (c *ChromeConverter) ensureStarted(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return nil
		}
		logging.ReportDebug("Stale browser connection, relaunching")
		_ = c.browser.Close()
		c.browser = nil
	}

	l := launcher.New().Headless(true)
	if c.bin != "" {
		l = l.Bin(c.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	c.browser = browser
	return nil
}

// HTMLToPDF renders the document in a fresh incognito page and prints it.
func (c *ChromeConverter) HTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	if err := c.ensureStarted(ctx); err != nil {
		return nil, err
	}

	dataURL := "data:text/html;charset=utf-8," + url.PathEscape(html)

	incognito, err := c.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: dataURL})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.Context(ctx).WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	reader, err := page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	defer reader.Close()

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("empty PDF output")
	}
	return pdf, nil
}

// Close shuts the browser down.
func (c *ChromeConverter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	c.browser = nil
	return err
}
