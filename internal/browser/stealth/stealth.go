// Package stealth neutralizes the automation-detectable surface of a fresh
// browser target before any navigation happens: user agent, navigator
// properties, timezone/locale, language headers, and viewport metrics.
package stealth

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

//go:embed evasions.js
var evasionsScript string

// Apply builds the CDP task sequence that aligns the target with the given
// persona. It must run before the first navigation so the evasions script is
// registered for every document the session loads.
func Apply(p schemas.Persona, logger *zap.Logger) chromedp.Tasks {
	logger.Debug("Applying stealth persona",
		zap.String("user_agent", p.UserAgent),
		zap.String("platform", p.Platform),
	)

	tasks := chromedp.Tasks{
		emulation.SetUserAgentOverride(p.UserAgent),

		// Register the navigator overrides for every new document. The Do
		// method returns two values, so it needs an ActionFunc wrapper.
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(evasionsScript).Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to inject evasions script: %w", err)
			}
			return nil
		}),

		emulation.SetTimezoneOverride(p.Timezone),
		emulation.SetLocaleOverride().WithLocale(p.Locale),

		// Viewport consistent with the persona.
		emulation.SetDeviceMetricsOverride(p.Width, p.Height, 1.0, false),
	}

	// A persona without languages gets no Accept-Language override rather
	// than a broken header.
	if len(p.Languages) > 0 {
		acceptLanguage := p.Languages[0]
		if len(p.Languages) > 1 {
			acceptLanguage = fmt.Sprintf("%s,%s;q=0.9", p.Languages[0], p.Languages[1])
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": acceptLanguage,
		}))
	}

	return tasks
}
