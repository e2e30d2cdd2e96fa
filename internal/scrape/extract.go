package scrape

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/platform"
)

// Candidate is one extracted post before the acquisition loop assigns its
// ordinal-based ID and applies the cutoff.
type Candidate struct {
	Fingerprint string
	Post        schemas.Post
}

// compiledChain is a selector chain pre-parsed into cascadia matchers.
type compiledChain []cascadia.Selector

func compileChain(chain platform.SelectorChain, logger *zap.Logger) compiledChain {
	out := make(compiledChain, 0, len(chain))
	for _, raw := range chain {
		sel, err := cascadia.Compile(raw)
		if err != nil {
			logger.Warn("Skipping uncompilable selector.", zap.String("selector", raw), zap.Error(err))
			continue
		}
		out = append(out, sel)
	}
	return out
}

// Extractor turns raw post-container HTML into normalized candidates using
// the platform's fallback selector chains. A chain miss leaves the field
// empty; only a missing or unparseable date drops the element.
type Extractor struct {
	cfg    *platform.Config
	logger *zap.Logger
	origin string

	text   compiledChain
	author compiledChain
	date   compiledChain
	stats  compiledChain
	link   compiledChain
}

// NewExtractor compiles the platform's selector chains once up front.
func NewExtractor(cfg *platform.Config, logger *zap.Logger) *Extractor {
	logger = logger.Named("extract")

	origin := ""
	if u, err := url.Parse(cfg.LandingURL); err == nil {
		origin = u.Scheme + "://" + u.Host
	}

	return &Extractor{
		cfg:    cfg,
		logger: logger,
		origin: origin,
		text:   compileChain(cfg.Selectors.Text, logger),
		author: compileChain(cfg.Selectors.Author, logger),
		date:   compileChain(cfg.Selectors.Date, logger),
		stats:  compileChain(cfg.Selectors.Stats, logger),
		link:   compileChain(cfg.Selectors.Link, logger),
	}
}

// Extract parses one container fragment. It returns (nil, nil) when the
// element must be dropped: a post without a normalizable date cannot be
// timeframe-filtered safely. Panics from malformed markup are contained so
// one bad element never aborts the batch.
func (e *Extractor) Extract(fragment string, now time.Time) (cand *Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			cand = nil
			err = fmt.Errorf("extraction panicked: %v", r)
		}
	}()

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to parse post fragment: %w", err)
	}

	text := e.firstText(doc, e.text)
	author := strings.TrimSpace(e.firstText(doc, e.author))

	dateAttr, dateText := e.dateFields(doc)
	date, ok := normalizeDate(dateAttr, dateText, now)
	if !ok {
		e.logger.Debug("Dropping element without a parseable date.",
			zap.String("attr", dateAttr), zap.String("text", dateText))
		return nil, nil
	}

	statsText := e.collectStatsText(doc)
	link := e.resolveLink(doc)

	timestampMs := date.UnixMilli()
	fingerprint := schemas.Fingerprint(e.cfg.Name, author, timestampMs, text)

	return &Candidate{
		Fingerprint: fingerprint,
		Post: schemas.Post{
			Text:        text,
			Author:      author,
			Date:        date,
			TimestampMs: timestampMs,
			Stats:       ParseStats(e.cfg, statsText),
			Platform:    e.cfg.Name,
			SourceURL:   link,
		},
	}, nil
}

// firstText walks the chain and returns the first non-empty textual value.
// Image-only nodes contribute their alt text.
func (e *Extractor) firstText(doc *html.Node, chain compiledChain) string {
	for _, sel := range chain {
		node := sel.MatchFirst(doc)
		if node == nil {
			continue
		}
		if text := nodeText(node); text != "" {
			return text
		}
		if alt := attrValue(node, "alt"); alt != "" {
			return alt
		}
	}
	return ""
}

// dateFields locates the first date node with either a structured attribute
// or displayable text.
func (e *Extractor) dateFields(doc *html.Node) (attr, text string) {
	for _, sel := range e.date {
		for _, node := range sel.MatchAll(doc) {
			attr = firstNonEmpty(
				attrValue(node, "datetime"),
				attrValue(node, "data-utime"),
				attrValue(node, "title"),
			)
			text = nodeText(node)
			if attr != "" || text != "" {
				return attr, text
			}
		}
	}
	return "", ""
}

// collectStatsText concatenates the text and aria-labels of every matched
// stats region. Counts frequently live only in aria-label attributes.
func (e *Extractor) collectStatsText(doc *html.Node) string {
	var parts []string
	for _, sel := range e.stats {
		for _, node := range sel.MatchAll(doc) {
			if text := nodeText(node); text != "" {
				parts = append(parts, text)
			}
			if label := attrValue(node, "aria-label"); label != "" {
				parts = append(parts, label)
			}
		}
	}
	return strings.Join(parts, " · ")
}

func (e *Extractor) resolveLink(doc *html.Node) string {
	for _, sel := range e.link {
		node := sel.MatchFirst(doc)
		if node == nil {
			continue
		}
		href := attrValue(node, "href")
		if href == "" {
			continue
		}
		if strings.HasPrefix(href, "/") && e.origin != "" {
			return e.origin + href
		}
		return href
	}
	return ""
}

// nodeText returns the node's visible text with whitespace collapsed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
