package humanoid

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Type returns an action that clears the field matching selector and enters
// text one character at a time with randomized inter-key delays, finishing
// with a randomized pause.
func (h *Humanoid) Type(selector, text string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := chromedp.WaitVisible(selector, chromedp.ByQuery).Do(ctx); err != nil {
			return fmt.Errorf("humanoid: field %q not visible: %w", selector, err)
		}
		if err := h.Click(selector).Do(ctx); err != nil {
			return fmt.Errorf("humanoid: failed to focus %q: %w", selector, err)
		}
		// Clear any residual value before typing.
		if err := chromedp.SetValue(selector, "", chromedp.ByQuery).Do(ctx); err != nil {
			return fmt.Errorf("humanoid: failed to clear %q: %w", selector, err)
		}
		if err := chromedp.Sleep(h.Pause()).Do(ctx); err != nil {
			return err
		}

		for _, r := range text {
			if err := chromedp.SendKeys(selector, string(r), chromedp.ByQuery).Do(ctx); err != nil {
				return fmt.Errorf("humanoid: failed to send key: %w", err)
			}
			if err := chromedp.Sleep(h.KeyDelay()).Do(ctx); err != nil {
				return err
			}
		}

		return chromedp.Sleep(h.Pause()).Do(ctx)
	})
}

// Click returns an action that moves the virtual pointer along a jittered
// path into the element's content box, pauses, then clicks. When the box
// model is unavailable (detached or zero-size elements) it falls back to a
// direct DOM click.
func (h *Humanoid) Click(selector string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		target, err := h.resolveTarget(ctx, selector)
		if err != nil {
			h.logger.Debug("Element geometry unavailable, using direct click.",
				zap.String("selector", selector), zap.Error(err))
			return chromedp.Click(selector, chromedp.ByQuery).Do(ctx)
		}

		for _, p := range h.PointerPath(target) {
			move := input.DispatchMouseEvent(input.MouseMoved, p.X, p.Y)
			if err := move.Do(ctx); err != nil {
				return fmt.Errorf("humanoid: pointer move failed: %w", err)
			}
			if err := chromedp.Sleep(h.KeyDelay()).Do(ctx); err != nil {
				return err
			}
		}

		if err := chromedp.Sleep(h.Pause()).Do(ctx); err != nil {
			return err
		}
		return chromedp.MouseClickXY(target.X, target.Y).Do(ctx)
	})
}

// resolveTarget computes a jittered click point inside the first element
// matching selector.
func (h *Humanoid) resolveTarget(ctx context.Context, selector string) (Point, error) {
	var nodes []*cdp.Node
	if err := chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(1)).Do(ctx); err != nil {
		return Point{}, err
	}
	if len(nodes) == 0 {
		return Point{}, fmt.Errorf("no element matches %q", selector)
	}

	box, err := dom.GetBoxModel().WithNodeID(nodes[0].NodeID).Do(ctx)
	if err != nil {
		return Point{}, fmt.Errorf("box model lookup failed: %w", err)
	}
	if len(box.Content) < 8 {
		return Point{}, fmt.Errorf("degenerate content quad for %q", selector)
	}

	x, y := box.Content[0], box.Content[1]
	width := box.Content[2] - box.Content[0]
	height := box.Content[5] - box.Content[1]
	if width <= 0 || height <= 0 {
		return Point{}, fmt.Errorf("zero-size element for %q", selector)
	}
	return h.JitterWithin(x, y, width, height), nil
}
