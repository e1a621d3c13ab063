package actions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/entrhq/pagepilot/pkg/driver"
)

// typeDelay paces per-character key events so change handlers on
// reactive forms see realistic input.
const typeDelay = 30 * time.Millisecond

func handleClick(ctx context.Context, env *Env, params []string) (string, error) {
	target := params[0]
	sel, ok := env.Resolver.ResolveTarget(ctx, env.Page, target)
	if !ok {
		return "", fmt.Errorf("no clickable element found for %q", target)
	}
	if err := env.Page.Click(sel, env.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("clicked %s", sel), nil
}

// handleType types into the resolved target and submits with Enter.
func handleType(ctx context.Context, env *Env, params []string) (string, error) {
	target, text := params[0], params[1]
	sel, ok := env.Resolver.ResolveTarget(ctx, env.Page, target)
	if !ok {
		return "", fmt.Errorf("no input element found for %q", target)
	}
	if err := env.Page.Fill(sel, "", env.Timeout); err != nil {
		return "", err
	}
	if err := env.Page.Type(sel, text, typeDelay); err != nil {
		return "", err
	}
	if err := env.Page.Press(sel, "Enter", env.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("typed %q into %s and submitted", text, sel), nil
}

// handleFill sets the value in one shot without submitting.
func handleFill(ctx context.Context, env *Env, params []string) (string, error) {
	target, text := params[0], params[1]
	sel, ok := env.Resolver.ResolveTarget(ctx, env.Page, target)
	if !ok {
		return "", fmt.Errorf("no input element found for %q", target)
	}
	if err := env.Page.Fill(sel, text, env.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("filled %s", sel), nil
}

func handlePress(ctx context.Context, env *Env, params []string) (string, error) {
	key := params[0]
	if err := env.Page.Press("body", key, env.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("pressed %s", key), nil
}

func handleFocus(ctx context.Context, env *Env, params []string) (string, error) {
	target := params[0]
	sel, ok := env.Resolver.ResolveTarget(ctx, env.Page, target)
	if !ok {
		return "", fmt.Errorf("no element found for %q", target)
	}
	if err := env.Page.Focus(sel, env.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("focused %s", sel), nil
}

func handleWait(ctx context.Context, env *Env, params []string) (string, error) {
	seconds, err := strconv.ParseFloat(params[0], 64)
	if err != nil || seconds < 0 {
		return "", fmt.Errorf("invalid duration %q: expected seconds", params[0])
	}

	select {
	case <-time.After(time.Duration(seconds * float64(time.Second))):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return fmt.Sprintf("waited %gs", seconds), nil
}

// handleWaitFor blocks until a target becomes visible. A quick
// resolution pass catches targets that are already present; otherwise
// the driver waits on the raw selector with the full timeout.
func handleWaitFor(ctx context.Context, env *Env, params []string) (string, error) {
	target := params[0]
	if sel, ok := env.Resolver.ResolveTarget(ctx, env.Page, target); ok {
		return fmt.Sprintf("%s is visible", sel), nil
	}
	if err := env.Page.WaitFor(target, driver.StateVisible, env.Timeout); err != nil {
		return "", fmt.Errorf("target %q did not appear: %w", target, err)
	}
	return fmt.Sprintf("%s is visible", target), nil
}

func handleDrag(ctx context.Context, env *Env, params []string) (string, error) {
	sourceSel, ok := env.Resolver.ResolveTarget(ctx, env.Page, params[0])
	if !ok {
		return "", fmt.Errorf("no element found for drag source %q", params[0])
	}
	destSel, ok := env.Resolver.ResolveTarget(ctx, env.Page, params[1])
	if !ok {
		return "", fmt.Errorf("no element found for drag destination %q", params[1])
	}

	source, err := env.Page.BoundingBox(sourceSel, env.Timeout)
	if err != nil {
		return "", err
	}
	dest, err := env.Page.BoundingBox(destSel, env.Timeout)
	if err != nil {
		return "", err
	}

	fromX, fromY := source.X+source.Width/2, source.Y+source.Height/2
	toX, toY := dest.X+dest.Width/2, dest.Y+dest.Height/2

	if err := env.Page.MouseMove(fromX, fromY); err != nil {
		return "", err
	}
	if err := env.Page.MouseDown(); err != nil {
		return "", err
	}
	// Intermediate movement so drag handlers tracking mousemove fire.
	if err := env.Page.MouseMove((fromX+toX)/2, (fromY+toY)/2); err != nil {
		return "", err
	}
	if err := env.Page.MouseMove(toX, toY); err != nil {
		return "", err
	}
	if err := env.Page.MouseUp(); err != nil {
		return "", err
	}

	return fmt.Sprintf("dragged %s to %s", sourceSel, destSel), nil
}

func handleScroll(ctx context.Context, env *Env, params []string) (string, error) {
	var script string
	arg := params[0]
	switch arg {
	case "down":
		script = "() => window.scrollBy(0, window.innerHeight)"
	case "up":
		script = "() => window.scrollBy(0, -window.innerHeight)"
	case "top":
		script = "() => window.scrollTo(0, 0)"
	case "bottom":
		script = "() => window.scrollTo(0, document.body.scrollHeight)"
	default:
		pixels, err := strconv.Atoi(arg)
		if err != nil {
			return "", fmt.Errorf("invalid scroll argument %q: expected down, up, top, bottom or a pixel count", arg)
		}
		script = fmt.Sprintf("() => window.scrollBy(0, %d)", pixels)
	}

	if _, err := env.Page.Evaluate(script); err != nil {
		return "", err
	}
	return fmt.Sprintf("scrolled %s", arg), nil
}
