// Package light implements the shake-activated lamp controller: a two-state
// edge detector with a fixed polling window driving a blink pattern.
package light

import (
	"context"
	"fmt"
	"time"

	"github.com/sweeney/shake-light/internal/gpio"
	"github.com/sweeney/shake-light/internal/logic"
)

// Controller owns the GPIO device and the last observed switch state.
type Controller struct {
	// Sleep suspends execution between the two window samples and between
	// pattern steps. Nil means a real context-aware sleep; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error

	dev     gpio.Device
	window  time.Duration
	pattern []logic.PatternStep
	state   logic.State
}

// New creates a Controller. The device must already have its pins
// configured (lamp as output, switch as input).
func New(dev gpio.Device, window time.Duration, pattern []logic.PatternStep) *Controller {
	return &Controller{
		dev:     dev,
		window:  window,
		pattern: pattern,
	}
}

// CheckState samples the switch line, overwrites the stored state and
// returns it. No debouncing, no filtering: this is a raw sample.
func (c *Controller) CheckState() (logic.State, error) {
	high, err := c.dev.ReadSwitch()
	if err != nil {
		return c.state, fmt.Errorf("check state: %w", err)
	}
	c.state = logic.StateOf(high)
	return c.state, nil
}

// State returns the last sampled switch state ("" before the first sample).
func (c *Controller) State() logic.State {
	return c.state
}

// Poll runs one polling window: sample, wait, sample again, and if the
// switch level changed in either direction play the blink pattern. Equal
// samples produce no lamp writes at all. A transition that flips and flips
// back inside the window is missed; that is inherent to the polling model.
func (c *Controller) Poll(ctx context.Context) (before, after logic.State, err error) {
	before, err = c.CheckState()
	if err != nil {
		return before, before, err
	}

	if err := c.sleep(ctx, c.window); err != nil {
		return before, before, err
	}

	after, err = c.CheckState()
	if err != nil {
		return before, after, err
	}

	if after != before {
		if err := c.play(ctx); err != nil {
			return before, after, err
		}
	}

	return before, after, nil
}

// PlayPattern plays the blink pattern once, unconditionally. Used by the
// -test-pattern bring-up mode.
func (c *Controller) PlayPattern(ctx context.Context) error {
	return c.play(ctx)
}

// play walks the pattern steps. The pattern itself ends with the lamp off;
// an interrupted or failed playback still lowers the lamp on the way out.
func (c *Controller) play(ctx context.Context) error {
	for _, step := range c.pattern {
		if err := c.dev.SetLamp(step.On); err != nil {
			c.dev.SetLamp(false)
			return fmt.Errorf("play pattern: %w", err)
		}
		if err := c.sleep(ctx, step.Hold); err != nil {
			c.dev.SetLamp(false)
			return err
		}
	}
	return nil
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	return sleepCtx(ctx, d)
}

// sleepCtx blocks for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
