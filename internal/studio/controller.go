// Package studio owns the request lifecycle of the image studio: prompt
// validation, the single in-flight generation, and the view state derived from
// its outcome.
package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"imagination/internal/domain"
	"imagination/internal/infra"
	"imagination/internal/providers/txt2img"
	"imagination/internal/render"
)

// Observer is notified synchronously after every state transition, while the
// controller lock is held. It must not call back into the Controller.
type Observer func(domain.ViewState)

// Options configures a Controller.
type Options struct {
	Generator      txt2img.Generator
	Logger         *infra.Logger
	DefaultQuality domain.Quality
	// Timeout bounds a single provider call. Zero means no bound.
	Timeout  time.Duration
	Observer Observer
	Now      func() time.Time
}

// Controller is the request controller. All methods are safe for concurrent
// use; at most one generation runs at a time.
type Controller struct {
	generator txt2img.Generator
	logger    infra.Logger
	timeout   time.Duration
	observer  Observer
	now       func() time.Time

	mu      sync.Mutex
	state   domain.ViewState
	settled chan struct{}
}

// NewController constructs a Controller in the Idle state.
func NewController(opts Options) (*Controller, error) {
	if opts.Generator == nil {
		return nil, errors.New("studio: generator is required")
	}
	quality := opts.DefaultQuality
	if quality == "" {
		quality = domain.DefaultQuality
	}
	if !quality.Valid() {
		return nil, fmt.Errorf("studio: %w: %q", domain.ErrInvalidQuality, quality)
	}
	logger := infra.NopLogger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	settled := make(chan struct{})
	close(settled)

	return &Controller{
		generator: opts.Generator,
		logger:    logger.With().Str("component", "studio").Logger(),
		timeout:   opts.Timeout,
		observer:  opts.Observer,
		now:       now,
		state:     domain.ViewState{Status: domain.StatusIdle, Quality: quality},
		settled:   settled,
	}, nil
}

// State returns a snapshot of the current view state.
func (c *Controller) State() domain.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Generator exposes the provider the controller was built with.
func (c *Controller) Generator() txt2img.Generator {
	return c.generator
}

// Submit accepts a prompt and starts the generation in the background.
//
// Empty prompts return domain.ErrInvalidPrompt and a submission while a
// request is loading returns domain.ErrRequestInFlight; in both cases the
// state is left untouched and the provider is not called. The provider call
// is detached from ctx cancellation: once accepted it runs to settlement.
func (c *Controller) Submit(ctx context.Context, prompt string, quality domain.Quality) error {
	req, err := domain.NewGenerationRequest(prompt, quality)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state.Loading() {
		c.mu.Unlock()
		c.logger.Debug().Str("prompt", req.Prompt).Msg("submission refused: request in flight")
		return domain.ErrRequestInFlight
	}
	c.settled = make(chan struct{})
	done := c.settled
	c.transitionLocked(domain.ViewState{
		Status:  domain.StatusLoading,
		Prompt:  req.Prompt,
		Quality: req.Quality,
	})
	c.mu.Unlock()

	c.logger.Debug().
		Str("prompt", req.Prompt).
		Str("quality", req.Quality.String()).
		Str("provider", c.generator.Name()).
		Msg("generation accepted")

	go c.run(context.WithoutCancel(ctx), req, done)
	return nil
}

// Reset implements the "create new" action: it discards any result or error
// and clears the stored prompt. The quality selection survives.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading() {
		return domain.ErrRequestInFlight
	}
	c.transitionLocked(domain.ViewState{Status: domain.StatusIdle, Quality: c.state.Quality})
	return nil
}

// SelectQuality changes the quality used by the presentation layer for the
// next submission. It is refused while loading.
func (c *Controller) SelectQuality(q domain.Quality) error {
	if !q.Valid() {
		return domain.ErrInvalidQuality
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading() {
		return domain.ErrRequestInFlight
	}
	if c.state.Quality == q {
		return nil
	}
	next := c.state.Clone()
	next.Quality = q
	c.transitionLocked(next)
	return nil
}

// Wait blocks until no request is loading, then returns the state.
func (c *Controller) Wait(ctx context.Context) (domain.ViewState, error) {
	c.mu.Lock()
	done := c.settled
	c.mu.Unlock()

	select {
	case <-done:
		return c.State(), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

func (c *Controller) run(ctx context.Context, req domain.GenerationRequest, done chan struct{}) {
	defer close(done)

	started := c.now()
	result, err := c.generate(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.transitionLocked(domain.ViewState{
			Status:  domain.StatusError,
			Prompt:  req.Prompt,
			Quality: req.Quality,
			Message: domain.GenerationFailedMessage,
		})
	} else {
		c.transitionLocked(domain.ViewState{
			Status:  domain.StatusResult,
			Prompt:  req.Prompt,
			Quality: req.Quality,
			Result:  result,
		})
	}
	c.mu.Unlock()

	elapsed := c.now().Sub(started)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("provider", c.generator.Name()).
			Str("quality", req.Quality.String()).
			Dur("elapsed", elapsed).
			Msg("generation failed")
		return
	}
	c.logger.Info().
		Str("provider", result.Provider).
		Str("model", result.Model).
		Str("quality", req.Quality.String()).
		Int("width", result.Width).
		Int("height", result.Height).
		Dur("elapsed", elapsed).
		Msg("generation settled")
}

// generate performs the single provider call followed by normalization.
func (c *Controller) generate(ctx context.Context, req domain.GenerationRequest) (result *domain.GenerationResult, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrProviderFailure, r)
		}
	}()

	handle, err := c.generator.Generate(ctx, req.Prompt, txt2img.Options{Quality: req.Quality})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}

	encoded, err := render.Normalize(handle.Image)
	if err != nil {
		return nil, err
	}

	return &domain.GenerationResult{
		Prompt:      req.Prompt,
		Quality:     req.Quality,
		ImageBase64: encoded.Base64,
		Width:       encoded.Width,
		Height:      encoded.Height,
		Provider:    firstNonEmpty(handle.Provider, c.generator.Name()),
		Model:       firstNonEmpty(handle.Model, c.generator.Model()),
		CreatedAt:   c.now().UTC(),
	}, nil
}

// transitionLocked is the only place the view state changes. Callers hold mu.
func (c *Controller) transitionLocked(next domain.ViewState) {
	c.state = next
	if c.observer != nil {
		c.observer(next.Clone())
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
