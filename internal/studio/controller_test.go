package studio

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagination/internal/domain"
	"imagination/internal/providers/txt2img"
	"imagination/internal/render"
)

type stubGenerator struct {
	mu       sync.Mutex
	calls    int
	prompts  []string
	options  []txt2img.Options
	gate     chan struct{}
	generate func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error)
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.options = append(s.options, opts)
	gate := s.gate
	fn := s.generate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fn == nil {
		return txt2img.Handle{Image: image.NewRGBA(image.Rect(0, 0, 512, 512)), Provider: "stub", Model: "stub-1"}, nil
	}
	return fn(ctx, prompt, opts)
}

func (s *stubGenerator) Name() string  { return "stub" }
func (s *stubGenerator) Model() string { return "stub-1" }

func (s *stubGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubGenerator) set(fn func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error)) {
	s.mu.Lock()
	s.generate = fn
	s.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	states []domain.ViewState
}

func (r *recorder) observe(v domain.ViewState) {
	r.mu.Lock()
	r.states = append(r.states, v)
	r.mu.Unlock()
}

func (r *recorder) statuses() []domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Status, len(r.states))
	for i, s := range r.states {
		out[i] = s.Status
	}
	return out
}

func newTestController(t *testing.T, gen txt2img.Generator, opts ...func(*Options)) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	o := Options{Generator: gen, Observer: rec.observe}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := NewController(o)
	require.NoError(t, err)
	return c, rec
}

func waitSettled(t *testing.T, c *Controller) domain.ViewState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	state, err := c.Wait(ctx)
	require.NoError(t, err)
	return state
}

func TestNewControllerValidation(t *testing.T) {
	_, err := NewController(Options{})
	assert.Error(t, err)

	_, err = NewController(Options{Generator: &stubGenerator{}, DefaultQuality: "ultra"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	c, err := NewController(Options{Generator: &stubGenerator{}})
	require.NoError(t, err)
	state := c.State()
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Equal(t, domain.QualityMedium, state.Quality)
}

func TestSubmitRejectsBlankPrompts(t *testing.T) {
	gen := &stubGenerator{}
	c, rec := newTestController(t, gen)
	before := c.State()

	for _, prompt := range []string{"", "   ", "\n\t "} {
		err := c.Submit(context.Background(), prompt, domain.QualityLow)
		assert.ErrorIs(t, err, domain.ErrInvalidPrompt)
	}

	assert.Equal(t, before, c.State())
	assert.Empty(t, rec.statuses())
	assert.Zero(t, gen.Calls())
}

func TestSubmitBlankPromptKeepsSettledState(t *testing.T) {
	gen := &stubGenerator{}
	c, rec := newTestController(t, gen)
	require.NoError(t, c.Submit(context.Background(), "a red circle", domain.QualityHigh))
	settled := waitSettled(t, c)
	require.Equal(t, domain.StatusResult, settled.Status)

	assert.ErrorIs(t, c.Submit(context.Background(), "   ", domain.QualityLow), domain.ErrInvalidPrompt)
	assert.Equal(t, settled, c.State())
	assert.Equal(t, []domain.Status{domain.StatusLoading, domain.StatusResult}, rec.statuses())
	assert.Equal(t, 1, gen.Calls())
}

func TestSubmitRejectsInvalidQuality(t *testing.T) {
	gen := &stubGenerator{}
	c, rec := newTestController(t, gen)
	assert.ErrorIs(t, c.Submit(context.Background(), "cat", "ultra"), domain.ErrInvalidQuality)
	assert.Empty(t, rec.statuses())
	assert.Zero(t, gen.Calls())
}

func TestSubmitWhileLoadingIsRefused(t *testing.T) {
	gen := &stubGenerator{gate: make(chan struct{})}
	c, rec := newTestController(t, gen)

	require.NoError(t, c.Submit(context.Background(), "a red circle", domain.QualityMedium))
	loading := c.State()
	assert.Equal(t, domain.StatusLoading, loading.Status)
	assert.Equal(t, "a red circle", loading.Prompt)

	err := c.Submit(context.Background(), "a blue square", domain.QualityHigh)
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)
	assert.Equal(t, loading, c.State())
	assert.ErrorIs(t, c.Reset(), domain.ErrRequestInFlight)
	assert.ErrorIs(t, c.SelectQuality(domain.QualityLow), domain.ErrRequestInFlight)

	close(gen.gate)
	state := waitSettled(t, c)
	assert.Equal(t, domain.StatusResult, state.Status)
	assert.Equal(t, "a red circle", state.Result.Prompt)
	assert.Equal(t, 1, gen.Calls())
	assert.Equal(t, []domain.Status{domain.StatusLoading, domain.StatusResult}, rec.statuses())
}

func TestConcurrentSubmitsAcceptExactlyOne(t *testing.T) {
	gen := &stubGenerator{gate: make(chan struct{})}
	c, rec := newTestController(t, gen)

	var accepted, refused atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			switch err := c.Submit(context.Background(), "race", domain.QualityLow); {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, domain.ErrRequestInFlight):
				refused.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	close(gen.gate)
	waitSettled(t, c)

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(31), refused.Load())
	assert.Equal(t, 1, gen.Calls())
	assert.Equal(t, []domain.Status{domain.StatusLoading, domain.StatusResult}, rec.statuses())
}

func TestSubmitSuccessProducesResult(t *testing.T) {
	gen := &stubGenerator{}
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c, _ := newTestController(t, gen, func(o *Options) { o.Now = func() time.Time { return fixed } })

	require.NoError(t, c.Submit(context.Background(), "  a red circle  ", domain.QualityHigh))
	state := waitSettled(t, c)

	require.Equal(t, domain.StatusResult, state.Status)
	require.NotNil(t, state.Result)
	assert.Empty(t, state.Message)
	assert.Equal(t, "a red circle", state.Prompt)
	assert.Equal(t, domain.QualityHigh, state.Quality)
	assert.Equal(t, "a red circle", state.Result.Prompt)
	assert.Equal(t, domain.QualityHigh, state.Result.Quality)
	assert.NotEmpty(t, state.Result.ImageBase64)
	assert.Equal(t, 512, state.Result.Width)
	assert.Equal(t, 512, state.Result.Height)
	assert.Equal(t, "stub", state.Result.Provider)
	assert.Equal(t, "stub-1", state.Result.Model)
	assert.Equal(t, fixed, state.Result.CreatedAt)
	assert.Equal(t, "imagination-ai-a-red-circle.png", state.Result.Filename())

	raw, err := render.DecodePNG(state.Result.ImageBase64)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	require.Len(t, gen.prompts, 1)
	assert.Equal(t, "a red circle", gen.prompts[0])
	assert.Equal(t, domain.QualityHigh, gen.options[0].Quality)
}

func TestProviderErrorThenRecovery(t *testing.T) {
	gen := &stubGenerator{}
	gen.set(func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error) {
		return txt2img.Handle{}, errors.New("dial tcp 10.0.0.1:443: connect: network is unreachable")
	})
	c, rec := newTestController(t, gen)

	require.NoError(t, c.Submit(context.Background(), "a red circle", domain.QualityMedium))
	state := waitSettled(t, c)
	require.Equal(t, domain.StatusError, state.Status)
	assert.Equal(t, domain.GenerationFailedMessage, state.Message)
	assert.NotContains(t, state.Message, "dial tcp")
	assert.Nil(t, state.Result)
	assert.Equal(t, "a red circle", state.Prompt)

	gen.set(nil)
	require.NoError(t, c.Submit(context.Background(), "a red circle", domain.QualityMedium))
	state = waitSettled(t, c)
	assert.Equal(t, domain.StatusResult, state.Status)
	assert.Empty(t, state.Message)
	assert.Equal(t, domain.QualityMedium, state.Result.Quality)

	assert.Equal(t, []domain.Status{
		domain.StatusLoading, domain.StatusError,
		domain.StatusLoading, domain.StatusResult,
	}, rec.statuses())
	assert.Equal(t, 2, gen.Calls())
}

func TestNormalizationFailureMapsToError(t *testing.T) {
	gen := &stubGenerator{}
	gen.set(func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error) {
		return txt2img.Handle{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))}, nil
	})
	c, _ := newTestController(t, gen)

	require.NoError(t, c.Submit(context.Background(), "void", domain.QualityLow))
	state := waitSettled(t, c)
	assert.Equal(t, domain.StatusError, state.Status)
	assert.Equal(t, domain.GenerationFailedMessage, state.Message)
}

func TestProviderPanicMapsToError(t *testing.T) {
	gen := &stubGenerator{}
	gen.set(func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error) {
		panic("provider exploded")
	})
	c, _ := newTestController(t, gen)

	require.NoError(t, c.Submit(context.Background(), "boom", domain.QualityLow))
	state := waitSettled(t, c)
	assert.Equal(t, domain.StatusError, state.Status)
}

func TestTimeoutMapsToError(t *testing.T) {
	gen := &stubGenerator{}
	gen.set(func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error) {
		<-ctx.Done()
		return txt2img.Handle{}, ctx.Err()
	})
	c, _ := newTestController(t, gen, func(o *Options) { o.Timeout = 20 * time.Millisecond })

	require.NoError(t, c.Submit(context.Background(), "slow", domain.QualityLow))
	state := waitSettled(t, c)
	assert.Equal(t, domain.StatusError, state.Status)
}

func TestCallerCancellationDoesNotAbortRequest(t *testing.T) {
	gen := &stubGenerator{gate: make(chan struct{})}
	var sawErr error
	gen.set(func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error) {
		sawErr = ctx.Err()
		return txt2img.Handle{Image: image.NewRGBA(image.Rect(0, 0, 4, 4))}, nil
	})
	c, _ := newTestController(t, gen)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Submit(ctx, "persist", domain.QualityLow))
	cancel()
	close(gen.gate)

	state := waitSettled(t, c)
	assert.Equal(t, domain.StatusResult, state.Status)
	assert.NoError(t, sawErr)
}

func TestResetIsIdempotent(t *testing.T) {
	gen := &stubGenerator{}
	c, _ := newTestController(t, gen)

	require.NoError(t, c.Submit(context.Background(), "a red circle", domain.QualityHigh))
	require.Equal(t, domain.StatusResult, waitSettled(t, c).Status)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Reset())
		state := c.State()
		assert.Equal(t, domain.StatusIdle, state.Status)
		assert.Empty(t, state.Prompt)
		assert.Nil(t, state.Result)
		assert.Empty(t, state.Message)
		assert.Equal(t, domain.QualityHigh, state.Quality)
	}

	gen.set(func(ctx context.Context, prompt string, opts txt2img.Options) (txt2img.Handle, error) {
		return txt2img.Handle{}, errors.New("quota")
	})
	require.NoError(t, c.Submit(context.Background(), "again", domain.QualityLow))
	require.Equal(t, domain.StatusError, waitSettled(t, c).Status)
	require.NoError(t, c.Reset())
	state := c.State()
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Empty(t, state.Prompt)
	assert.Empty(t, state.Message)
}

func TestSelectQuality(t *testing.T) {
	c, rec := newTestController(t, &stubGenerator{})
	require.NoError(t, c.SelectQuality(domain.QualityHigh))
	assert.Equal(t, domain.QualityHigh, c.State().Quality)
	require.NoError(t, c.SelectQuality(domain.QualityHigh))
	assert.Len(t, rec.statuses(), 1)
	assert.ErrorIs(t, c.SelectQuality("ultra"), domain.ErrInvalidQuality)
}

func TestWaitHonorsContext(t *testing.T) {
	gen := &stubGenerator{gate: make(chan struct{})}
	c, _ := newTestController(t, gen)
	require.NoError(t, c.Submit(context.Background(), "hold", domain.QualityLow))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	state, err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.StatusLoading, state.Status)

	close(gen.gate)
	waitSettled(t, c)
}

func TestSuggestionsReturnsCopy(t *testing.T) {
	first := Suggestions()
	require.Len(t, first, 6)
	first[0] = "mutated"
	assert.NotEqual(t, "mutated", Suggestions()[0])
}
