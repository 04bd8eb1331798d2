package dev

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/forja/internal/build"
	"github.com/okra-platform/forja/internal/config"
)

// Test plan for Server:
// 1. A burst of changes inside the debounce window runs one generation
// 2. Pending changes are drained relative to the project root
// 3. Generation errors are reported and watching continues
// 4. Start runs an initial generation and regenerates on real file changes
// 5. Stop is safe before and after Start

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context) (*build.Artifacts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*build.Artifacts), args.Error(1)
}

type recordingReporter struct {
	mu   sync.Mutex
	runs []error
}

func (r *recordingReporter) Report(_ *build.Artifacts, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, err)
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func TestServer_handleFileChange_Debounce(t *testing.T) {
	// Test: Changes inside the window collapse into one trigger
	s := NewServer("/project", &mockGenerator{}, nil, &recordingReporter{}, 30*time.Millisecond, zerolog.Nop())

	s.handleFileChange("/project/src/A.cs", fsnotify.Write)
	s.handleFileChange("/project/src/B.cs", fsnotify.Create)
	s.handleFileChange("/project/src/A.cs", fsnotify.Write)

	select {
	case <-s.trigger:
	case <-time.After(time.Second):
		t.Fatal("debounce timer never fired")
	}
	select {
	case <-s.trigger:
		t.Fatal("unexpected second trigger")
	case <-time.After(100 * time.Millisecond):
	}

	// Test: Drained paths are relative, sorted and unique
	assert.Equal(t, []string{"src/A.cs", "src/B.cs"}, s.drain())
	assert.Empty(t, s.drain())
}

func TestServer_generate_ReportsErrors(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything).Return(nil, errors.New("boom")).Once()
	gen.On("Generate", mock.Anything).Return(&build.Artifacts{}, nil).Once()
	reporter := &recordingReporter{}
	s := NewServer("/project", gen, nil, reporter, time.Millisecond, zerolog.Nop())

	// Test: A failed run is reported and the next one still happens
	s.generate(context.Background())
	s.generate(context.Background())

	require.Len(t, reporter.runs, 2)
	assert.EqualError(t, reporter.runs[0], "boom")
	assert.NoError(t, reporter.runs[1])
	gen.AssertExpectations(t)
}

func TestServer_Stop(t *testing.T) {
	s := NewServer("/project", &mockGenerator{}, nil, &recordingReporter{}, time.Second, zerolog.Nop())

	// Test: Stop before Start is a no-op, pending timers are cancelled
	s.handleFileChange("/project/A.cs", fsnotify.Write)
	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}

func TestServer_Start(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	root := t.TempDir()
	source := filepath.Join(root, "OrderService.cs")
	require.NoError(t, os.WriteFile(source, []byte(`namespace Shop
{
    using Forja;

    public interface IRepo {}

    public partial class OrderService
    {
        [Inject] private readonly IRepo _repo;
    }
}`), 0644))

	builder, err := build.NewProjectBuilder(config.Default("test"), root, zerolog.Nop())
	require.NoError(t, err)
	reporter := &recordingReporter{}
	s := NewServer(root, builder, builder, reporter, 50*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Test: The initial run writes the outputs
	output := filepath.Join(root, "Generated", "Shop.OrderService.g.cs")
	require.Eventually(t, func() bool {
		_, err := os.Stat(output)
		return reporter.count() == 1 && err == nil
	}, 2*time.Second, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	// Test: Editing the source regenerates, writing outputs does not loop
	require.NoError(t, os.WriteFile(source, []byte(`namespace Shop { public partial class OrderService {} }`), 0644))
	require.Eventually(t, func() bool {
		_, err := os.Stat(output)
		return errors.Is(err, os.ErrNotExist)
	}, 2*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, reporter.count())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}
