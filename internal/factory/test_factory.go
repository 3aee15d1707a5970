package factory

import (
	"time"

	"github.com/pondwars/pondwars/internal/dependencies/mocks"
	"github.com/pondwars/pondwars/internal/game"
	"github.com/pondwars/pondwars/internal/ranking/memory"
	"github.com/pondwars/pondwars/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and an in-memory ranking store.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(game.DefaultConfig(), store, mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
