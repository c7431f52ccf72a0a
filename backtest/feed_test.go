package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func drain(t *testing.T, feed BarFeed) ([]Bar, error) {
	t.Helper()
	var bars []Bar
	for {
		bar, ok, err := feed.Next()
		if err != nil {
			return bars, err
		}
		if !ok {
			return bars, nil
		}
		bars = append(bars, bar)
	}
}

func TestCSVFeed(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, `time,open,high,low,close,volume
2026-01-01T00:00:00Z,100,110,95,105,42
2026-01-01T01:00:00Z,105,112,101,108,17
`)

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	bars, err := drain(t, feed)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.InDelta(t, 105.0, bars[0].Close, 1e-9)
	assert.InDelta(t, 17.0, bars[1].Volume, 1e-9)
}

func TestCSVFeedNoHeader(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "2026-01-01T00:00:00Z,100,110,95,105,42\n")

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	bars, err := drain(t, feed)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestCSVFeedShortRowIsError(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, `time,open,high,low,close,volume
2026-01-01T00:00:00Z,100,110,95,105,42
2026-01-01T01:00:00Z,105,112
`)

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	_, err = drain(t, feed)
	assert.Error(t, err, "a truncated row poisons everything after it")
}

func TestCSVFeedBadNumberIsError(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "2026-01-01T00:00:00Z,100,abc,95,105,42\n")

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	_, err = drain(t, feed)
	assert.Error(t, err)
}

func TestSliceFeed(t *testing.T) {
	t.Parallel()

	bars := []Bar{
		{Time: time.Now(), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1},
	}
	feed := NewSliceFeed(bars)

	got, err := drain(t, feed)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, feed.Close())
}

func TestGenerateSampleBars(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	a := GenerateSampleBars(start, end, 50000, 0.02, 42)
	b := GenerateSampleBars(start, end, 50000, 0.02, 42)

	require.Len(t, a, 73)
	assert.Equal(t, a, b, "same seed reproduces the series")

	for _, bar := range a {
		require.NoError(t, bar.Validate())
		assert.GreaterOrEqual(t, bar.High, bar.Open)
		assert.LessOrEqual(t, bar.Low, bar.Close)
	}

	c := GenerateSampleBars(start, end, 50000, 0.02, 7)
	assert.NotEqual(t, a[10].Close, c[10].Close)
}
