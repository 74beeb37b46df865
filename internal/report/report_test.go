package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

func TestWrite_SampleLevels(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Write(&b, domain.DefaultClassifier(), SampleLevels))

	want := "Audio Level | Brightness\n" +
		"      0.00 |        10%\n" +
		"      0.03 |        10%\n" +
		"      0.08 |        40%\n" +
		"      0.15 |        70%\n" +
		"      0.25 |        70%\n" +
		"      0.40 |       100%\n" +
		"      0.60 |       100%\n" +
		"      0.80 |       100%\n" +
		"\n" +
		"Screen flash logic OK\n"

	assert.Equal(t, want, b.String())
}

func TestWrite_NoLevels(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Write(&b, domain.DefaultClassifier(), nil))

	assert.Equal(t, Header+"\n\n"+Trailer+"\n", b.String())
}

func TestWrite_WideValues(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Write(&b, domain.DefaultClassifier(), []float64{-0.5, 12345678.9}))

	lines := strings.Split(b.String(), "\n")
	assert.Equal(t, "     -0.50 |        10%", lines[1])
	assert.Equal(t, "12345678.90 |       100%", lines[2])
}

func TestRows(t *testing.T) {
	rows := Rows(domain.DefaultClassifier(), []float64{0.05, 0.1, 0.3})

	assert.Equal(t, []Row{
		{Level: 0.05, Brightness: 10},
		{Level: 0.1, Brightness: 40},
		{Level: 0.3, Brightness: 70},
	}, rows)
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWrite_PropagatesWriteErrors(t *testing.T) {
	for after := 0; after < 3; after++ {
		err := Write(&failingWriter{after: after}, domain.DefaultClassifier(), []float64{0.2})
		assert.Error(t, err, "failing after %d writes", after)
	}
}

func TestMismatches(t *testing.T) {
	want := Rows(domain.DefaultClassifier(), SampleLevels)

	assert.Empty(t, Mismatches(want, want))

	got := Rows(domain.DefaultClassifier(), SampleLevels)
	got[2].Brightness = 70
	assert.Equal(t, []Row{got[2]}, Mismatches(want, got))

	extra := append(Rows(domain.DefaultClassifier(), SampleLevels), Row{Level: 0.9, Brightness: 100})
	assert.Len(t, Mismatches(want, extra), 1)
}
