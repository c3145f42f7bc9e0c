package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesDataset(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	opts := options{
		games:   20,
		output:  filepath.Join(t.TempDir(), "dataset.csv"),
		width:   9,
		height:  9,
		mines:   10,
		seed:    3,
		workers: 4,
	}
	rows, err := run(context.Background(), opts, log)
	require.NoError(t, err)

	f, err := os.Open(opts.output)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "cell_0", records[0][0])
	assert.Equal(t, "is_mine", records[0][25])
	assert.Len(t, records, rows+1)

	for _, r := range records[1:] {
		require.Len(t, r, 26)
		assert.Contains(t, []string{"0", "1"}, r[25])
	}
}

func TestPlayGame_Deterministic(t *testing.T) {
	opts := options{width: 9, height: 9, mines: 10}
	a, err := playGame(opts, 42)
	require.NoError(t, err)
	b, err := playGame(opts, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlayGame_InvalidBoard(t *testing.T) {
	_, err := playGame(options{width: 2, height: 2, mines: 4}, 1)
	require.Error(t, err)
}

func TestRun_SameSeedSameFile(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	dir := t.TempDir()
	var files [][]byte
	for i, workers := range []int{1, 8} {
		opts := options{
			games:   30,
			output:  filepath.Join(dir, fmt.Sprintf("dataset-%d.csv", i)),
			width:   9,
			height:  9,
			mines:   10,
			seed:    11,
			workers: workers,
		}
		_, err := run(context.Background(), opts, log)
		require.NoError(t, err)

		data, err := os.ReadFile(opts.output)
		require.NoError(t, err)
		files = append(files, data)
	}
	assert.Equal(t, string(files[0]), string(files[1]))
}
