package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"rfm-segments/pkg/models"
	"rfm-segments/pkg/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput_FailedCSVLeavesNoFile(t *testing.T) {
	boom := errors.New("disk full")
	writeCSV = func(w io.Writer, _ []models.ScoredCustomer) error {
		_, _ = io.WriteString(w, "CustomerID,Recency\n12346,")
		return boom
	}
	t.Cleanup(func() { writeCSV = report.WriteCSV })

	path := filepath.Join(t.TempDir(), "rfm.csv")
	err := writeOutput(path, models.Result{}, nil)

	require.ErrorIs(t, err, boom)
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "partial csv left on disk")
}

func TestWriteOutput_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfm.csv")
	require.NoError(t, writeOutput(path, models.Result{}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CustomerID,Recency,Frequency,Monetary,R_Score,F_Score,M_Score,RFM_Score,Segment\n", string(data))
}
