package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Geotexan/data-wang/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2016, 9, 26, 10, 33, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			SourceDir: "samples",
			FileCount: 14,
			CreatedAt: now,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			SourceDir: "/mnt/lenzing/week38",
			FileCount: 7,
			CreatedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "SOURCE DIR")
	assert.Contains(t, output, "FILES")
	assert.Contains(t, output, "samples")
	assert.Contains(t, output, "/mnt/lenzing/week38")
	assert.Contains(t, output, "14")
	assert.Contains(t, output, "2016-09-26 10:33")
	assert.Contains(t, output, "abc12345")
}
