package logfile

import (
	"testing"
	"time"

	"url-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	records := []models.LogRecord{
		{Time: base, URL: "https://a.example", StatusCode: 200, ResponseTime: 100},
		{Time: base.Add(time.Minute), URL: "https://b.example", StatusCode: 500, ResponseTime: 900},
		{Time: base.Add(2 * time.Minute), URL: "https://a.example", StatusCode: 500, ResponseTime: 50},
		{Time: base.Add(3 * time.Minute), URL: "https://a.example", StatusCode: 200, ResponseTime: 150},
	}

	t.Run("all urls", func(t *testing.T) {
		report := Summarize("results.txt", records, "", 0)

		assert.Equal(t, 4, report.Records)
		assert.Equal(t, 50.0, report.MinResponseTime)
		assert.Equal(t, 900.0, report.MaxResponseTime)
		assert.Equal(t, 300.0, report.AverageResponseTime)
		assert.Equal(t, map[int]int{200: 2, 500: 2}, report.StatusCodes)
		assert.Nil(t, report.Histories)
	})

	t.Run("filtered with limit", func(t *testing.T) {
		report := Summarize("results.txt", records, "https://a.example", 2)

		assert.Equal(t, 3, report.Records)
		assert.Equal(t, 100.0, report.AverageResponseTime)
		require.NotNil(t, report.FirstCheck)
		assert.Equal(t, base, *report.FirstCheck)
		assert.Equal(t, base.Add(3*time.Minute), *report.LastCheck)
		require.Len(t, report.Histories, 2)
		assert.Equal(t, 50.0, report.Histories[0].ResponseTime)
	})

	t.Run("no match", func(t *testing.T) {
		report := Summarize("results.txt", records, "https://c.example", 10)

		assert.Equal(t, 0, report.Records)
		assert.Nil(t, report.FirstCheck)
		assert.Empty(t, report.Histories)
	})
}
