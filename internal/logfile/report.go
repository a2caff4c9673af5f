package logfile

import (
	"url-monitor/internal/models"
)

// Summarize aggregates records into a report. When url is set only its
// records count. Histories keeps the last limit records, oldest first;
// limit 0 omits them.
func Summarize(file string, records []models.LogRecord, url string, limit int) models.Report {
	report := models.Report{
		File:        file,
		URL:         url,
		StatusCodes: map[int]int{},
	}

	var selected []models.LogRecord
	var total float64
	for _, r := range records {
		if url != "" && r.URL != url {
			continue
		}

		if len(selected) == 0 {
			report.MinResponseTime = r.ResponseTime
			report.MaxResponseTime = r.ResponseTime
		}
		report.MinResponseTime = min(report.MinResponseTime, r.ResponseTime)
		report.MaxResponseTime = max(report.MaxResponseTime, r.ResponseTime)
		report.StatusCodes[r.StatusCode]++
		total += r.ResponseTime
		selected = append(selected, r)
	}

	report.Records = len(selected)
	if report.Records == 0 {
		return report
	}

	report.AverageResponseTime = total / float64(report.Records)
	first := selected[0].Time
	last := selected[len(selected)-1].Time
	report.FirstCheck = &first
	report.LastCheck = &last

	if limit > 0 {
		start := max(len(selected)-limit, 0)
		report.Histories = selected[start:]
	}

	return report
}
