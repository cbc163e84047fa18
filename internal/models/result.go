package models

type ProcessingResult struct {
	Description string
	Succeeded   bool
	RecordID    string
	Error       string
}

type Failure struct {
	Description string `json:"description"`
	Error       string `json:"error"`
}

// Summary is the aggregate outcome of one webhook invocation. Failures are
// reported next to the processed tasks so callers can audit partial runs.
type Summary struct {
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	Tasks     []string  `json:"tasks"`
	Failures  []Failure `json:"failures"`
}

func NewSummary(results []ProcessingResult) Summary {
	summary := Summary{
		Tasks:    []string{},
		Failures: []Failure{},
	}
	for _, r := range results {
		if r.Succeeded {
			summary.Tasks = append(summary.Tasks, r.Description)
			continue
		}
		summary.Failures = append(summary.Failures, Failure{
			Description: r.Description,
			Error:       r.Error,
		})
	}
	summary.Processed = len(summary.Tasks)
	summary.Failed = len(summary.Failures)
	return summary
}
