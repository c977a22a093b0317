package generator

import (
	"sort"
	"strings"
	"time"
)

type ReportSignal struct {
	Code     string  `json:"code"`
	Stage    string  `json:"stage"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value,omitempty"`
}

type StageMetric struct {
	Name       string             `json:"name"`
	Status     string             `json:"status"`
	StartedAt  string             `json:"started_at"`
	FinishedAt string             `json:"finished_at"`
	DurationMS int64              `json:"duration_ms"`
	Counters   map[string]float64 `json:"counters,omitempty"`
	Notes      []string           `json:"notes,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type FolderMetric struct {
	Name         string `json:"name"`
	RequestCount int    `json:"request_count"`
	QueryParams  int    `json:"query_params"`
}

type ReportSummary struct {
	StageCount        int            `json:"stage_count"`
	FolderCount       int            `json:"folder_count"`
	RequestCount      int            `json:"request_count"`
	FailedStages      int            `json:"failed_stages"`
	SignalsBySeverity map[string]int `json:"signals_by_severity"`
}

// RunReport records what each pipeline stage did. It is written next to the
// collection when a report path is configured.
type RunReport struct {
	Version     string         `json:"version"`
	HelpURL     string         `json:"help_url"`
	OutputPath  string         `json:"output_path"`
	GeneratedAt string         `json:"generated_at"`
	Stages      []StageMetric  `json:"stages"`
	Folders     []FolderMetric `json:"folders"`
	Signals     []ReportSignal `json:"signals"`
	Summary     ReportSummary  `json:"summary"`
}

type StageHandle struct {
	name    string
	started time.Time
}

func NewRunReport(helpURL, outputPath string) *RunReport {
	return &RunReport{
		Version:     "v1",
		HelpURL:     helpURL,
		OutputPath:  outputPath,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stages:      []StageMetric{},
		Folders:     []FolderMetric{},
		Signals:     []ReportSignal{},
	}
}

func (r *RunReport) BeginStage(name string) StageHandle {
	return StageHandle{name: strings.TrimSpace(name), started: time.Now().UTC()}
}

func (r *RunReport) EndStage(h StageHandle, counters map[string]float64, err error) {
	if r == nil || h.name == "" {
		return
	}
	finished := time.Now().UTC()
	m := StageMetric{
		Name:       h.name,
		Status:     "ok",
		StartedAt:  h.started.Format(time.RFC3339Nano),
		FinishedAt: finished.Format(time.RFC3339Nano),
		DurationMS: finished.Sub(h.started).Milliseconds(),
		Counters:   cleanCounters(counters),
	}
	if err != nil {
		m.Status = "error"
		m.Error = err.Error()
	}
	r.Stages = append(r.Stages, m)
}

// AddNote attaches a note to the most recent stage with the given name.
func (r *RunReport) AddNote(stage, note string) {
	if r == nil || strings.TrimSpace(note) == "" {
		return
	}
	for i := len(r.Stages) - 1; i >= 0; i-- {
		if r.Stages[i].Name == stage {
			r.Stages[i].Notes = append(r.Stages[i].Notes, strings.TrimSpace(note))
			return
		}
	}
}

func (r *RunReport) AddSignal(code, stage, severity, message string, value float64) {
	if r == nil {
		return
	}
	s := ReportSignal{
		Code:     strings.TrimSpace(code),
		Stage:    strings.TrimSpace(stage),
		Severity: strings.ToLower(strings.TrimSpace(severity)),
		Message:  strings.TrimSpace(message),
		Value:    value,
	}
	if s.Code == "" || s.Stage == "" || s.Severity == "" || s.Message == "" {
		return
	}
	r.Signals = append(r.Signals, s)
}

// RecordCollection adds one folder metric per folder of c.
func (r *RunReport) RecordCollection(c *Collection) {
	if r == nil || c == nil {
		return
	}
	for _, f := range c.Item {
		m := FolderMetric{Name: f.Name, RequestCount: len(f.Item)}
		for _, it := range f.Item {
			m.QueryParams += len(it.Request.URL.Query)
		}
		r.Folders = append(r.Folders, m)
	}
}

func (r *RunReport) Finalize() {
	if r == nil {
		return
	}
	r.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	severityCount := map[string]int{
		"critical": 0,
		"warning":  0,
		"info":     0,
	}
	sort.SliceStable(r.Signals, func(i, j int) bool {
		return signalPriority(r.Signals[i].Severity) > signalPriority(r.Signals[j].Severity)
	})
	for _, s := range r.Signals {
		severityCount[s.Severity]++
	}

	failed := 0
	for _, st := range r.Stages {
		if st.Status != "ok" {
			failed++
		}
	}

	requests := 0
	for _, f := range r.Folders {
		requests += f.RequestCount
	}

	r.Summary = ReportSummary{
		StageCount:        len(r.Stages),
		FolderCount:       len(r.Folders),
		RequestCount:      requests,
		FailedStages:      failed,
		SignalsBySeverity: severityCount,
	}
}

func cleanCounters(raw map[string]float64) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func signalPriority(severity string) int {
	switch severity {
	case "critical":
		return 3
	case "warning":
		return 2
	default:
		return 1
	}
}
