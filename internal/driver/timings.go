package driver

import (
	"encoding/json"
	"fmt"

	"kplc/internal/diag"
	"kplc/internal/observ"
)

// timingDiagnostic wraps the report of timer in an ObsTimings info
// diagnostic whose single note is the report as JSON.
func timingDiagnostic(kind, path string, timer *observ.Timer) (diag.Diagnostic, error) {
	report := timer.Report()
	report.Kind, report.Path = kind, path
	data, err := json.Marshal(report)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	at := diag.Location{File: path}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS)
	return diag.New(diag.SevInfo, diag.ObsTimings, at, msg).WithNote(at, string(data)), nil
}

// appendTimings adds the timing diagnostic even to a full bag.
func appendTimings(bag *diag.Bag, kind, path string, timer *observ.Timer) {
	if bag == nil {
		return
	}
	d, err := timingDiagnostic(kind, path, timer)
	if err != nil || bag.Add(d) {
		return
	}
	extra := diag.NewBag(1)
	extra.Add(d)
	bag.Merge(extra)
}
