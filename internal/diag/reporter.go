package diag

// Reporter receives diagnostics from the passes. BagReporter stores them,
// Dedup drops repeats before forwarding.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder collects notes for one diagnostic until Emit.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary Location, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(loc Location, msg string) *ReportBuilder {
	if b != nil {
		b.diag.Notes = append(b.diag.Notes, Note{Loc: loc, Msg: msg})
	}
	return b
}

// Emit hands the diagnostic to the reporter; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
}

// Diagnostic returns what Emit would send.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter appends to Bag, silently dropping what exceeds its limit.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// Dedup forwards each distinct diagnostic once. Notes do not count toward
// distinctness; the first report wins.
type Dedup struct {
	next Reporter
	seen map[identity]struct{}
}

func NewDedup(next Reporter) *Dedup {
	return &Dedup{next: next, seen: make(map[identity]struct{})}
}

func (r *Dedup) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := d.identity()
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
