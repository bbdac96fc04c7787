package jobs

import (
	"time"

	"opsnap/internal/schedule"
	"opsnap/pkg/logx"
)

// BuildReports projects every record's schedule onto the window and assembles
// the dashboard rows. Unparseable schedules or anchors degrade to an empty
// timeline for that row; a missing timeline beats a failed generation run.
func BuildReports(records []Record, w schedule.Window, loc *time.Location, log logx.Logger) []Report {
	if loc == nil {
		loc = time.Local
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	out := make([]Report, 0, len(records))
	for _, rec := range records {
		rep := Report{
			ID:       rec.ID,
			Name:     rec.Name,
			Schedule: rec.Schedule,
			Status:   rec.Status,
			LastRun:  rec.LastRun,
			NextRuns: []string{},
		}
		if rep.Name == "" {
			rep.Name = "Unnamed"
		}
		if rep.Status == "" {
			rep.Status = "unknown"
		}

		spec, err := schedule.Parse(rec.Schedule, loc)
		if err != nil {
			log.Debug("job schedule not projectable", logx.String("id", rec.ID), logx.Err(err))
			out = append(out, rep)
			continue
		}

		var anchor time.Time
		if spec.Kind != schedule.KindOnce {
			a, ok := resolveAnchor(rec.Next, w.Now, loc)
			if !ok {
				out = append(out, rep)
				continue
			}
			anchor = a
		}

		for _, ts := range schedule.Project(spec, anchor, w) {
			rep.NextRuns = append(rep.NextRuns, ts.In(loc).Format(time.RFC3339))
		}
		out = append(out, rep)
	}
	return out
}
