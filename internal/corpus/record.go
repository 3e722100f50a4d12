package corpus

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// JobRecord is one posting plus its derived text and embedding.
type JobRecord struct {
	JobID          int64     `json:"job_id"`
	JobTitle       string    `json:"job_title"`
	JobDesc        string    `json:"job_desc"`
	Qualification  string    `json:"qualification"`
	Experience     string    `json:"experience"`
	WorkType       string    `json:"work_type"`
	JobLocation    string    `json:"job_location"`
	Salary         string    `json:"salary"`
	DatePosted     string    `json:"date_posted"`
	OrgName        string    `json:"org_name"`
	ApplyLink      string    `json:"apply_link"`
	CombinedText   string    `json:"combined_job_text"`
	AverageSalaryK *float64  `json:"Average_Salary_K"`
	Embedding      []float32 `json:"embedding"`
}

// NormalizeColumn maps a source column name to its canonical form: trimmed,
// lower-cased, spaces replaced with underscores ("Org Name" -> "org_name").
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// RecordFromRow builds a JobRecord from a source row. Missing text columns
// become empty strings; a row without a usable job_id is rejected.
func RecordFromRow(row map[string]any) (JobRecord, error) {
	cols := make(map[string]any, len(row))
	for k, v := range row {
		cols[NormalizeColumn(k)] = v
	}

	id, ok := toInt64(cols["job_id"])
	if !ok {
		return JobRecord{}, fmt.Errorf("row has no usable job_id (%v)", cols["job_id"])
	}

	rec := JobRecord{
		JobID:         id,
		JobTitle:      toText(cols["job_title"]),
		JobDesc:       toText(cols["job_desc"]),
		Qualification: toText(cols["qualification"]),
		Experience:    toText(cols["experience"]),
		WorkType:      toText(cols["work_type"]),
		JobLocation:   toText(cols["job_location"]),
		Salary:        toText(cols["salary"]),
		DatePosted:    toText(cols["date_posted"]),
		OrgName:       toText(cols["org_name"]),
		ApplyLink:     toText(cols["apply_link"]),
	}
	rec.derive()
	return rec, nil
}

// derive recomputes the fields that depend only on the source columns.
func (r *JobRecord) derive() {
	r.CombinedText = strings.Join([]string{
		r.JobTitle,
		r.JobDesc,
		r.Qualification,
		r.Experience,
		r.WorkType,
		r.JobLocation,
	}, " ")

	r.AverageSalaryK = nil
	if v, ok := ParseSalaryK(r.Salary); ok {
		r.AverageSalaryK = &v
	}
}

// ParseSalaryK averages a posting's salary range in thousands:
// "$80K-$120K" gives 100. Strings without a two-sided numeric range report ok=false.
func ParseSalaryK(s string) (float64, bool) {
	if !strings.Contains(s, "-") {
		return 0, false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, false
	}
	lo, okLo := parseThousands(parts[0])
	hi, okHi := parseThousands(parts[1])
	if !okLo || !okHi {
		return 0, false
	}
	return (lo + hi) / 2, true
}

func parseThousands(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "K"), "k")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
