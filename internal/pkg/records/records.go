package records

const (
	SortTimestampAsc = "TIMESTAMP_ASC"
	OperatorAnd      = "and_"
)

// Record is a JSON object exactly as the API returned it.
type Record map[string]any

// Lookup walks nested objects by key and reports whether the final key exists.
func (r Record) Lookup(path ...string) (any, bool) {
	var current any = map[string]any(r)

	for _, key := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// String returns the value at path when it is a JSON string, or "" otherwise.
func (r Record) String(path ...string) string {
	value, ok := r.Lookup(path...)
	if !ok {
		return ""
	}

	s, _ := value.(string)

	return s
}

// Strings returns the JSON array at path as strings, skipping non-string elements.
func (r Record) Strings(path ...string) []string {
	out := make([]string, 0)

	value, ok := r.Lookup(path...)
	if !ok {
		return out
	}

	items, ok := value.([]any)
	if !ok {
		return out
	}

	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

type LogFilter struct {
	Offset int        `json:"offset"`
	Sort   string     `json:"sort"`
	Logs   LogsFilter `json:"logs"`
	Limit  int        `json:"limit"`
}

type LogsFilter struct {
	Operator  string    `json:"operator"`
	FlowRunID AnyFilter `json:"flow_run_id"`
}

type AnyFilter struct {
	Any []string `json:"any_"`
}

// NewLogFilter selects the first limit logs of the given flow runs, oldest first.
func NewLogFilter(limit int, flowRunIDs ...string) LogFilter {
	return LogFilter{
		Offset: 0,
		Sort:   SortTimestampAsc,
		Logs: LogsFilter{
			Operator: OperatorAnd,
			FlowRunID: AnyFilter{
				Any: flowRunIDs,
			},
		},
		Limit: limit,
	}
}
