package domain

// MatchResult is a candidate file scored against a wire name
type MatchResult struct {
	File            FileDescriptor `json:"file"`
	Score           int            `json:"relevanceScore"`
	MatchedKeywords []string       `json:"matchedKeywords"`
}

// Report is the caller-supplied report that datasheet fields are merged into
type Report map[string]interface{}

// Clone returns a shallow copy of the report
func (r Report) Clone() Report {
	out := make(Report, len(r)+4)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SearchRequest is the body of a datasheet search
type SearchRequest struct {
	WireName string `json:"wire_name"`
}

// GetDatasheetRequest asks for the extracted content of one file
type GetDatasheetRequest struct {
	FileID   string `json:"file_id"`
	WireName string `json:"wire_name"`
}

// IntegrateRequest merges the best datasheet for a wire into a report
type IntegrateRequest struct {
	WireName   string `json:"wire_name"`
	ReportData Report `json:"report_data"`
}

// AutoReportRequest generates a fresh report for a wire
type AutoReportRequest struct {
	WireName       string                 `json:"wire_name"`
	StandardName   string                 `json:"standard_name"`
	AdditionalData map[string]interface{} `json:"additional_data"`
}
