package model

// ScanError 记录单文件扫描失败信息。
// 设计为“错误不阻断全量扫描”，便于大仓库分析时容错。
type ScanError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// FileReport 是单个文件的检查产物。
// Error 非空时表示该文件读取或解码失败，其余字段为空。
type FileReport struct {
	Path             string
	MethodViolations []MethodViolation
	LineViolations   []LineViolation
	Error            *ScanError
}

// Violations 返回该文件的违规总数。
func (r FileReport) Violations() int {
	return len(r.MethodViolations) + len(r.LineViolations)
}

// Summary 是一次扫描的汇总计数。
type Summary struct {
	Files      int64 `json:"files" yaml:"files"`
	Violations int64 `json:"violations" yaml:"violations"`
	Errors     int64 `json:"errors" yaml:"errors"`
}

// Add 将一个文件的结果累加到汇总中。
func (s *Summary) Add(report FileReport) {
	if report.Error != nil {
		s.Errors++
		return
	}
	s.Files++
	s.Violations += int64(report.Violations())
}

// ScanResult 是缓冲输出格式（table/json/yaml）的完整模型。
type ScanResult struct {
	ScannedPath      string            `json:"scanned_path" yaml:"scanned_path"`
	Check            string            `json:"check" yaml:"check"`
	MethodViolations []MethodViolation `json:"method_violations,omitempty" yaml:"method_violations,omitempty"`
	LineViolations   []LineViolation   `json:"line_violations,omitempty" yaml:"line_violations,omitempty"`
	Errors           []ScanError       `json:"errors" yaml:"errors"`
	Summary          Summary           `json:"summary" yaml:"summary"`
}

// Append 把单文件结果并入完整结果。
func (r *ScanResult) Append(report FileReport) {
	r.Summary.Add(report)
	if report.Error != nil {
		r.Errors = append(r.Errors, *report.Error)
		return
	}
	r.MethodViolations = append(r.MethodViolations, report.MethodViolations...)
	r.LineViolations = append(r.LineViolations, report.LineViolations...)
}
