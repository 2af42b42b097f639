package models

// FlaggedClause is one risky clause found in an uploaded document.
type FlaggedClause struct {
	Clause         string `json:"clause"`
	Severity       string `json:"severity"` // low | medium | high | critical
	Explanation    string `json:"explanation"`
	Impact         string `json:"impact"`
	Recommendation string `json:"recommendation"`
}

// KeyTerm is a notable extracted term (rate, tenure, penalty, ...).
type KeyTerm struct {
	Term  string `json:"term"`
	Value string `json:"value"`
}

// DocumentFileMeta describes the analysed upload. It is attached after
// the completion call and is always present regardless of model output.
type DocumentFileMeta struct {
	FileName      string `json:"file_name"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	CharsAnalysed int    `json:"chars_analysed"`
	Truncated     bool   `json:"truncated"`
}

// DocumentRiskReport is the output of the document branch. It has no
// relationship to the farmer pipeline entities.
type DocumentRiskReport struct {
	RiskLevel        string           `json:"risk_level"` // low | medium | high | critical
	DangerScore      int              `json:"danger_score"` // 0-100
	FlaggedClauses   []FlaggedClause  `json:"flagged_clauses"`
	FavorableClauses []string         `json:"favorable_clauses"`
	KeyTerms         []KeyTerm        `json:"key_terms"`
	Verdict          string           `json:"verdict"`
	File             DocumentFileMeta `json:"file"`
}
