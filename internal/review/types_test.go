package review

import "testing"

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"critical", SeverityCritical},
		{"high", SeverityHigh},
		{"medium", SeverityMedium},
		{"low", SeverityLow},
		{"bogus", SeverityMedium},
		{"", SeverityMedium},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.in); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"security", CategorySecurity},
		{"best_practice", CategoryBestPractice},
		{"missing", CategoryMissing},
		{"nonsense", CategoryImprovement},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestComputeVerdict(t *testing.T) {
	tests := []struct {
		name     string
		findings []Finding
		want     Verdict
	}{
		{"no findings", nil, VerdictPass},
		{"only low and medium", []Finding{
			{Severity: SeverityLow}, {Severity: SeverityMedium},
		}, VerdictPass},
		{"single high fails", []Finding{
			{Severity: SeverityLow}, {Severity: SeverityHigh},
		}, VerdictFail},
		{"critical fails", []Finding{
			{Severity: SeverityCritical},
		}, VerdictFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeVerdict(tt.findings); got != tt.want {
				t.Errorf("ComputeVerdict = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeSummary(t *testing.T) {
	s := ComputeSummary([]Finding{
		{Severity: SeverityCritical},
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityLow},
	})
	if s.Total != 4 {
		t.Errorf("total = %d, want 4", s.Total)
	}
	if s.Counts.Critical != 1 || s.Counts.High != 2 || s.Counts.Low != 1 {
		t.Errorf("counts = %+v", s.Counts)
	}
	if s.HighestSeverity != SeverityCritical {
		t.Errorf("highest = %s, want critical", s.HighestSeverity)
	}
}

func TestFindingIDStable(t *testing.T) {
	f := Finding{Path: "CLAUDE.md", Line: 3, Message: "missing test command"}
	id1 := FindingID(f)
	id2 := FindingID(f)
	if id1 != id2 {
		t.Errorf("id not stable: %s vs %s", id1, id2)
	}
	f.Message = "different message"
	if FindingID(f) == id1 {
		t.Error("id did not change with message")
	}
}
