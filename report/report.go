// Package report turns check results into their externally consumed
// shapes: the machine JSON/YAML report and the human failure listing.
package report

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/initializ/vancouver/check"
)

// Field order below is load-bearing for the JSON report: consumers diff
// it byte-for-byte, and encoding/json emits struct fields in declaration
// order.

// Fail is one unmet criterion in the report.
type Fail struct {
	Needed      string  `json:"needed" yaml:"needed"`
	PrevVersion *string `json:"prev_version" yaml:"prev_version"`
	Reason      string  `json:"reason" yaml:"reason"`
}

// Dependency is one receipt in the report.
type Dependency struct {
	Fails   []Fail `json:"fails" yaml:"fails"`
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Version string `json:"version" yaml:"version"`
}

// Unused is one never-needed exemption in the report.
type Unused struct {
	Criteria string `json:"criteria" yaml:"criteria"`
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
}

// Report is the complete output of a check run.
type Report struct {
	Dependencies  []Dependency `json:"dependencies" yaml:"dependencies"`
	Total         int          `json:"total" yaml:"total"`
	TotalFailed   int          `json:"total_failed" yaml:"total_failed"`
	TotalPassed   int          `json:"total_passed" yaml:"total_passed"`
	UnusedExempts []Unused     `json:"unused_exempts" yaml:"unused_exempts"`
}

// Build converts a check result into the report shape. Slices are always
// non-nil so empty sets render as [] rather than null.
func Build(res *check.Result) *Report {
	rep := &Report{
		Dependencies:  make([]Dependency, 0, len(res.Receipts)),
		Total:         res.Total,
		TotalFailed:   res.TotalFailed,
		TotalPassed:   res.TotalPassed,
		UnusedExempts: make([]Unused, 0, len(res.Unused)),
	}
	for _, receipt := range res.Receipts {
		dep := Dependency{
			Fails:   make([]Fail, 0, len(receipt.Fails)),
			Name:    receipt.Name,
			Status:  "passed",
			Version: receipt.Version.String(),
		}
		if !receipt.Passed() {
			dep.Status = "failed"
		}
		for _, f := range receipt.Fails {
			fail := Fail{Needed: f.Needed, Reason: f.Reason.String()}
			if f.Prev != nil {
				prev := f.Prev.String()
				fail.PrevVersion = &prev
			}
			dep.Fails = append(dep.Fails, fail)
		}
		rep.Dependencies = append(rep.Dependencies, dep)
	}
	for _, u := range res.Unused {
		rep.UnusedExempts = append(rep.UnusedExempts, Unused{
			Criteria: u.Criteria,
			Name:     u.Name,
			Version:  u.Version.String(),
		})
	}
	return rep
}

// JSON renders the report compactly with a trailing newline.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(data, '\n'), nil
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}
