package describe

import (
	"strings"
	"testing"

	"github.com/nodewire/nodewire/pkg/host/memhost"
)

func TestGraphReport(t *testing.T) {
	g := memhost.New(nil)
	value, _ := g.CreateNode("Value")
	math, _ := g.CreateNode("Math")
	math.SetLabel("scale")
	_ = math.SetProperty("operation", "MULTIPLY")
	_ = g.CreateLink(value, value.Outputs()[0], math, math.Inputs()[0])

	report := Graph(g)

	for _, want := range []string{
		"Total Nodes: 2",
		"Node 1: 'Value' (Type: Value)",
		"Node 2: 'Math' (Type: Math)",
		`  - Label: "scale"`,
		"  - Attribute: Operation = MULTIPLY",
		"    - 'Value': (connected)",
		"    - 'Value': Default = 0.5",
		"Connection 1:",
		"  - From Node: 'Value' (Socket: 'Value')",
		"  - To Node:   'Math' (Socket: 'Value')",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestGraphReportEmpty(t *testing.T) {
	report := Graph(memhost.New(nil))

	if !strings.Contains(report, "Total Nodes: 0") {
		t.Errorf("report missing count:\n%s", report)
	}
	if !strings.Contains(report, "No nodes in this graph.") {
		t.Errorf("report missing empty marker:\n%s", report)
	}
	if !strings.Contains(report, "No connections in this graph.") {
		t.Errorf("report missing empty connections marker:\n%s", report)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"float rounds", 0.12345, "0.123"},
		{"whole float", 2.0, "2"},
		{"tuple", []float64{1, 0.5, 0}, "[1, 0.5, 0]"},
		{"string quoted", "linear", `"linear"`},
		{"nil", nil, "None"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.in); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTemplateMentionsEveryDialectElement(t *testing.T) {
	tpl := Template()
	for _, want := range []string{"--- NODES ---", "--- CONNECTIONS ---", "Attribute:", "Default ="} {
		if !strings.Contains(tpl, want) {
			t.Errorf("template missing %q", want)
		}
	}
}
