package rebuild

import (
	"context"
	"strings"
	"testing"

	"github.com/nodewire/nodewire/pkg/codec"
	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/export"
	"github.com/nodewire/nodewire/pkg/host"
	"github.com/nodewire/nodewire/pkg/host/memhost"
)

func mathDocument() document.Document {
	return document.Document{
		FormatVersion: document.CurrentVersion,
		Nodes: []document.Node{
			{
				ID:       "Value",
				Type:     "Value",
				Position: [2]float64{-200, 0},
				Outputs: []document.Socket{
					{Name: "Value", DataKind: codec.KindFloat, Default: 2.0},
				},
			},
			{
				ID:       "Math",
				Type:     "Math",
				Label:    "double",
				Position: [2]float64{0, 0},
				Properties: map[string]codec.Value{
					"operation": "multiply",
				},
				Inputs: []document.Socket{
					{Name: "Value", DataKind: codec.KindFloat, Linked: true},
					{Name: "Value", DataKind: codec.KindFloat, Default: 2.0},
				},
			},
		},
		Links: []document.Link{
			{
				FromNode:   "Value",
				FromSocket: document.RefName("Value"),
				ToNode:     "Math",
				ToSocket:   document.RefIndex(0),
			},
		},
	}
}

func TestRebuildRestoresDocument(t *testing.T) {
	g := memhost.New(nil)
	report, err := Rebuild(context.Background(), mathDocument(), g, Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("warnings: %v", report.Warnings)
	}
	if report.NodesCreated != 2 || report.LinksCreated != 1 {
		t.Errorf("report = %+v", report)
	}

	var math host.Node
	for _, n := range g.Nodes() {
		if n.TypeName() == "Math" {
			math = n
		}
	}
	if math == nil {
		t.Fatal("Math node missing")
	}
	if math.Label() != "double" {
		t.Errorf("label = %q", math.Label())
	}
	// "multiply" normalized through the alias table.
	if op, _ := math.Property("operation"); op != "MULTIPLY" {
		t.Errorf("operation = %v", op)
	}
	if def, _ := math.Inputs()[1].Default(); def != 2.0 {
		t.Errorf("second input default = %v", def)
	}
	if !math.Inputs()[0].Linked() {
		t.Error("first input not linked")
	}
}

func TestRebuildHashIndexSocketRef(t *testing.T) {
	// The "#N" string spelling of an index reference, as reports print
	// it and hand-edited documents use it.
	in := `{
		"format_version": 1,
		"nodes": [
			{"id": "Value", "type": "Value", "position": [-200, 0]},
			{"id": "Math", "type": "Math", "position": [0, 0]}
		],
		"links": [
			{"from_node": "Value", "from_socket": "Value", "to_node": "Math", "to_socket": "#0"}
		]
	}`
	doc, err := document.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	g := memhost.New(nil)
	report, err := Rebuild(context.Background(), doc, g, Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("warnings: %v", report.Warnings)
	}
	if report.LinksCreated != 1 {
		t.Errorf("links created = %d", report.LinksCreated)
	}
	for _, n := range g.Nodes() {
		if n.TypeName() == "Math" && !n.Inputs()[0].Linked() {
			t.Error("first Math input not linked")
		}
	}
}

func TestRebuildFatalVersion(t *testing.T) {
	g := memhost.New(nil)
	seed, _ := g.CreateNode("Value")
	_ = seed

	doc := mathDocument()
	doc.FormatVersion = document.CurrentVersion + 1

	_, err := Rebuild(context.Background(), doc, g, Options{})
	if !errors.Is(err, errors.ErrCodeUnsupportedVersion) {
		t.Fatalf("error = %v, want UNSUPPORTED_VERSION", err)
	}
	// Fatal pre-checks leave the graph untouched.
	if len(g.Nodes()) != 1 {
		t.Errorf("graph mutated before fatal check: %d nodes", len(g.Nodes()))
	}
}

func TestRebuildCancelledContextLeavesGraph(t *testing.T) {
	g := memhost.New(nil)
	if _, err := g.CreateNode("Value"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rebuild(ctx, mathDocument(), g, Options{})
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if len(g.Nodes()) != 1 {
		t.Errorf("graph mutated after cancellation: %d nodes", len(g.Nodes()))
	}
}

func TestRebuildUnknownTypeSkipsNodeOnly(t *testing.T) {
	doc := mathDocument()
	doc.Nodes[0].Type = "Chromesthesia"

	g := memhost.New(nil)
	report, err := Rebuild(context.Background(), doc, g, Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if report.NodesCreated != 1 || report.NodesSkipped != 1 {
		t.Errorf("nodes = %d created, %d skipped", report.NodesCreated, report.NodesSkipped)
	}
	// The link into the skipped node dangles but everything else survives.
	if report.LinksCreated != 0 || report.LinksSkipped != 1 {
		t.Errorf("links = %d created, %d skipped", report.LinksCreated, report.LinksSkipped)
	}
	wantCodes(t, report, errors.ErrCodeUnknownNodeType, errors.ErrCodeDanglingLink)
}

func TestRebuildAliasMissKeepsDefault(t *testing.T) {
	doc := mathDocument()
	doc.Nodes[1].Properties["operation"] = "frobnicate"

	g := memhost.New(nil)
	report, err := Rebuild(context.Background(), doc, g, Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	wantCodes(t, report, errors.ErrCodeAliasNotFound)
	for _, n := range g.Nodes() {
		if n.TypeName() != "Math" {
			continue
		}
		if op, _ := n.Property("operation"); op != "ADD" {
			t.Errorf("operation = %v, want built-in default ADD", op)
		}
	}
}

func TestRebuildShapeMismatchKeepsDefault(t *testing.T) {
	doc := mathDocument()
	doc.Nodes[1].Inputs[1].Default = []any{1.0, 2.0, 3.0}

	g := memhost.New(nil)
	report, err := Rebuild(context.Background(), doc, g, Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	wantCodes(t, report, errors.ErrCodeShapeMismatch)
	for _, n := range g.Nodes() {
		if n.TypeName() != "Math" {
			continue
		}
		if def, _ := n.Inputs()[1].Default(); def != 0.5 {
			t.Errorf("default = %v, want class default 0.5", def)
		}
	}
}

func TestRebuildAssetResolution(t *testing.T) {
	doc := document.Document{
		FormatVersion: document.CurrentVersion,
		Nodes: []document.Node{
			{
				ID:   "Image Texture",
				Type: "ImageTexture",
				Properties: map[string]codec.Value{
					"image": map[string]any{
						"kind":  "reference",
						"asset": "image",
						"name":  "sky.exr",
					},
				},
			},
		},
	}

	t.Run("present", func(t *testing.T) {
		g := memhost.New(nil)
		g.AddAsset(codec.KindImage, "sky.exr")

		report, err := Rebuild(context.Background(), doc, g, Options{})
		if err != nil {
			t.Fatalf("Rebuild: %v", err)
		}
		if !report.Clean() {
			t.Fatalf("warnings: %v", report.Warnings)
		}
		img, _ := g.Nodes()[0].Property("image")
		if ref, ok := img.(codec.Reference); !ok || ref.Name != "sky.exr" {
			t.Errorf("image = %v", img)
		}
	})

	t.Run("missing", func(t *testing.T) {
		g := memhost.New(nil)
		report, err := Rebuild(context.Background(), doc, g, Options{})
		if err != nil {
			t.Fatalf("Rebuild: %v", err)
		}
		wantCodes(t, report, errors.ErrCodeAssetNotFound)
	})
}

func TestRebuildUnsetReferenceRoundTrip(t *testing.T) {
	// Freshly created nodes carry unassigned asset references (an
	// ImageTexture with no image, a SetMaterial with no material).
	// Exporting and re-importing such a graph must stay warning-free:
	// there is no asset to resolve.
	g := memhost.New(nil)
	if _, err := g.CreateNode("ImageTexture"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreateNode("SetMaterial"); err != nil {
		t.Fatal(err)
	}

	doc := export.Snapshot(g)

	restored := memhost.New(nil)
	report, err := Rebuild(context.Background(), doc, restored, Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("warnings: %v", report.Warnings)
	}

	for _, n := range restored.Nodes() {
		if n.TypeName() != "ImageTexture" {
			continue
		}
		img, _ := n.Property("image")
		ref, ok := img.(codec.Reference)
		if !ok || ref.Name != "" {
			t.Errorf("image = %v, want unset reference", img)
		}
	}

	again := export.Snapshot(restored)
	a, _ := doc.Digest()
	b, _ := again.Digest()
	if a != b {
		t.Error("export -> rebuild -> export is not stable")
	}
}

func TestRebuildRoundTrip(t *testing.T) {
	g := memhost.New(nil)
	value, _ := g.CreateNode("Value")
	math, _ := g.CreateNode("Math")
	_ = math.SetProperty("operation", "POWER")
	_ = g.CreateLink(value, value.Outputs()[0], math, math.Inputs()[0])

	doc := export.Snapshot(g)

	restored := memhost.New(nil)
	report, err := Rebuild(context.Background(), doc, restored, Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("warnings: %v", report.Warnings)
	}

	again := export.Snapshot(restored)
	a, _ := doc.Digest()
	b, _ := again.Digest()
	if a != b {
		t.Error("export -> rebuild -> export is not stable")
	}
}

func TestReportSummary(t *testing.T) {
	r := &Report{NodesCreated: 2, LinksCreated: 1}
	r.warn(errors.ErrCodeDanglingLink, "", "a -> b: endpoint node missing")
	r.warn(errors.ErrCodeDanglingLink, "", "c -> d: endpoint node missing")
	r.warn(errors.ErrCodeAliasNotFound, "Math", "property \"operation\": no match")

	s := r.Summary(1)
	if !strings.Contains(s, "nodes: 2 created, 0 skipped") {
		t.Errorf("summary missing counts:\n%s", s)
	}
	if !strings.Contains(s, "... and 1 more DANGLING_LINK") {
		t.Errorf("summary missing truncation marker:\n%s", s)
	}
	if !strings.Contains(s, `node "Math"`) {
		t.Errorf("summary missing alias warning:\n%s", s)
	}
}

func wantCodes(t *testing.T, report *Report, codes ...errors.Code) {
	t.Helper()
	got := make(map[errors.Code]bool)
	for _, it := range report.Warnings {
		got[it.Code] = true
	}
	for _, c := range codes {
		if !got[c] {
			t.Errorf("missing %s in warnings %v", c, report.Warnings)
		}
	}
	if len(got) != len(codes) {
		t.Errorf("unexpected warning codes: %v", report.Warnings)
	}
}
