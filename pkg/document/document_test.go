package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nodewire/nodewire/pkg/codec"
	"github.com/nodewire/nodewire/pkg/errors"
)

func sampleDocument() Document {
	return Document{
		FormatVersion: 1,
		Nodes: []Node{
			{
				ID:       "Math",
				Type:     "Math",
				Position: [2]float64{0, 0},
				Properties: map[string]codec.Value{
					"operation": "ADD",
				},
				Inputs: []Socket{
					{Name: "Value", DataKind: codec.KindFloat, Default: 0.5},
					{Name: "Value", DataKind: codec.KindFloat, Default: 1.0},
				},
				Outputs: []Socket{
					{Name: "Value", DataKind: codec.KindFloat},
				},
			},
			{
				ID:       "Group Output",
				Type:     "GroupOutput",
				Position: [2]float64{400, 0},
				Inputs: []Socket{
					{Name: "Result", DataKind: codec.KindFloat, Linked: true},
				},
			},
		},
		Links: []Link{
			{FromNode: "Math", FromSocket: RefName("Value"), ToNode: "Group Output", ToSocket: RefName("Result")},
		},
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	d := sampleDocument()

	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.FormatVersion != d.FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", got.FormatVersion, d.FormatVersion)
	}
	if len(got.Nodes) != 2 || len(got.Links) != 1 {
		t.Fatalf("got %d nodes, %d links", len(got.Nodes), len(got.Links))
	}
	if got.Nodes[0].Properties["operation"] != "ADD" {
		t.Errorf("operation = %v", got.Nodes[0].Properties["operation"])
	}
	if got.Links[0].FromSocket.Name != "Value" {
		t.Errorf("FromSocket = %v", got.Links[0].FromSocket)
	}
}

func TestWriteDeterministic(t *testing.T) {
	d := sampleDocument()

	var a, b bytes.Buffer
	if err := Write(d, &a); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(d, &b); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two writes of the same document differ")
	}

	da, err := d.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	db, err := d.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if da != db {
		t.Errorf("digests differ: %s vs %s", da, db)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "this is not json"},
		{"wrong shape", `{"nodes": "oops"}`},
		{"truncated", `{"format_version": 1, "nodes": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeMalformedDocument) {
				t.Errorf("Read error = %v, want MALFORMED_DOCUMENT", err)
			}
		})
	}
}

func TestSocketRefForms(t *testing.T) {
	in := `{
		"format_version": 1,
		"nodes": [
			{"id": "a", "type": "Math", "position": [0, 0]},
			{"id": "b", "type": "Math", "position": [200, 0]}
		],
		"links": [
			{"from_node": "a", "from_socket": 0, "to_node": "b", "to_socket": "Value"}
		]
	}`

	d, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	l := d.Links[0]
	if !l.FromSocket.ByIndex || l.FromSocket.Index != 0 {
		t.Errorf("FromSocket = %+v, want index 0", l.FromSocket)
	}
	if l.ToSocket.ByIndex || l.ToSocket.Name != "Value" {
		t.Errorf("ToSocket = %+v, want name Value", l.ToSocket)
	}

	if got := l.FromSocket.String(); got != "#0" {
		t.Errorf("FromSocket.String() = %q", got)
	}

	// Index references survive a write/read cycle as numbers.
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `"from_socket": 0`) {
		t.Error("index reference was not written as a number")
	}
}

func TestSocketRefHashForm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want SocketRef
		err  bool
	}{
		{"hash index", `"#0"`, RefIndex(0), false},
		{"hash multi digit", `"#12"`, RefIndex(12), false},
		{"bare hash is a name", `"#"`, RefName("#"), false},
		{"hash word is a name", `"#top"`, RefName("#top"), false},
		{"plain name", `"Value"`, RefName("Value"), false},
		{"negative hash index", `"#-1"`, SocketRef{}, true},
		{"negative number", `-1`, SocketRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r SocketRef
			err := r.UnmarshalJSON([]byte(tt.in))
			if tt.err {
				if !errors.Is(err, errors.ErrCodeMalformedDocument) {
					t.Errorf("UnmarshalJSON(%s) = %v, want MALFORMED_DOCUMENT", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalJSON(%s): %v", tt.in, err)
			}
			if r != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %+v, want %+v", tt.in, r, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Document)
		wantCode errors.Code
	}{
		{"valid", func(d *Document) {}, ""},
		{
			"missing version",
			func(d *Document) { d.FormatVersion = 0 },
			errors.ErrCodeMalformedDocument,
		},
		{
			"future version",
			func(d *Document) { d.FormatVersion = CurrentVersion + 1 },
			errors.ErrCodeUnsupportedVersion,
		},
		{
			"duplicate node id",
			func(d *Document) { d.Nodes[1].ID = d.Nodes[0].ID },
			errors.ErrCodeMalformedDocument,
		},
		{
			"empty node id",
			func(d *Document) { d.Nodes[0].ID = "" },
			errors.ErrCodeMalformedDocument,
		},
		{
			"bad type name",
			func(d *Document) { d.Nodes[0].Type = "no such/type" },
			errors.ErrCodeMalformedDocument,
		},
		{
			"missing link socket",
			func(d *Document) { d.Links[0].ToSocket = SocketRef{} },
			errors.ErrCodeMalformedDocument,
		},
		{
			// Links to absent nodes are a per-item import concern, not a
			// structural failure.
			"link to absent node is allowed",
			func(d *Document) { d.Links[0].ToNode = "missing" },
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDocument()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	d := Template()
	if d.FormatVersion != CurrentVersion {
		t.Errorf("FormatVersion = %d", d.FormatVersion)
	}
	if len(d.Nodes) != 0 || len(d.Links) != 0 {
		t.Error("template is not empty")
	}
	if err := d.Validate(); err != nil {
		t.Errorf("template does not validate: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"nodes": []`) || !strings.Contains(out, `"links": []`) {
		t.Errorf("template output missing empty arrays:\n%s", out)
	}
}

func TestStarter(t *testing.T) {
	d := Starter()
	if err := d.Validate(); err != nil {
		t.Fatalf("starter does not validate: %v", err)
	}
	if d.FindNode("Group Input") == nil || d.FindNode("Group Output") == nil {
		t.Error("starter is missing group nodes")
	}
	if d.FindNode("nope") != nil {
		t.Error("FindNode returned a node for an unknown id")
	}
}
