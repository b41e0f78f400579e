package document

import (
	"encoding/json"
	"io"
	"os"

	"github.com/nodewire/nodewire/pkg/errors"
)

// Read decodes a document from r.
//
// Read performs JSON decoding only; callers that are about to mutate a host
// graph must also run [Document.Validate] first. A document that fails to
// parse as the expected structure is a MALFORMED_DOCUMENT and no host
// mutation may follow.
//
// Read consumes r fully before returning and does not close it. The text
// transport is treated as an opaque byte channel: read fully, never
// streamed.
func Read(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeMalformedDocument, err, "read document")
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode document")
	}
	return d, nil
}

// Write encodes d to w as indented JSON.
//
// Map keys are emitted in sorted order, so writing the same document twice
// produces byte-identical output.
func Write(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// Load reads and decodes the document file at path.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Save writes d to a file at path, creating or truncating it.
func Save(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Write(d, f)
}

// Marshal returns the canonical indented encoding of d.
func Marshal(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
