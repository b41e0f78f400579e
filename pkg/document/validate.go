package document

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nodewire/nodewire/pkg/errors"
)

// Validate checks the structural invariants that must hold before a
// document is allowed anywhere near a host graph:
//
//   - format_version is present and not newer than [CurrentVersion]
//   - node ids are well-formed and unique within the document
//   - node types are plausible class identifiers
//   - every link names both endpoint nodes and both sockets
//
// A version failure returns UNSUPPORTED_VERSION; everything else returns
// MALFORMED_DOCUMENT. Both are fatal: import aborts with no state change.
// Link endpoint and socket resolution is deliberately not checked here — a
// link naming an absent node is a per-item DANGLING_LINK at import time,
// never a reason to reject the whole document.
func (d Document) Validate() error {
	if err := validation.ValidateStruct(&d,
		validation.Field(&d.FormatVersion, validation.Required, validation.Min(1)),
	); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedDocument, err, "document header")
	}

	if d.FormatVersion > CurrentVersion {
		return errors.New(errors.ErrCodeUnsupportedVersion,
			"document format version %d is newer than supported version %d",
			d.FormatVersion, CurrentVersion)
	}

	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDocument, err, "nodes[%d]", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeMalformedDocument, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true

		if err := errors.ValidateTypeName(n.Type); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDocument, err, "node %q", n.ID)
		}
		for name := range n.Properties {
			if err := errors.ValidatePropertyName(name); err != nil {
				return errors.Wrap(errors.ErrCodeMalformedDocument, err, "node %q", n.ID)
			}
		}
	}

	for i, l := range d.Links {
		if err := validation.ValidateStruct(&l,
			validation.Field(&l.FromNode, validation.Required),
			validation.Field(&l.ToNode, validation.Required),
		); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDocument, err, "links[%d]", i)
		}
		if l.FromSocket.IsZero() || l.ToSocket.IsZero() {
			return errors.New(errors.ErrCodeMalformedDocument,
				"links[%d] is missing a socket reference", i)
		}
	}

	return nil
}
