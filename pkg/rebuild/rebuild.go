// Package rebuild restores a live host graph from a portable document.
//
// The restore is a destructive rebuild: the target graph is cleared and
// reconstructed item by item. Structural problems are rejected before
// anything is touched; everything after the clear degrades per item into
// report warnings, so one bad property never costs the whole document.
package rebuild

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nodewire/nodewire/pkg/alias"
	"github.com/nodewire/nodewire/pkg/codec"
	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/host"
	"github.com/nodewire/nodewire/pkg/observability"
)

// Options configures a rebuild.
type Options struct {
	// Logger receives per-item debug traces. Nil discards them.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Rebuild replaces the contents of target with the graph described by
// doc.
//
// Version and structure are checked before any mutation; those failures
// return a fatal error and leave target untouched. Past that point the
// graph is cleared and every further failure is isolated to its item and
// collected into the report.
func Rebuild(ctx context.Context, doc document.Document, target host.Graph, opts Options) (*Report, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	// Last chance to bail without damage: once the clear runs, the
	// rebuild finishes regardless.
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rebuild cancelled")
	}

	logger := opts.logger()
	hooks := observability.Codec()
	hooks.OnImportStart(ctx, len(doc.Nodes), len(doc.Links))
	start := time.Now()

	report := &Report{}
	target.ClearAll()

	live := make(map[string]host.Node, len(doc.Nodes))
	for _, rec := range doc.Nodes {
		n, err := target.CreateNode(rec.Type)
		if err != nil {
			report.NodesSkipped++
			report.warn(errors.ErrCodeUnknownNodeType, rec.ID, "cannot instantiate type %q", rec.Type)
			hooks.OnItemSkipped(ctx, string(errors.ErrCodeUnknownNodeType))
			logger.Debug("node skipped", "id", rec.ID, "type", rec.Type, "err", err)
			continue
		}
		report.NodesCreated++
		live[rec.ID] = n

		n.SetPosition(rec.Position[0], rec.Position[1])
		if rec.Size != nil {
			n.SetSize(rec.Size[0], rec.Size[1])
		}
		if rec.Label != "" {
			n.SetLabel(rec.Label)
		}

		applyProperties(ctx, rec, n, target, report, logger)
		applyDefaults(ctx, rec, n, target, report, logger)
	}

	for _, l := range doc.Links {
		createLink(ctx, l, live, target, report, logger)
	}

	hooks.OnImportComplete(ctx, report.NodesCreated, len(report.Warnings), time.Since(start), nil)
	return report, nil
}

// applyProperties decodes and applies rec's property map in name order.
// A failed property leaves the node's built-in default in place.
func applyProperties(ctx context.Context, rec document.Node, n host.Node, g host.Graph, report *Report, logger *log.Logger) {
	if len(rec.Properties) == 0 {
		return
	}

	specs := make(map[string]host.PropertySpec, len(n.Properties()))
	for _, s := range n.Properties() {
		specs[s.Name] = s
	}

	names := make([]string, 0, len(rec.Properties))
	for name := range rec.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, ok := specs[name]
		if !ok {
			warnItem(ctx, report, errors.ErrCodePropertyRejected, rec.ID, logger,
				"property %q not declared by type %q", name, rec.Type)
			report.PropertiesWarned++
			continue
		}

		value, code, detail := decodeValue(rec.Properties[name], spec.Kind, spec.Scope, g)
		if code != "" {
			warnItem(ctx, report, code, rec.ID, logger, "property %q: %s", name, detail)
			report.PropertiesWarned++
			continue
		}
		if err := n.SetProperty(name, value); err != nil {
			warnItem(ctx, report, errors.ErrCodePropertyRejected, rec.ID, logger,
				"property %q: %s", name, errors.UserMessage(err))
			report.PropertiesWarned++
			continue
		}
		report.PropertiesApplied++
	}
}

// applyDefaults restores socket default values. Sockets are matched by
// name first, positional index second, which tolerates renamed labels.
func applyDefaults(ctx context.Context, rec document.Node, n host.Node, g host.Graph, report *Report, logger *log.Logger) {
	apply := func(records []document.Socket, sockets []host.Socket, direction string) {
		for i, sr := range records {
			if sr.Default == nil {
				continue
			}
			sock := matchSocket(sockets, sr.Name, i)
			if sock == nil {
				warnItem(ctx, report, errors.ErrCodePropertyRejected, rec.ID, logger,
					"%s socket %q has no counterpart", direction, sr.Name)
				report.PropertiesWarned++
				continue
			}

			value, code, detail := decodeValue(sr.Default, sock.DataKind(), "", g)
			if code != "" {
				warnItem(ctx, report, code, rec.ID, logger, "%s socket %q: %s", direction, sr.Name, detail)
				report.PropertiesWarned++
				continue
			}
			if err := sock.SetDefault(value); err != nil {
				warnItem(ctx, report, errors.ErrCodePropertyRejected, rec.ID, logger,
					"%s socket %q: %s", direction, sr.Name, errors.UserMessage(err))
				report.PropertiesWarned++
				continue
			}
			report.PropertiesApplied++
		}
	}
	apply(rec.Inputs, n.Inputs(), "input")
	apply(rec.Outputs, n.Outputs(), "output")
}

func createLink(ctx context.Context, l document.Link, live map[string]host.Node, g host.Graph, report *Report, logger *log.Logger) {
	from, okFrom := live[l.FromNode]
	to, okTo := live[l.ToNode]
	if !okFrom || !okTo {
		report.LinksSkipped++
		report.warn(errors.ErrCodeDanglingLink, "", "%s -> %s: endpoint node missing", l.FromNode, l.ToNode)
		observability.Codec().OnItemSkipped(ctx, string(errors.ErrCodeDanglingLink))
		logger.Debug("link skipped", "from", l.FromNode, "to", l.ToNode)
		return
	}

	output := resolveSocket(from.Outputs(), l.FromSocket)
	input := resolveSocket(to.Inputs(), l.ToSocket)
	if output == nil || input == nil {
		report.LinksSkipped++
		report.warn(errors.ErrCodeDanglingLink, "", "%s.%s -> %s.%s: socket not found",
			l.FromNode, l.FromSocket, l.ToNode, l.ToSocket)
		observability.Codec().OnItemSkipped(ctx, string(errors.ErrCodeDanglingLink))
		return
	}

	if err := g.CreateLink(from, output, to, input); err != nil {
		report.LinksSkipped++
		report.warn(errors.ErrCodeLinkRejected, "", "%s.%s -> %s.%s: %s",
			l.FromNode, l.FromSocket, l.ToNode, l.ToSocket, errors.UserMessage(err))
		observability.Codec().OnItemSkipped(ctx, string(errors.ErrCodeLinkRejected))
		logger.Debug("link rejected", "from", l.FromNode, "to", l.ToNode, "err", err)
		return
	}
	report.LinksCreated++
}

// decodeValue runs the codec, alias normalization, and asset resolution
// for one encoded value. A non-empty code means the value could not be
// produced and the caller should keep the host's current one.
func decodeValue(raw codec.Value, kind codec.DataKind, scope alias.Scope, g host.Graph) (any, errors.Code, string) {
	value, err := codec.Decode(raw, kind)
	if err != nil {
		return nil, errors.GetCode(err), errors.UserMessage(err)
	}

	if scope != "" {
		s, ok := value.(string)
		if !ok {
			return nil, errors.ErrCodePropertyRejected, "enum value is not a string"
		}
		canonical, err := alias.Normalize(s, scope)
		if err != nil {
			return nil, errors.ErrCodeAliasNotFound, errors.UserMessage(err)
		}
		return canonical, "", ""
	}

	if ref, ok := value.(codec.Reference); ok {
		// An empty name is an unset reference: there is no asset to look
		// up, the slot just stays unassigned.
		if ref.Name == "" {
			return ref, "", ""
		}
		resolved, err := g.ResolveAsset(ref.Asset, ref.Name)
		if err != nil {
			return nil, errors.ErrCodeAssetNotFound, errors.UserMessage(err)
		}
		return resolved, "", ""
	}
	return value, "", ""
}

// matchSocket finds the live socket for a document record: by name when
// one matches, otherwise by the record's position in its list. When the
// socket at the record's own position already carries the name, it wins,
// so duplicate names stay positionally distinct.
func matchSocket(sockets []host.Socket, name string, index int) host.Socket {
	if index >= 0 && index < len(sockets) && sockets[index].Name() == name {
		return sockets[index]
	}
	for _, s := range sockets {
		if s.Name() == name {
			return s
		}
	}
	if index >= 0 && index < len(sockets) {
		return sockets[index]
	}
	return nil
}

// resolveSocket finds the live socket a link reference points at, by
// name or by index depending on the reference form.
func resolveSocket(sockets []host.Socket, ref document.SocketRef) host.Socket {
	if ref.ByIndex {
		if ref.Index >= 0 && ref.Index < len(sockets) {
			return sockets[ref.Index]
		}
		return nil
	}
	for _, s := range sockets {
		if s.Name() == ref.Name {
			return s
		}
	}
	return nil
}

func warnItem(ctx context.Context, report *Report, code errors.Code, nodeID string, logger *log.Logger, format string, args ...any) {
	report.warn(code, nodeID, format, args...)
	observability.Codec().OnItemSkipped(ctx, string(code))
	logger.Debug("item warning", "code", code, "node", nodeID)
}
