package spec

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/drblury/specroute/jsonutil"
)

// Operation is one declared (path, method) pair and the operationId naming the
// handler that serves it. Method is always lowercase. Line and Column point at
// the method key in the source document.
type Operation struct {
	Path        string
	Method      string
	OperationID string
	Line        int
	Column      int
}

func (o Operation) String() string {
	return fmt.Sprintf("%s %s (%s)", strings.ToUpper(o.Method), o.Path, o.OperationID)
}

var httpMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"options": {},
	"head":    {},
	"patch":   {},
	"trace":   {},
}

// Document is a parsed API document together with its operation table.
type Document struct {
	root *yaml.Node
	ops  []Operation
}

// Load parses doc and returns its operations in document order.
func Load(doc []byte) ([]Operation, error) {
	d, err := Parse(doc)
	if err != nil {
		return nil, err
	}
	return d.Operations(), nil
}

// Parse reads a YAML or JSON document. Only the first document of a
// multi-document YAML stream is considered.
func Parse(doc []byte) (*Document, error) {
	var file yaml.Node
	if err := yaml.Unmarshal(doc, &file); err != nil {
		return nil, syntaxError(err)
	}
	if file.Kind != yaml.DocumentNode || len(file.Content) == 0 {
		return nil, &ParseError{Msg: "document is empty"}
	}

	root := resolve(file.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "document root must be a mapping")
	}

	ops, err := project(root)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, ops: ops}, nil
}

// ReadFile reads a document from disk. The loader itself never touches the
// filesystem; hosts use this before calling Parse.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read api document: %w", err)
	}
	return data, nil
}

// Operations returns a copy of the operation table.
func (d *Document) Operations() []Operation {
	ops := make([]Operation, len(d.ops))
	copy(ops, d.ops)
	return ops
}

// Version returns "2.0" style swagger versions or the openapi field, whichever
// the document declares. It is empty when neither is present.
func (d *Document) Version() string {
	if n := lookup(d.root, "swagger"); n != nil && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	if n := lookup(d.root, "openapi"); n != nil && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

// IsSwagger reports whether the document is a Swagger 2.0 document.
func (d *Document) IsSwagger() bool {
	return lookup(d.root, "swagger") != nil
}

// JSON re-encodes the document as JSON, keeping mapping keys in document
// order.
func (d *Document) JSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeNode(&buf, d.root); err != nil {
		return nil, fmt.Errorf("encode api document: %w", err)
	}
	return buf.Bytes(), nil
}

func project(root *yaml.Node) ([]Operation, error) {
	if _, err := pairs(root); err != nil {
		return nil, err
	}
	paths := lookup(root, "paths")
	if paths == nil || isNull(paths) {
		return []Operation{}, nil
	}
	if paths.Kind != yaml.MappingNode {
		return nil, nodeError(paths, "paths must be a mapping")
	}

	entries, err := pairs(paths)
	if err != nil {
		return nil, err
	}
	ops := make([]Operation, 0, len(entries))
	for _, entry := range entries {
		path := entry.key.Value
		if strings.HasPrefix(path, "x-") {
			continue
		}

		item := resolve(entry.value)
		if isNull(item) {
			continue
		}
		if item.Kind != yaml.MappingNode {
			return nil, nodeError(item, "path item %q must be a mapping", path)
		}

		methods, err := pairs(item)
		if err != nil {
			return nil, err
		}
		for _, m := range methods {
			method := strings.ToLower(m.key.Value)
			if _, ok := httpMethods[method]; !ok {
				continue
			}
			op := resolve(m.value)
			if op.Kind == yaml.MappingNode {
				if _, err := pairs(op); err != nil {
					return nil, err
				}
			}
			ops = append(ops, Operation{
				Path:        path,
				Method:      method,
				OperationID: operationID(op),
				Line:        m.key.Line,
				Column:      m.key.Column,
			})
		}
	}
	return ops, nil
}

// operationID returns an empty name for anything that is not a mapping with a
// scalar operationId; the binder reports those as missing handlers.
func operationID(op *yaml.Node) string {
	if op.Kind != yaml.MappingNode {
		return ""
	}
	n := lookup(op, "operationId")
	if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
		return ""
	}
	return n.Value
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	entries, _ := pairs(m)
	var found *yaml.Node
	for _, entry := range entries {
		if entry.key.Value == key {
			found = resolve(entry.value)
		}
	}
	return found
}

type pair struct {
	key, value *yaml.Node
}

// pairs returns the entries of mapping m with merge keys ("<<") expanded in
// place. An explicit key overrides a merged one wherever it appears, keeping
// the merged position. Among merged mappings the first to supply a key wins.
func pairs(m *yaml.Node) ([]pair, error) {
	return expand(m, make(map[*yaml.Node]bool))
}

func expand(m *yaml.Node, active map[*yaml.Node]bool) ([]pair, error) {
	if active[m] {
		return nil, nodeError(m, "merge key refers to its own mapping")
	}
	active[m] = true
	defer delete(active, m)

	out := make([]pair, 0, len(m.Content)/2)
	seen := make(map[string]bool)
	merged := make(map[string]int)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if !isMerge(key) {
			if idx, ok := merged[key.Value]; ok {
				out[idx] = pair{key: key, value: value}
				delete(merged, key.Value)
				continue
			}
			seen[key.Value] = true
			out = append(out, pair{key: key, value: value})
			continue
		}

		sources, err := mergeSources(value, active)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			if seen[src.key.Value] {
				continue
			}
			seen[src.key.Value] = true
			merged[src.key.Value] = len(out)
			out = append(out, src)
		}
	}
	return out, nil
}

func mergeSources(value *yaml.Node, active map[*yaml.Node]bool) ([]pair, error) {
	value = resolve(value)
	switch value.Kind {
	case yaml.MappingNode:
		return expand(value, active)
	case yaml.SequenceNode:
		var out []pair
		for _, item := range value.Content {
			item = resolve(item)
			if item.Kind != yaml.MappingNode {
				return nil, nodeError(item, "merge list entries must be mappings")
			}
			entries, err := expand(item, active)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	default:
		return nil, nodeError(value, "merge value must be a mapping or a list of mappings")
	}
}

func isMerge(key *yaml.Node) bool {
	return key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge"
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func encodeNode(buf *bytes.Buffer, n *yaml.Node) error {
	n = resolve(n)
	switch n.Kind {
	case yaml.MappingNode:
		entries, err := pairs(n)
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i, entry := range entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, entry.key.Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeNode(buf, entry.value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeNode(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		return encodeScalarNode(buf, n)
	default:
		buf.WriteString("null")
	}
	return nil
}

func encodeScalarNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return encodeScalar(buf, n.Value)
		}
		data, err := jsonutil.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	default:
		return encodeScalar(buf, n.Value)
	}
}

func encodeScalar(buf *bytes.Buffer, s string) error {
	data, err := jsonutil.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
