package issuecredential

import (
	"sort"

	"github.com/findy-network/findy-agent-core/agent/pltype"
)

// NewPreview returns the credential preview of the attribute values. The
// attributes are sorted by name.
func NewPreview(values map[string]string) PreviewCredential {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]Attribute, len(names))
	for i, name := range names {
		attrs[i] = Attribute{Name: name, Value: values[name]}
	}
	return PreviewCredential{
		Type:       pltype.IssueCredentialCredentialPreview,
		Attributes: attrs,
	}
}

// Values returns the preview attributes as a map.
func (p PreviewCredential) Values() map[string]string {
	values := make(map[string]string, len(p.Attributes))
	for _, a := range p.Attributes {
		values[a.Name] = a.Value
	}
	return values
}
