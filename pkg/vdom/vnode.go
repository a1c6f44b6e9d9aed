package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <select>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (trusted content only)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node of the rendered tree.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and change handlers
	Children []*VNode // Child nodes
	Key      string   // Identity among siblings
	Text     string   // For KindText and KindRaw
}

// Props holds attributes and change handlers.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// ChangeHandler receives the raw value a control reported on change.
type ChangeHandler func(raw string)

// IsInteractive returns true if this node carries a change handler.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	_, ok := v.Props["onchange"].(ChangeHandler)
	return ok
}

// Attr returns the attribute value for key, or nil.
func (v *VNode) Attr(key string) any {
	if v == nil || v.Props == nil {
		return nil
	}
	return v.Props[key]
}

// Find returns the first node in the subtree (depth first, including v)
// for which match returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if v == nil {
		return nil
	}
	if match(v) {
		return v
	}
	for _, child := range v.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in the subtree for which match returns true.
func (v *VNode) FindAll(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.walk(func(n *VNode) {
		if match(n) {
			out = append(out, n)
		}
	})
	return out
}

func (v *VNode) walk(fn func(*VNode)) {
	if v == nil {
		return
	}
	fn(v)
	for _, child := range v.Children {
		child.walk(fn)
	}
}

// TextContent concatenates all text descendants.
func (v *VNode) TextContent() string {
	var out []byte
	v.walk(func(n *VNode) {
		if n.Kind == KindText {
			out = append(out, n.Text...)
		}
	})
	return string(out)
}
