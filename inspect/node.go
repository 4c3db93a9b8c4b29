package inspect

// Node is one component of the preview UI.
type Node struct {
	// Type is the component type (e.g., "Canvas", "Menu", "StatusBar").
	Type string `json:"type"`

	ID string `json:"id,omitempty"`

	// Bounds are in terminal cells.
	Bounds Bounds `json:"bounds"`

	Visible bool `json:"visible"`

	// State contains component-specific state information.
	State map[string]any `json:"state,omitempty"`

	Styles *StyleInfo `json:"styles,omitempty"`

	Children []*Node `json:"children,omitempty"`

	// Truncated is set when the component cut its text to fit.
	Truncated *TruncationInfo `json:"truncated,omitempty"`
}

// Bounds represents component position and dimensions.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StyleInfo contains styling information for a component.
type StyleInfo struct {
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`

	Bold      bool `json:"bold,omitempty"`
	Underline bool `json:"underline,omitempty"`

	Border      bool   `json:"border,omitempty"`
	BorderColor string `json:"border_color,omitempty"`
	Padding     []int  `json:"padding,omitempty"` // [top, right, bottom, left]
}

// TruncationInfo contains information about text truncation.
type TruncationInfo struct {
	OriginalLength int `json:"original_length"`
	DisplayLength  int `json:"display_length"`
}

// NewNode creates a new visible Node with the given type.
func NewNode(nodeType string) *Node {
	return &Node{
		Type:    nodeType,
		Visible: true,
		State:   make(map[string]any),
	}
}

// WithID sets the node ID and returns the node for chaining.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// WithBounds sets the node bounds and returns the node for chaining.
func (n *Node) WithBounds(x, y, width, height int) *Node {
	n.Bounds = Bounds{X: x, Y: y, Width: width, Height: height}
	return n
}

// WithState adds a state key-value pair and returns the node for chaining.
func (n *Node) WithState(key string, value any) *Node {
	if n.State == nil {
		n.State = make(map[string]any)
	}
	n.State[key] = value
	return n
}

// WithStyles sets the node styles and returns the node for chaining.
func (n *Node) WithStyles(styles *StyleInfo) *Node {
	n.Styles = styles
	return n
}

// AddChild adds a child node and returns the parent for chaining.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// WithTruncation records that original cells of text were cut to displayed.
// Nothing is recorded when the text fit.
func (n *Node) WithTruncation(original, displayed int) *Node {
	if displayed < original {
		n.Truncated = &TruncationInfo{OriginalLength: original, DisplayLength: displayed}
	}
	return n
}
