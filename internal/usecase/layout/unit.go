// Package layout turns article records into ordered display units and
// partitions them into payloads that fit a chat platform's block ceiling.
//
// The package is platform-neutral: units describe what to show, and the
// notifier package maps them to a concrete wire format.
package layout

// UnitKind identifies the variant of a display unit.
type UnitKind string

const (
	KindHeader  UnitKind = "header"
	KindDivider UnitKind = "divider"
	KindContent UnitKind = "content"
	KindAction  UnitKind = "action"
)

// Unit is one atomic block within a payload.
// The set of implementations is closed to this package.
type Unit interface {
	Kind() UnitKind
	unit()
}

// Header is a platform header carrying plain text.
type Header struct {
	Text string
}

// Divider is a horizontal separator.
type Divider struct{}

// Content is a markdown text section with an optional accessory image.
// ImageURL is empty when the article has no image.
type Content struct {
	Text     string
	ImageURL string
	AltText  string
}

// Action is a single link button.
type Action struct {
	Label string
	Value string
	URL   string
}

func (Header) Kind() UnitKind  { return KindHeader }
func (Divider) Kind() UnitKind { return KindDivider }
func (Content) Kind() UnitKind { return KindContent }
func (Action) Kind() UnitKind  { return KindAction }

func (Header) unit()  {}
func (Divider) unit() {}
func (Content) unit() {}
func (Action) unit()  {}

// HasImage reports whether the content carries an accessory image.
func (c Content) HasImage() bool { return c.ImageURL != "" }

// Payload is one complete message: an ordered sequence of units.
// Index is zero-based; Total is the number of payloads produced for the query.
type Payload struct {
	QueryName string
	Index     int
	Total     int
	Units     []Unit
}

// Continuation reports whether the payload follows an earlier one for the same query.
func (p Payload) Continuation() bool { return p.Index > 0 }

// Len returns the number of units in the payload.
func (p Payload) Len() int { return len(p.Units) }
