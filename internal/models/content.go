package models

import "encoding/json"

// Legacy content block types
const (
	BlockText  = "text"
	BlockImage = "image"
	BlockVideo = "video"
	BlockCode  = "code"
)

// ValidBlockTypes defines allowed legacy block types
var ValidBlockTypes = map[string]bool{
	BlockText:  true,
	BlockImage: true,
	BlockVideo: true,
	BlockCode:  true,
}

// ContentBlock is one fragment of the legacy content representation: an
// ordered, typed piece of content.
type ContentBlock struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// Editor block types interpreted for text extraction. The set of types is
// open-ended; unrecognized types are stored and echoed back untouched.
const (
	EditorParagraph = "paragraph"
	EditorHeader    = "header"
	EditorQuote     = "quote"
	EditorList      = "list"
)

// EditorDocument is the richer editor representation: an ordered sequence of
// typed blocks, each carrying a type-specific payload. The document is opaque
// to persistence; only Type, Data.Text and Data.Items are ever read.
type EditorDocument struct {
	Time    int64         `json:"time,omitempty"`
	Blocks  []EditorBlock `json:"blocks"`
	Version string        `json:"version,omitempty"`
}

// EditorBlock is a single editor document block
type EditorBlock struct {
	Type string          `json:"type"`
	Data EditorBlockData `json:"data"`
}

// EditorBlockData holds the interpreted subset of a block payload plus the
// raw payload for verbatim round-tripping
type EditorBlockData struct {
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw payload so unknown fields survive a round trip
func (d *EditorBlockData) UnmarshalJSON(b []byte) error {
	type alias struct {
		Text  string            `json:"text"`
		Items []json.RawMessage `json:"items"`
	}
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	d.Text = a.Text
	d.Items = nil
	for _, item := range a.Items {
		// list items may be plain strings or objects with a content field
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			d.Items = append(d.Items, s)
			continue
		}
		var obj struct {
			Content string `json:"content"`
			Text    string `json:"text"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			if obj.Content != "" {
				d.Items = append(d.Items, obj.Content)
			} else {
				d.Items = append(d.Items, obj.Text)
			}
		}
	}
	d.raw = append(d.raw[:0], b...)
	return nil
}

// MarshalJSON echoes the original payload verbatim when one was captured
func (d EditorBlockData) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	type alias struct {
		Text  string   `json:"text,omitempty"`
		Items []string `json:"items,omitempty"`
	}
	return json.Marshal(alias{Text: d.Text, Items: d.Items})
}
