package paper

import "fmt"

// Artifact is what a channel hands back to the transport.
type Artifact struct {
	FileName    string
	ContentType string
	// Inline artifacts are shown by the browser; the rest are downloads.
	Inline bool
	Body   []byte
}

// Channel turns a rendered document into something a client can consume.
type Channel interface {
	Deliver(doc *Document) (*Artifact, error)
}

const (
	ChannelPrint  = "print"
	ChannelExport = "export"
	ChannelSheet  = "sheet"
)

// ChannelFor resolves a channel by name.
func ChannelFor(name string) (Channel, error) {
	switch name {
	case ChannelPrint:
		return PrintChannel{}, nil
	case ChannelExport:
		return ExportChannel{}, nil
	case ChannelSheet:
		return SheetChannel{}, nil
	}
	return nil, fmt.Errorf("unknown channel %q", name)
}

// PrintChannel produces a page that opens the browser's print dialog once loaded.
type PrintChannel struct{}

func (PrintChannel) Deliver(doc *Document) (*Artifact, error) {
	body, err := envelope(envelopeData{
		HeadTitle: "Print",
		Style:     doc.Style,
		Body:      doc.Body,
		Print:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{
		FileName:    doc.Variant.FileStem() + ".html",
		ContentType: "text/html; charset=utf-8",
		Inline:      true,
		Body:        body,
	}, nil
}
