package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Page is a single page of a Document
type Page struct {
	doc *Document

	// Number is the 1-based position of the page in its document
	Number int

	MediaBox Rect
	Rotate   int

	// Resources lists every resource the page references, including those
	// reached through form XObjects. Names are unique within a page.
	Resources []Resource

	dict types.Dict
}

func newPage(doc *Document, number int) (*Page, error) {
	pageDict, _, attrs, err := doc.ctx.PageDict(number, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dict: %w", err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("page %d not found", number)
	}

	page := &Page{
		doc:      doc,
		Number:   number,
		MediaBox: Letter,
		dict:     pageDict,
	}

	// the page's own Resources replace inherited ones
	res := subDict(doc.ctx, pageDict, "Resources")
	if attrs != nil {
		page.MediaBox = rectFrom(attrs.MediaBox)
		page.Rotate = attrs.Rotate
		if res == nil {
			res = attrs.Resources
		}
	}
	page.Resources = collectResources(doc.ctx, res)

	return page, nil
}

// Content returns the page's decoded content streams joined in order
func (p *Page) Content() ([]byte, error) {
	contents, found := p.dict.Find("Contents")
	if !found || contents == nil {
		return nil, nil
	}

	ctx := p.doc.ctx
	if ref, ok := indirect(contents); ok {
		obj, err := ctx.Dereference(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to dereference content: %w", err)
		}
		if arr, ok := obj.(types.Array); ok {
			contents = arr
		} else {
			contents = ref
		}
	}

	var contentStreams [][]byte

	switch v := contents.(type) {
	case types.IndirectRef:
		decoded, err := decodeStream(p, v)
		if err != nil {
			return nil, err
		}
		contentStreams = append(contentStreams, decoded)

	case types.Array:
		for i, item := range v {
			decoded, err := decodeStream(p, item)
			if err != nil {
				return nil, fmt.Errorf("content stream %d: %w", i, err)
			}
			contentStreams = append(contentStreams, decoded)
		}

	default:
		return nil, fmt.Errorf("unexpected Contents type %T", contents)
	}

	return combineContentStreams(contentStreams), nil
}

// decodeStream dereferences and decodes one content stream
func decodeStream(p *Page, obj types.Object) ([]byte, error) {
	sd, err := streamDict(p.doc.ctx, obj)
	if err != nil {
		return nil, err
	}

	if len(sd.Content) > 0 {
		return sd.Content, nil
	}

	if err := sd.Decode(); err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}

	return sd.Content, nil
}

// combineContentStreams combines multiple content streams
func combineContentStreams(streams [][]byte) []byte {
	var combined []byte
	for _, stream := range streams {
		combined = append(combined, stream...)
		combined = append(combined, '\n')
	}
	return combined
}

// HasImages reports whether any resolvable resource of the page is an image
func (p *Page) HasImages() bool {
	for _, r := range p.Resources {
		if r.Err == nil && r.Kind == ResourceImage {
			return true
		}
	}
	return false
}
