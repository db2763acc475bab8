package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ResourceKind is the coarse type of a page resource
type ResourceKind int

const (
	ResourceOther ResourceKind = iota
	ResourceImage
	ResourceFont
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceImage:
		return "image"
	case ResourceFont:
		return "font"
	default:
		return "other"
	}
}

// Resource is a named asset referenced from a page's resource dictionary.
// Err is set when the entry could not be resolved; Kind is then ResourceOther
// and carries no information.
type Resource struct {
	Name     string
	Category string
	Kind     ResourceKind
	Err      error
}

// maxFormDepth bounds descent into nested form XObjects
const maxFormDepth = 8

// collectResources flattens the resource dictionary of a page. Form XObjects
// are descended into so that images drawn through a form are reported too.
func collectResources(ctx *model.Context, res types.Dict) []Resource {
	var out []Resource
	visited := map[int]bool{}
	walkResources(ctx, res, "", 0, visited, &out)
	return out
}

func walkResources(ctx *model.Context, res types.Dict, prefix string, depth int, visited map[int]bool, out *[]Resource) {
	if res == nil || depth > maxFormDepth {
		return
	}

	if fonts := subDict(ctx, res, "Font"); fonts != nil {
		for name := range fonts {
			*out = append(*out, Resource{Name: prefix + name, Category: "Font", Kind: ResourceFont})
		}
	}

	for _, category := range []string{"ExtGState", "ColorSpace", "Pattern", "Shading", "Properties"} {
		for name := range subDict(ctx, res, category) {
			*out = append(*out, Resource{Name: prefix + name, Category: category, Kind: ResourceOther})
		}
	}

	xobjects := subDict(ctx, res, "XObject")
	for name, obj := range xobjects {
		r := Resource{Name: prefix + name, Category: "XObject"}

		sd, err := streamDict(ctx, obj)
		if err != nil {
			r.Err = err
			*out = append(*out, r)
			continue
		}

		subtype, _ := sd.Dict["Subtype"].(types.Name)
		switch subtype {
		case "Image":
			r.Kind = ResourceImage
			*out = append(*out, r)
		case "Form":
			*out = append(*out, r)
			if ref, ok := indirect(obj); ok {
				if visited[ref.ObjectNumber.Value()] {
					continue
				}
				visited[ref.ObjectNumber.Value()] = true
			}
			inner := subDict(ctx, sd.Dict, "Resources")
			if inner == nil {
				if d, ok := sd.Dict["Resources"].(types.Dict); ok {
					inner = d
				}
			}
			walkResources(ctx, inner, r.Name+"/", depth+1, visited, out)
		default:
			*out = append(*out, r)
		}
	}
}

// subDict resolves d[key] to a dictionary, returning nil when it is absent
// or cannot be resolved.
func subDict(ctx *model.Context, d types.Dict, key string) types.Dict {
	obj, found := d.Find(key)
	if !found || obj == nil {
		return nil
	}
	if ref, ok := indirect(obj); ok {
		obj = ref
	}
	dict, err := ctx.DereferenceDict(obj)
	if err != nil {
		return nil
	}
	return dict
}

func streamDict(ctx *model.Context, obj types.Object) (*types.StreamDict, error) {
	if ref, ok := indirect(obj); ok {
		obj = ref
	}
	sd, _, err := ctx.DereferenceStreamDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference stream: %w", err)
	}
	if sd == nil {
		return nil, fmt.Errorf("object is not a stream")
	}
	return sd, nil
}

// indirect normalizes both pointer and value indirect references to a value
func indirect(obj types.Object) (types.IndirectRef, bool) {
	switch v := obj.(type) {
	case types.IndirectRef:
		return v, true
	case *types.IndirectRef:
		if v != nil {
			return *v, true
		}
	}
	return types.IndirectRef{}, false
}
