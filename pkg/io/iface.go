package io

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/beevik/etree"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/network"
)

// ParseInterface extracts the pin set of a type definition document.
func ParseInterface(data []byte) (network.Interface, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return network.Interface{}, fberrors.Wrap(fberrors.ErrCodeInvalidXML, err, "parse XML")
	}
	return interfaceFrom(doc)
}

// ReadInterface decodes a type definition from r. It does not close r.
func ReadInterface(r io.Reader) (network.Interface, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return network.Interface{}, fberrors.Wrap(fberrors.ErrCodeInvalidXML, err, "parse XML")
	}
	return interfaceFrom(doc)
}

// ImportInterface reads the type definition at path.
func ImportInterface(path string) (network.Interface, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return network.Interface{}, fberrors.Wrap(fberrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return network.Interface{}, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadInterface(f)
}

// ParseTypeDefinition reads a type document together with its name and
// comment.
func ParseTypeDefinition(data []byte) (*network.TypeDefinition, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidXML, err, "parse XML")
	}
	return typeFrom(doc)
}

// ImportTypeDefinition reads the type document at path.
func ImportTypeDefinition(path string) (*network.TypeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fberrors.Wrap(fberrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return ParseTypeDefinition(data)
}

func typeFrom(doc *etree.Document) (*network.TypeDefinition, error) {
	iface, err := interfaceFrom(doc)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	return &network.TypeDefinition{
		Name:      root.SelectAttrValue("Name", unknownName),
		Comment:   root.SelectAttrValue("Comment", ""),
		Interface: iface,
	}, nil
}

// Kind classifies a type definition root. FBTypes are told apart by their
// body element; one without a recognised body is a service interface.
func Kind(root *etree.Element) string {
	switch root.Tag {
	case RootAdapterType:
		return network.FBKindAdapter
	case RootSubAppType:
		return network.FBKindSubApp
	case RootFBType:
		switch {
		case root.SelectElement("BasicFB") != nil:
			return network.FBKindBasic
		case compositeBody(root) != nil:
			return network.FBKindComposite
		case root.SelectElement("SimpleFB") != nil:
			return network.FBKindSimple
		default:
			return network.FBKindServiceInterface
		}
	}
	return network.FBKindBasic
}

func interfaceFrom(doc *etree.Document) (network.Interface, error) {
	root := doc.Root()
	if root == nil {
		return network.Interface{}, fberrors.New(fberrors.ErrCodeInvalidXML, "document has no root element")
	}
	switch root.Tag {
	case RootFBType, RootSubAppType, RootAdapterType:
	default:
		return network.Interface{}, fberrors.New(fberrors.ErrCodeUnknownRoot, "not a type definition: %s", root.Tag)
	}

	out := network.Interface{FBKind: Kind(root)}
	list := root.SelectElement("InterfaceList")
	if list == nil {
		list = root.SelectElement("SubAppInterfaceList")
	}
	if list == nil {
		return out, nil
	}

	out.EventInputs = events(list, "EventInputs", "SubAppEventInputs")
	out.EventOutputs = events(list, "EventOutputs", "SubAppEventOutputs")

	var err error
	if out.DataInputs, err = vars(list, "InputVars"); err != nil {
		return out, err
	}
	if out.DataOutputs, err = vars(list, "OutputVars"); err != nil {
		return out, err
	}
	out.Plugs = adapters(list, "Plugs")
	out.Sockets = adapters(list, "Sockets")
	return out, nil
}

func events(list *etree.Element, sections ...string) []network.Port {
	var out []network.Port
	for _, section := range sections {
		for _, s := range list.SelectElements(section) {
			for _, el := range s.ChildElements() {
				if el.Tag != "Event" && el.Tag != "SubAppEvent" {
					continue
				}
				p := port(el, "Event")
				for _, w := range el.SelectElements("With") {
					if v := w.SelectAttrValue("Var", ""); v != "" {
						p.With = append(p.With, v)
					}
				}
				out = append(out, p)
			}
		}
	}
	return out
}

func vars(list *etree.Element, section string) ([]network.Port, error) {
	var out []network.Port
	for _, s := range list.SelectElements(section) {
		for _, el := range s.SelectElements("VarDeclaration") {
			p := port(el, "")
			t, err := declaredType(el)
			if err != nil {
				return nil, err
			}
			p.Type = t
			out = append(out, p)
		}
	}
	return out, nil
}

func adapters(list *etree.Element, section string) []network.Port {
	var out []network.Port
	for _, s := range list.SelectElements(section) {
		for _, el := range s.SelectElements("AdapterDeclaration") {
			out = append(out, port(el, ""))
		}
	}
	return out
}

func port(el *etree.Element, defType string) network.Port {
	return network.Port{
		Name:    el.SelectAttrValue("Name", ""),
		Type:    el.SelectAttrValue("Type", defType),
		Comment: el.SelectAttrValue("Comment", ""),
	}
}

// declaredType renders a VarDeclaration type, expanding ArraySize into
// zero-based array bounds.
func declaredType(el *etree.Element) (string, error) {
	base := el.SelectAttrValue("Type", "")
	size := el.SelectAttrValue("ArraySize", "")
	if size == "" {
		return base, nil
	}
	n, err := strconv.Atoi(size)
	if err != nil {
		return "", fberrors.Wrap(fberrors.ErrCodeInvalidFormat, err,
			"variable %s: ArraySize %q", el.SelectAttrValue("Name", ""), size)
	}
	return fmt.Sprintf("ARRAY [0..%d] OF %s", n-1, base), nil
}
