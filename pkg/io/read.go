package io

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/beevik/etree"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/network"
)

// Root element names of supported documents.
const (
	RootSubAppType  = "SubAppType"
	RootFBType      = "FBType"
	RootSystem      = "System"
	RootAdapterType = "AdapterType"
)

// DataTypeParameter is the parameter key under which an instance's
// DataType attribute is stored.
const DataTypeParameter = "__DataType__"

const unknownName = "Unknown"

// ReadNetwork decodes a network document from r. It does not close r.
func ReadNetwork(r io.Reader) (*network.Network, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidXML, err, "parse XML")
	}
	return networkFrom(doc)
}

// ParseNetwork decodes a network document held in memory.
func ParseNetwork(data []byte) (*network.Network, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidXML, err, "parse XML")
	}
	return networkFrom(doc)
}

// ImportNetwork reads the network document at path.
func ImportNetwork(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fberrors.Wrap(fberrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadNetwork(f)
}

// HasNetwork reports whether data is a SubAppType with a SubAppNetwork or
// a composite FBType. Unparsable documents report false.
func HasNetwork(data []byte) bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return false
	}
	root := doc.Root()
	if root == nil {
		return false
	}
	switch root.Tag {
	case RootSubAppType:
		return root.SelectElement("SubAppNetwork") != nil
	case RootFBType:
		return compositeBody(root) != nil
	}
	return false
}

func networkFrom(doc *etree.Document) (*network.Network, error) {
	root := doc.Root()
	if root == nil {
		return nil, fberrors.New(fberrors.ErrCodeInvalidXML, "document has no root element")
	}

	n := &network.Network{
		Name:     root.SelectAttrValue("Name", unknownName),
		Comment:  root.SelectAttrValue("Comment", ""),
		RootType: root.Tag,
	}

	var err error
	switch root.Tag {
	case RootSubAppType:
		if iface := root.SelectElement("SubAppInterfaceList"); iface != nil {
			readBoundary(n, iface, "SubAppEventInputs", "SubAppEventOutputs", "SubAppEvent")
		}
		if body := root.SelectElement("SubAppNetwork"); body != nil {
			err = readContents(n, body)
		}
	case RootFBType:
		body := compositeBody(root)
		if body == nil {
			return nil, fberrors.New(fberrors.ErrCodeNotComposite,
				"FBType %s has no FBNetwork or CompositeFB", n.Name)
		}
		if iface := root.SelectElement("InterfaceList"); iface != nil {
			readBoundary(n, iface, "EventInputs", "EventOutputs", "Event")
			if err = readAdapterInstances(n, iface); err != nil {
				return nil, err
			}
		}
		err = readContents(n, body)
	case RootSystem:
		for _, app := range root.SelectElements("Application") {
			if body := app.SelectElement("SubAppNetwork"); body != nil {
				if err = readContents(n, body); err != nil {
					break
				}
			}
		}
	default:
		return nil, fberrors.New(fberrors.ErrCodeUnknownRoot, "unknown root element: %s", root.Tag)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func compositeBody(root *etree.Element) *etree.Element {
	if body := root.SelectElement("FBNetwork"); body != nil {
		return body
	}
	return root.SelectElement("CompositeFB")
}

// readBoundary appends event ports (in, out) then data ports (in, out).
func readBoundary(n *network.Network, iface *etree.Element, evIn, evOut, evTag string) {
	add := func(section, tag string, dir network.Direction, cat network.Category, defType string) {
		for _, s := range iface.SelectElements(section) {
			for _, el := range s.SelectElements(tag) {
				n.BoundaryPorts = append(n.BoundaryPorts, &network.BoundaryPort{
					Name:      el.SelectAttrValue("Name", ""),
					Type:      el.SelectAttrValue("Type", defType),
					Direction: dir,
					Category:  cat,
				})
			}
		}
	}
	add(evIn, evTag, network.DirInput, network.CategoryEvent, "Event")
	add(evOut, evTag, network.DirOutput, network.CategoryEvent, "Event")
	add("InputVars", "VarDeclaration", network.DirInput, network.CategoryData, "")
	add("OutputVars", "VarDeclaration", network.DirOutput, network.CategoryData, "")
}

func readAdapterInstances(n *network.Network, iface *etree.Element) error {
	for _, kind := range []struct {
		section string
		adapter network.AdapterKind
	}{
		{"Plugs", network.AdapterPlug},
		{"Sockets", network.AdapterSocket},
	} {
		for _, s := range iface.SelectElements(kind.section) {
			for _, el := range s.SelectElements("AdapterDeclaration") {
				inst, err := readInstance(el)
				if err != nil {
					return err
				}
				inst.Role = network.RoleAdapter
				inst.Adapter = kind.adapter
				inst.FBKind = network.FBKindAdapter
				n.Instances = append(n.Instances, inst)
			}
		}
	}
	return nil
}

func readContents(n *network.Network, body *etree.Element) error {
	for _, el := range body.SelectElements("FB") {
		inst, err := readInstance(el)
		if err != nil {
			return err
		}
		for _, attr := range el.SelectElements("Attribute") {
			if attr.SelectAttrValue("Name", "") == "DataType" {
				inst.Parameters[DataTypeParameter] = attr.SelectAttrValue("Value", "")
			}
		}
		n.Instances = append(n.Instances, inst)
	}
	for _, el := range body.SelectElements("SubApp") {
		inst, err := readInstance(el)
		if err != nil {
			return err
		}
		inst.Role = network.RoleSubApp
		inst.FBKind = network.FBKindSubApp
		n.Instances = append(n.Instances, inst)
	}

	for _, group := range []struct {
		tag  string
		kind network.Category
	}{
		{"EventConnections", network.CategoryEvent},
		{"DataConnections", network.CategoryData},
		{"AdapterConnections", network.CategoryAdapter},
	} {
		for _, s := range body.SelectElements(group.tag) {
			for _, el := range s.SelectElements("Connection") {
				c, err := readConnection(el, group.kind)
				if err != nil {
					return err
				}
				n.Connections = append(n.Connections, c)
			}
		}
	}
	return nil
}

func readInstance(el *etree.Element) (*network.Instance, error) {
	inst := &network.Instance{
		Name:       el.SelectAttrValue("Name", ""),
		TypeName:   el.SelectAttrValue("Type", ""),
		Parameters: map[string]string{},
	}
	var err error
	if inst.X, err = floatAttr(el, "x"); err != nil {
		return nil, err
	}
	if inst.Y, err = floatAttr(el, "y"); err != nil {
		return nil, err
	}
	for _, p := range el.SelectElements("Parameter") {
		inst.Parameters[p.SelectAttrValue("Name", "")] = p.SelectAttrValue("Value", "")
	}
	return inst, nil
}

func readConnection(el *etree.Element, kind network.Category) (network.Connection, error) {
	c := network.Connection{
		Source:      el.SelectAttrValue("Source", ""),
		Destination: el.SelectAttrValue("Destination", ""),
		Kind:        kind,
	}
	var err error
	if c.DX1, err = floatAttr(el, "dx1"); err != nil {
		return c, err
	}
	if c.DX2, err = floatAttr(el, "dx2"); err != nil {
		return c, err
	}
	if c.DY, err = floatAttr(el, "dy"); err != nil {
		return c, err
	}
	return c, nil
}

func floatAttr(el *etree.Element, key string) (float64, error) {
	attr := el.SelectAttr(key)
	if attr == nil || attr.Value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(attr.Value, 64)
	if err != nil {
		return 0, fberrors.Wrap(fberrors.ErrCodeInvalidFormat, err,
			"%s: attribute %s=%q is not a number", el.Tag, key, attr.Value)
	}
	return v, nil
}
