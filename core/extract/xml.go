package extract

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"plcsync/core/entity"
)

// methodDataName is the CODESYS addData section that carries POU methods.
const methodDataName = "http://www.3s-software.com/plcopenxml/method"

// baseTypes are the elementary type elements recognized inside <type>
// nodes when reconstructing variable declarations.
var baseTypes = []string{"BOOL", "INT", "CHAR", "REAL", "STRING", "DINT", "WORD", "BYTE"}

// xmlNode is a generic element tree. PLCopen exports scatter POUs across
// addData sections and the standard types/pous location depending on the
// exporting tool, so extraction walks the whole document by local name
// instead of binding a fixed schema.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// findAll returns every descendant (and self) with the given local name,
// in document order.
func (n *xmlNode) findAll(local string) []*xmlNode {
	var out []*xmlNode
	if n.XMLName.Local == local {
		out = append(out, n)
	}
	for i := range n.Nodes {
		out = append(out, n.Nodes[i].findAll(local)...)
	}
	return out
}

// findFirst returns the first descendant (or self) with the local name.
func (n *xmlNode) findFirst(local string) *xmlNode {
	all := n.findAll(local)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FromXML extracts a snapshot from a PLCopen-style XML export file.
func FromXML(path string) (*entity.EntitySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open xml export %s: %w", path, err)
	}
	defer f.Close()

	set, err := FromXMLReader(f)
	if err != nil {
		return nil, &entity.ParseError{Source: path, Message: "invalid PLCopen export", Err: err}
	}
	return set, nil
}

// FromXMLReader extracts a snapshot from PLCopen XML content.
func FromXMLReader(r io.Reader) (*entity.EntitySet, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, err
	}

	builder := entity.NewBuilder()

	// POUs appear both under CODESYS addData sections and under the
	// standard types/pous element; walking by local name visits each
	// definition exactly once.
	for _, pou := range root.findAll("pou") {
		name := pou.attr("name")
		if name == "" {
			continue
		}
		if err := extractPOU(builder, pou); err != nil {
			return nil, err
		}
	}

	for _, gvl := range root.findAll("globalVars") {
		if err := extractGVL(builder, gvl); err != nil {
			return nil, err
		}
	}

	return builder.Build(), nil
}

func extractPOU(builder *entity.Builder, pou *xmlNode) error {
	name := pou.attr("name")

	kind := entity.KindProgram
	switch pou.attr("pouType") {
	case "functionBlock":
		kind = entity.KindFunctionBlock
	case "function":
		kind = entity.KindFunction
	}

	decl := ""
	if iface := pou.findFirst("interface"); iface != nil {
		var parts []string
		for _, varList := range iface.findAll("variableList") {
			if text := variableDeclarations(varList); text != "" {
				parts = append(parts, text)
			}
		}
		decl = strings.Join(parts, "\n")
	}

	impl := stBody(pou.findFirst("body"))

	if err := builder.Add(entity.CodeUnit{
		QualifiedName: name,
		Kind:          kind,
		Body:          composePOUBody(decl, impl),
	}); err != nil {
		return err
	}

	// Methods ride along in the POU's addData sections.
	for _, data := range pou.findAll("data") {
		if data.attr("name") != methodDataName {
			continue
		}
		for _, method := range data.findAll("Method") {
			methodName := method.attr("name")
			if methodName == "" {
				continue
			}
			impl := stBody(method.findFirst("body"))
			if impl == "" {
				continue
			}
			if err := builder.Add(entity.CodeUnit{
				QualifiedName: name + "/" + methodName,
				Kind:          entity.KindMethod,
				Body:          "(* IMPLEMENTATION *)\n" + impl + "\n",
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

func extractGVL(builder *entity.Builder, gvl *xmlNode) error {
	name := gvl.attr("name")
	if name == "" {
		name = "GVL"
	}

	// Only direct children count: nested variable lists belong to other
	// artifacts.
	wrapper := xmlNode{XMLName: xml.Name{Local: "variableList"}}
	for _, child := range gvl.Nodes {
		if child.XMLName.Local == "variable" {
			wrapper.Nodes = append(wrapper.Nodes, child)
		}
	}

	body := ""
	if vars := variableDeclarations(&wrapper); vars != "" {
		body = "VAR_GLOBAL\n\n" + vars + "\n\nEND_VAR\n"
	}

	return builder.Add(entity.CodeUnit{
		QualifiedName: name,
		Kind:          entity.KindGlobalVariableList,
		Body:          body,
	})
}

// variableDeclarations reconstructs "name: TYPE := init;" lines from the
// variable elements under a variable list node.
func variableDeclarations(varList *xmlNode) string {
	var decls []string
	for _, v := range varList.findAll("variable") {
		name := v.attr("name")
		if name == "" {
			continue
		}

		varType := ""
		if typeElem := v.findFirst("type"); typeElem != nil {
			if derived := typeElem.findFirst("derived"); derived != nil {
				varType = derived.attr("name")
			} else {
				for _, base := range baseTypes {
					if typeElem.findFirst(base) != nil {
						varType = base
						break
					}
				}
			}
		}
		if varType == "" {
			continue
		}

		init := ""
		if initial := v.findFirst("initialValue"); initial != nil {
			if simple := initial.findFirst("simpleValue"); simple != nil {
				if val := simple.attr("value"); val != "" {
					init = " := " + val
				}
			}
		}

		decls = append(decls, fmt.Sprintf("\t%s: %s%s;", name, varType, init))
	}
	return strings.Join(decls, "\n")
}

// stBody pulls the structured text out of a body>ST element, which CODESYS
// wraps in an xhtml node.
func stBody(body *xmlNode) string {
	if body == nil {
		return ""
	}
	st := body.findFirst("ST")
	if st == nil {
		return ""
	}
	if xhtml := st.findFirst("xhtml"); xhtml != nil {
		return strings.TrimSpace(xhtml.Text)
	}
	return strings.TrimSpace(st.Text)
}
