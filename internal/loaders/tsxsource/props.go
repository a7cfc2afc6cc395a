package tsxsource

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/dejo1307/a11ysnap/internal/source/fixture"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// component describes how a JSX tag maps onto a fixture node.
type component struct {
	kind       fixture.Kind
	traits     []string
	accessible bool
	// leaf components collapse their markup into their label.
	leaf bool
	// row lays flow children out horizontally.
	row bool
	// titleProp names the prop that supplies a default label.
	titleProp string
}

var components = map[string]component{
	"View":                     {kind: fixture.KindView},
	"SafeAreaView":             {kind: fixture.KindView},
	"ScrollView":               {kind: fixture.KindView},
	"Screen":                   {kind: fixture.KindView},
	"Text":                     {kind: fixture.KindElement, traits: []string{"staticText"}, leaf: true},
	"Header":                   {kind: fixture.KindElement, traits: []string{"header"}, leaf: true},
	"Button":                   {kind: fixture.KindElement, traits: []string{"button"}, leaf: true, titleProp: "title"},
	"Pressable":                {kind: fixture.KindElement, traits: []string{"button"}, leaf: true},
	"TouchableOpacity":         {kind: fixture.KindElement, traits: []string{"button"}, leaf: true},
	"TouchableHighlight":       {kind: fixture.KindElement, traits: []string{"button"}, leaf: true},
	"TouchableWithoutFeedback": {kind: fixture.KindElement, leaf: true},
	"Link":                     {kind: fixture.KindElement, traits: []string{"link"}, leaf: true},
	"Image":                    {kind: fixture.KindElement, traits: []string{"image"}, leaf: true, titleProp: "alt"},
	"TextInput":                {kind: fixture.KindText, traits: []string{"textEntry"}, leaf: true, titleProp: "placeholder"},
	"Switch":                   {kind: fixture.KindElement, traits: []string{"button", "switchButton"}, leaf: true, titleProp: "title"},
	"Slider":                   {kind: fixture.KindElement, traits: []string{"adjustable"}, leaf: true, titleProp: "title"},
	"TabBar":                   {kind: fixture.KindTabStrip, traits: []string{"tabBar"}, row: true},
	"Tab":                      {kind: fixture.KindView, traits: []string{"button"}, accessible: true, leaf: true, titleProp: "title"},
	"SegmentedControl":         {kind: fixture.KindSegmented, row: true},
	"Segment":                  {kind: fixture.KindElement, traits: []string{"button"}, leaf: true, titleProp: "title"},
	"Table":                    {kind: fixture.KindDataTable},
	"Cell":                     {kind: fixture.KindElement, leaf: true},
}

func lookupComponent(tag string) component {
	if i := strings.LastIndex(tag, "."); i >= 0 {
		tag = tag[i+1:]
	}
	if c, ok := components[tag]; ok {
		return c
	}
	return component{kind: fixture.KindView}
}

// roles maps accessibilityRole values to traits.
var roles = map[string][]string{
	"none":         {},
	"button":       {"button"},
	"togglebutton": {"button"},
	"checkbox":     {"button"},
	"radio":        {"button"},
	"tab":          {"button"},
	"link":         {"link"},
	"header":       {"header"},
	"heading":      {"header"},
	"search":       {"searchField"},
	"image":        {"image"},
	"img":          {"image"},
	"imagebutton":  {"image", "button"},
	"keyboardkey":  {"keyboardKey"},
	"text":         {"staticText"},
	"adjustable":   {"adjustable"},
	"slider":       {"adjustable"},
	"summary":      {"summaryElement"},
	"switch":       {"button", "switchButton"},
	"tablist":      {"tabBar"},
	"tabbar":       {"tabBar"},
}

// standardActions are accessibilityActions VoiceOver performs natively
// rather than listing as custom actions.
var standardActions = map[string]bool{
	"activate":  true,
	"increment": true,
	"decrement": true,
	"magicTap":  true,
	"escape":    true,
	"longpress": true,
}

// props holds the raw attribute value nodes of one element. A nil node is a
// bare boolean attribute.
type props struct {
	c      *converter
	line   uint
	values map[string]*sitter.Node
}

func (c *converter) attributes(opening *sitter.Node) props {
	p := props{c: c, line: opening.StartPosition().Row + 1, values: make(map[string]*sitter.Node)}
	for i := range opening.ChildCount() {
		attr := opening.Child(i)
		if attr.Kind() != "jsx_attribute" {
			continue
		}
		var name string
		var value *sitter.Node
		for j := range attr.ChildCount() {
			part := attr.Child(j)
			switch {
			case j == 0:
				name = nodeText(part, c.src)
			case part.Kind() != "=":
				value = part
			}
		}
		if name != "" {
			p.values[name] = value
		}
	}
	return p
}

// get returns the decoded value of the first present attribute in names.
// Values that are not literals are logged and treated as absent.
func (p props) get(names ...string) (any, bool) {
	for _, name := range names {
		node, ok := p.values[name]
		if !ok {
			continue
		}
		if node == nil {
			return true, true
		}
		v, err := p.c.value(node)
		if err != nil {
			log.Printf("[tsx-loader] line %d: %s: %v, ignored", p.line, name, err)
			return nil, false
		}
		return v, v != nil
	}
	return nil, false
}

func (p props) str(names ...string) (string, bool) {
	v, ok := p.get(names...)
	if !ok {
		return "", false
	}
	return asString(v)
}

func (p props) boolean(names ...string) bool {
	v, _ := p.get(names...)
	b, _ := v.(bool)
	return b
}

func (p props) number(names ...string) (float64, bool) {
	v, _ := p.get(names...)
	f, ok := v.(float64)
	return f, ok
}

func (p props) numbers(name string) []float64 {
	v, _ := p.get(name)
	list, _ := v.([]any)
	out := make([]float64, 0, len(list))
	for _, item := range list {
		if f, ok := item.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

func (p props) strings(names ...string) []string {
	v, _ := p.get(names...)
	list, _ := v.([]any)
	var out []string
	for _, item := range list {
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func (p props) objects(name string) []map[string]any {
	v, _ := p.get(name)
	list, _ := v.([]any)
	var out []map[string]any
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// apply copies the supported attributes onto n.
func (c *converter) apply(n *jsxNode, p props) {
	s := &n.s

	if id, ok := p.str("id", "nativeID"); ok {
		s.ID = id
	}
	if v, ok := p.str("testID"); ok {
		s.Identifier = v
	}
	if class, ok := p.str("className", "class"); ok {
		s.Class = class
	}
	if v, ok := p.get("accessible"); ok {
		if b, isBool := v.(bool); isBool {
			s.Accessible = &b
		}
	}

	if label, ok := p.str("accessibilityLabel", "aria-label"); ok {
		s.Label = label
	} else if n.comp.titleProp != "" {
		s.Label, _ = p.str(n.comp.titleProp)
	}
	s.Hint, _ = p.str("accessibilityHint")
	s.Language, _ = p.str("accessibilityLanguage", "lang")
	s.UserInputLabels = p.strings("accessibilityInputLabels", "accessibilityUserInputLabels")
	s.ContainerType, _ = p.str("accessibilityContainerType")

	if role, ok := p.str("accessibilityRole", "role"); ok {
		if traits, known := roles[role]; known {
			s.Traits = traits
		} else {
			log.Printf("[tsx-loader] line %d: unknown role %q, ignored", p.line, role)
		}
	}
	if traits := p.strings("accessibilityTraits"); traits != nil {
		s.Traits = traits
	}
	s.Traits = append([]string(nil), s.Traits...)
	if p.boolean("disabled") {
		s.Traits = append(s.Traits, "notEnabled")
	}
	if p.boolean("selected") {
		s.Traits = append(s.Traits, "selected")
	}

	c.applyValue(n, p)
	c.applyState(n, p)

	s.Hidden = p.boolean("hidden")
	if alpha, ok := p.number("opacity", "alpha"); ok {
		s.Alpha = &alpha
	}
	if hide, _ := p.str("importantForAccessibility"); hide == "no-hide-descendants" {
		s.ElementsHidden = true
	}
	s.ElementsHidden = s.ElementsHidden || p.boolean("accessibilityElementsHidden", "aria-hidden")
	s.Modal = p.boolean("accessibilityViewIsModal", "aria-modal")
	s.GroupChildren = p.boolean("shouldGroupAccessibilityChildren", "accessibilityGroup")
	s.Ordered = p.boolean("accessibilityOrdered")
	if _, ok := p.values["accessibilityElements"]; ok {
		s.Explicit = append([]string{}, p.strings("accessibilityElements")...)
	}

	if frame := p.numbers("frame"); len(frame) > 0 {
		s.Frame = frame
	}
	if point := p.numbers("activationPoint"); len(point) > 0 {
		s.ActivationPoint = point
	}
	if w, ok := p.number("width"); ok {
		n.width = w
	}
	if h, ok := p.number("height"); ok {
		n.height = h
	}
	if dir, _ := p.str("direction", "flexDirection"); dir != "" {
		n.comp.row = dir == "row"
	}

	if row, ok := p.number("row"); ok {
		r := int(row)
		s.Row = &r
	}
	if column, ok := p.number("column"); ok {
		col := int(column)
		s.Column = &col
	}
	if span, ok := p.number("rowSpan"); ok {
		s.RowSpan = int(span)
	}
	if span, ok := p.number("columnSpan"); ok {
		s.ColumnSpan = int(span)
	}
	s.Header, _ = p.str("header")
	if items, ok := p.number("items"); ok {
		s.Items = int(items)
	}

	for _, action := range p.objects("accessibilityActions") {
		name, _ := asString(action["name"])
		if standardActions[name] {
			continue
		}
		if label, ok := asString(action["label"]); ok {
			name = label
		}
		icon, _ := asString(action["icon"])
		if name != "" {
			s.CustomActions = append(s.CustomActions, fixture.ActionSpec{Name: name, Icon: icon})
		}
	}
	for _, content := range p.objects("accessibilityCustomContent") {
		label, _ := asString(content["label"])
		value, _ := asString(content["value"])
		important, _ := content["important"].(bool)
		s.CustomContent = append(s.CustomContent, fixture.ContentSpec{Label: label, Value: value, Important: important})
	}
	for _, rotor := range p.objects("accessibilityRotors") {
		c.applyRotor(s, rotor)
	}
}

// applyValue handles value props. accessibilityValue wins over the
// component's own value.
func (c *converter) applyValue(n *jsxNode, p props) {
	s := &n.s
	if v, ok := p.get("value"); ok {
		switch v := v.(type) {
		case bool:
			s.Value = switchValue(v)
		default:
			s.Value, _ = asString(v)
		}
		if s.Kind == fixture.KindText {
			s.Text = s.Value
		}
	}
	if text, ok := p.str("text"); ok {
		s.Text = text
	}

	v, ok := p.get("accessibilityValue")
	if !ok {
		return
	}
	if str, isStr := asString(v); isStr {
		s.Value = str
		return
	}
	obj, _ := v.(map[string]any)
	if text, ok := asString(obj["text"]); ok {
		s.Value = text
		return
	}
	now, hasNow := obj["now"].(float64)
	if !hasNow {
		return
	}
	lo, hasMin := obj["min"].(float64)
	hi, hasMax := obj["max"].(float64)
	if hasMin && hasMax && hi > lo {
		s.Value = fmt.Sprintf("%d%%", int(math.Round((now-lo)/(hi-lo)*100)))
		return
	}
	s.Value = strconv.FormatFloat(now, 'f', -1, 64)
}

// applyState maps accessibilityState onto traits and, for checkable
// controls, a switch value.
func (c *converter) applyState(n *jsxNode, p props) {
	v, ok := p.get("accessibilityState")
	if !ok {
		return
	}
	state, _ := v.(map[string]any)
	s := &n.s
	if b, _ := state["disabled"].(bool); b {
		s.Traits = append(s.Traits, "notEnabled")
	}
	if b, _ := state["selected"].(bool); b {
		s.Traits = append(s.Traits, "selected")
	}
	if s.Value != "" {
		return
	}
	switch checked := state["checked"].(type) {
	case bool:
		s.Value = switchValue(checked)
	case string:
		if checked == "mixed" {
			s.Value = "2"
		}
	}
}

func (c *converter) applyRotor(s *fixture.Spec, rotor map[string]any) {
	name, _ := asString(rotor["name"])
	wrap, _ := rotor["wrap"].(bool)
	rs := fixture.RotorSpec{Name: name, Wrap: wrap}
	targets, _ := rotor["targets"].([]any)
	for _, t := range targets {
		switch t := t.(type) {
		case string:
			rs.Targets = append(rs.Targets, fixture.TargetSpec{ID: t})
		case map[string]any:
			id, _ := asString(t["id"])
			target := fixture.TargetSpec{ID: id}
			if r, ok := t["range"].([]any); ok {
				for _, x := range r {
					if f, ok := x.(float64); ok {
						target.Range = append(target.Range, int(f))
					}
				}
			}
			rs.Targets = append(rs.Targets, target)
		}
	}
	s.Rotors = append(s.Rotors, rs)
}

func switchValue(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

func asString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

var unescaper = strings.NewReplacer(`\'`, `'`, `\"`, `"`, "\\`", "`", `\\`, `\`, `\n`, "\n", `\t`, "\t")

// value decodes a literal attribute value: strings, numbers, booleans,
// arrays and objects of literals.
func (c *converter) value(n *sitter.Node) (any, error) {
	text := nodeText(n, c.src)
	switch n.Kind() {
	case "string":
		if len(text) < 2 {
			return "", nil
		}
		return unescaper.Replace(text[1 : len(text)-1]), nil
	case "template_string":
		if findChildByKind(n, "template_substitution") != nil {
			return nil, fmt.Errorf("template substitution is not a literal")
		}
		return unescaper.Replace(strings.Trim(text, "`")), nil
	case "number":
		return parseNumber(text)
	case "unary_expression":
		return parseNumber(strings.Join(strings.Fields(text), ""))
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "undefined":
		return nil, nil
	case "jsx_expression", "parenthesized_expression", "as_expression", "satisfies_expression":
		for i := range n.ChildCount() {
			child := n.Child(i)
			switch child.Kind() {
			case "{", "}", "(", ")", "comment", "as", "satisfies":
				continue
			}
			return c.value(child)
		}
		return nil, nil
	case "array":
		out := []any{}
		for i := range n.ChildCount() {
			child := n.Child(i)
			switch child.Kind() {
			case "[", "]", ",", "comment":
				continue
			}
			v, err := c.value(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "object":
		out := map[string]any{}
		for i := range n.ChildCount() {
			child := n.Child(i)
			if child.Kind() != "pair" {
				continue
			}
			key := child.ChildByFieldName("key")
			val := child.ChildByFieldName("value")
			if key == nil || val == nil {
				continue
			}
			name := nodeText(key, c.src)
			if key.Kind() == "string" {
				name = strings.Trim(name, `"'`)
			}
			v, err := c.value(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out[name] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported expression %q", text)
}

func parseNumber(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return f, nil
}
