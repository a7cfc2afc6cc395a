// Package describe compiles an element's accessibility properties and container
// context into the announcement VoiceOver speaks.
package describe

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dejo1307/a11ysnap/internal/localize"
	"github.com/dejo1307/a11ysnap/internal/model"
)

// Verbosity toggles which parts of an element contribute to its announcement.
type Verbosity struct {
	Traits           bool `yaml:"traits" json:"traits"`
	Hints            bool `yaml:"hints" json:"hints"`
	ContainerContext bool `yaml:"container_context" json:"container_context"`
	TableContext     bool `yaml:"table_context" json:"table_context"`
	Value            bool `yaml:"value" json:"value"`
	CustomContent    bool `yaml:"custom_content" json:"custom_content"`
}

// Verbose enables every part of the announcement.
func Verbose() Verbosity {
	return Verbosity{
		Traits:           true,
		Hints:            true,
		ContainerContext: true,
		TableContext:     true,
		Value:            true,
		CustomContent:    true,
	}
}

// Minimal disables everything but the label.
func Minimal() Verbosity {
	return Verbosity{}
}

// Options configure a Compiler.
type Options struct {
	Verbosity Verbosity
	// DefaultLocale applies to elements that do not declare a language.
	DefaultLocale language.Tag
	// ReadsUnknownSwitchValues appends switch values other than 0, 1 and 2
	// verbatim, as newer VoiceOver releases do.
	ReadsUnknownSwitchValues bool
}

// DefaultOptions returns verbose English output with current VoiceOver behavior.
func DefaultOptions() Options {
	return Options{
		Verbosity:                Verbose(),
		DefaultLocale:            language.English,
		ReadsUnknownSwitchValues: true,
	}
}

// Input holds the raw properties of the element being described.
type Input struct {
	Label         string
	Value         string
	Hint          string
	Traits        model.Traits
	CustomContent []model.CustomContent
	Language      string
}

// Compiler produces announcement strings. It holds no mutable state.
type Compiler struct {
	loc  localize.Localizer
	opts Options
}

// New creates a Compiler. A nil localizer falls back to English defaults.
func New(loc localize.Localizer, opts Options) *Compiler {
	if loc == nil {
		loc = localize.Fallback
	}
	if opts.DefaultLocale == language.Und {
		opts.DefaultLocale = language.English
	}
	return &Compiler{loc: loc, opts: opts}
}

// Options returns the compiler configuration.
func (c *Compiler) Options() Options {
	return c.opts
}

// Compile returns the description and hint VoiceOver would announce for in
// within ctx. An empty hint means none is announced.
func (c *Compiler) Compile(in Input, ctx *model.ContainerContext) (string, string) {
	ctx = c.visibleContext(ctx)
	s := c.session(in.Language)
	traits := in.Traits
	verbosity := c.opts.Verbosity

	// 1. Base description.
	description := in.Label
	if !usesRawLabel(ctx) && traits.Has(model.TraitBackButton) && s.matchesBack(in.Label) {
		description = ""
	}

	// 2. Hint.
	hint := in.Hint

	// 3. Table cell prefix and suffix.
	containsContext := false
	if ctx != nil && ctx.Kind == model.ContextDataTableCell {
		description = s.tableCellDescription(description, ctx)
		containsContext = true
	}

	// 4. Value.
	if in.Value != "" && verbosity.Value && !traits.Has(model.TraitSwitchButton) {
		switch {
		case description == "":
			description = in.Value
		case containsContext:
			description += " " + in.Value
		default:
			description = description + ": " + in.Value
		}
	}

	// 5. High-importance custom content.
	if verbosity.CustomContent {
		for _, content := range in.CustomContent {
			if !content.IsImportant {
				continue
			}
			text := content.Value
			if text == "" {
				text = content.Label
			}
			if text == "" {
				continue
			}
			if description == "" {
				description = text
			} else {
				description += ", " + text
			}
		}
	}

	// 6-7. Selected state and trait specifiers.
	var specifiers []string
	if verbosity.Traits {
		if traits.Has(model.TraitSelected) {
			if description != "" {
				description = s.format(selectedFormat, description)
			} else {
				description = s.text(selectedName)
			}
		}
		specifiers = c.traitSpecifiers(s, in, ctx)
	}

	// 8. A missing description is filled in by the hint.
	if description == "" && verbosity.Hints {
		description = hint
		hint = ""
	}

	// 9. Traits.
	if len(specifiers) > 0 {
		joined := strings.Join(specifiers, " ")
		if description != "" {
			description = withTrailingPeriod(description) + " " + joined
		} else {
			description = joined
		}
	}

	// 10. Series, tab, list and landmark context.
	if ctx.IsPositional() {
		description = strings.TrimLeft(s.format(seriesFormat, description, s.integer(ctx.Index), s.integer(ctx.Count)), " ")
	} else if ctx.IsBoundary() {
		description = appendSentence(description, s.text(boundaryPhrase(ctx.Kind)))
	}

	if !verbosity.Hints {
		return description, ""
	}

	// 11. Switch hint.
	if traits.Has(model.TraitSwitchButton) && !traits.Has(model.TraitNotEnabled) {
		hint = s.extendHint(hint, switchHintFormat, switchHint)
	}

	// 12. Text entry hint.
	if traits.Has(model.TraitTextEntry) && !traits.Has(model.TraitNotEnabled) {
		switch {
		case traits.Has(model.TraitIsEditing):
			hint = s.text(textEntryEditingHint)
		case traits.Has(model.TraitScrollable):
			hint = s.text(textEntryScrollHint)
		default:
			hint = s.text(textEntryHint)
		}
	}

	// 13. Adjustable hint. The hint-only check looks at the original properties,
	// before step 8 moved the hint into the description.
	hasHintOnly := in.Hint != "" && in.Label == "" && in.Value == ""
	hidesAdjustableHint := traits.HasAny(model.TraitNotEnabled|model.TraitSwitchButton) || hasHintOnly
	if traits.Has(model.TraitAdjustable) && !hidesAdjustableHint {
		hint = s.extendHint(hint, adjustableHintFormat, adjustableHint)
	}

	return description, hint
}

func (c *Compiler) visibleContext(ctx *model.ContainerContext) *model.ContainerContext {
	if ctx == nil {
		return nil
	}
	if ctx.Kind == model.ContextDataTableCell {
		if !c.opts.Verbosity.TableContext {
			return nil
		}
		return ctx
	}
	if !c.opts.Verbosity.ContainerContext {
		return nil
	}
	return ctx
}

func (c *Compiler) traitSpecifiers(s session, in Input, ctx *model.ContainerContext) []string {
	traits := in.Traits
	var out []string
	add := func(p phrase) {
		out = append(out, s.text(p))
	}

	if traits.Has(model.TraitNotEnabled) {
		add(notEnabledName)
	}

	hidesButton := traits.HasAny(model.TraitKeyboardKey|model.TraitSwitchButton|model.TraitTabBarItem|model.TraitBackButton) ||
		ctx.HidesButtonTrait()
	if traits.Has(model.TraitButton) && !hidesButton {
		add(buttonName)
	}
	if traits.Has(model.TraitBackButton) {
		add(backButtonName)
	}

	if traits.Has(model.TraitSwitchButton) {
		// The switch trait alone is not read; VoiceOver needs the button trait too.
		if traits.Has(model.TraitButton) {
			add(switchButtonName)
		}
		switch in.Value {
		case "1":
			add(switchOn)
		case "0":
			add(switchOff)
		case "2":
			add(switchMixed)
		default:
			if c.opts.ReadsUnknownSwitchValues && in.Value != "" {
				out = append(out, in.Value)
			}
		}
	}

	if traits.Has(model.TraitTabBarItem) || ctx.ShowsTabTrait() {
		add(tabName)
	}
	if traits.Has(model.TraitTextEntry) {
		add(textEntryName)
		if traits.Has(model.TraitIsEditing) {
			add(isEditingName)
		}
	}
	if traits.Has(model.TraitHeader) {
		add(headerName)
	}
	if traits.Has(model.TraitLink) {
		add(linkName)
	}
	if traits.Has(model.TraitAdjustable) {
		add(adjustableName)
	}
	if traits.Has(model.TraitImage) {
		add(imageName)
	}
	if traits.Has(model.TraitSearchField) {
		add(searchFieldName)
	}
	return out
}

// session binds the localizer to the locale of one element.
type session struct {
	loc    localize.Localizer
	locale language.Tag
}

func (c *Compiler) session(lang string) session {
	return session{loc: c.loc, locale: localize.ParseLocale(lang, c.opts.DefaultLocale)}
}

func (s session) text(p phrase) string {
	return s.loc.Localize(p.key, p.fallback, s.locale)
}

func (s session) format(p phrase, args ...any) string {
	return fmt.Sprintf(s.text(p), args...)
}

func (s session) integer(n int) string {
	return localize.Integer(s.locale, n)
}

func (s session) matchesBack(label string) bool {
	if label == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(label) == fold.String(s.text(backButtonLabel))
}

func (s session) extendHint(hint string, format, standalone phrase) string {
	if hint != "" {
		return s.format(format, strings.TrimSuffix(hint, "."))
	}
	return s.text(standalone)
}

func (s session) tableCellDescription(label string, ctx *model.ContainerContext) string {
	var parts []string
	for _, header := range ctx.RowHeaders {
		if header != "" {
			parts = append(parts, withTrailingPeriod(header))
		}
	}
	for _, header := range ctx.ColumnHeaders {
		if header != "" {
			parts = append(parts, withTrailingPeriod(header))
		}
	}
	if label != "" {
		parts = append(parts, withTrailingPeriod(label))
	}

	rowDefined := ctx.Row != model.NotFound
	columnDefined := ctx.Column != model.NotFound
	if ctx.RowSpan > 1 && rowDefined {
		parts = append(parts, s.format(rowSpanFormat, s.integer(ctx.RowSpan)))
	}
	if ctx.ColumnSpan > 1 && columnDefined {
		parts = append(parts, s.format(columnSpanFormat, s.integer(ctx.ColumnSpan)))
	}
	if ctx.IsFirstInRow && rowDefined {
		parts = append(parts, s.format(rowFormat, s.integer(ctx.Row+1)))
	}
	if columnDefined {
		parts = append(parts, s.format(columnFormat, s.integer(ctx.Column+1)))
	}
	return strings.Join(parts, " ")
}

// usesRawLabel reports whether the context keeps the label even for back buttons.
func usesRawLabel(ctx *model.ContainerContext) bool {
	if ctx == nil {
		return false
	}
	switch ctx.Kind {
	case model.ContextDataTableCell, model.ContextListStart, model.ContextListEnd,
		model.ContextTab, model.ContextSeries, model.ContextTabBarItem:
		return true
	}
	return false
}

func boundaryPhrase(kind model.ContextKind) phrase {
	switch kind {
	case model.ContextListStart:
		return listStart
	case model.ContextListEnd:
		return listEnd
	case model.ContextLandmarkStart:
		return landmarkStart
	default:
		return landmarkEnd
	}
}

func withTrailingPeriod(s string) string {
	if s == "" || strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

func appendSentence(base, sentence string) string {
	if base == "" {
		return sentence
	}
	return withTrailingPeriod(base) + " " + sentence
}
