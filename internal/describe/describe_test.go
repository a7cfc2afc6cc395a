package describe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dejo1307/a11ysnap/internal/localize"
	"github.com/dejo1307/a11ysnap/internal/model"
)

const adjustHint = "Swipe up or down with one finger to adjust the value."

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		ctx      *model.ContainerContext
		wantDesc string
		wantHint string
	}{
		{
			name:     "label and value",
			in:       Input{Label: "Label", Value: "Value"},
			wantDesc: "Label: Value",
		},
		{
			name:     "hint only adjustable keeps hint suppressed",
			in:       Input{Hint: "Hint", Traits: model.TraitAdjustable},
			wantDesc: "Hint. Adjustable.",
		},
		{
			name:     "selected button",
			in:       Input{Label: "Submit", Traits: model.TraitButton | model.TraitSelected},
			wantDesc: "Selected: Submit. Button.",
		},
		{
			name:     "selected without label",
			in:       Input{Traits: model.TraitSelected},
			wantDesc: "Selected.",
		},
		{
			name:     "spanning table cell",
			in:       Input{Label: "A1"},
			ctx:      model.DataTableCellContext(0, 0, 1, 2, true, nil, nil),
			wantDesc: "A1. Spans 2 columns. Row 1. Column 1.",
		},
		{
			name:     "table cell with headers and value",
			in:       Input{Label: "Alice", Value: "30"},
			ctx:      model.DataTableCellContext(1, 1, 1, 1, false, nil, []string{"Age"}),
			wantDesc: "Age. Alice. Column 2. 30",
		},
		{
			name:     "unlabeled table cell with header",
			ctx:      model.DataTableCellContext(1, 0, 1, 1, true, nil, []string{"Name"}),
			wantDesc: "Name. Row 2. Column 1.",
		},
		{
			name:     "unlabeled table cell without headers",
			ctx:      model.DataTableCellContext(0, 0, 1, 1, true, nil, nil),
			wantDesc: "Row 1. Column 1.",
		},
		{
			name:     "table cell undefined coordinates",
			in:       Input{Label: "Loose"},
			ctx:      model.DataTableCellContext(model.NotFound, model.NotFound, 0, 0, false, nil, nil),
			wantDesc: "Loose.",
		},
		{
			name:     "series",
			in:       Input{Label: "Page"},
			ctx:      model.SeriesContext(2, 5),
			wantDesc: "Page 2 of 5.",
		},
		{
			name:     "tab hides button trait",
			in:       Input{Label: "Home", Traits: model.TraitButton},
			ctx:      model.TabContext(1, 3),
			wantDesc: "Home. Tab. 1 of 3.",
		},
		{
			name:     "tab bar item keeps button trait",
			in:       Input{Label: "Home", Traits: model.TraitButton},
			ctx:      model.TabBarItemContext(1, 2),
			wantDesc: "Home. Button. Tab. 1 of 2.",
		},
		{
			name:     "list start",
			in:       Input{Label: "One"},
			ctx:      model.ListStartContext(),
			wantDesc: "One. List Start.",
		},
		{
			name:     "landmark end without label",
			ctx:      model.LandmarkEndContext(),
			wantDesc: "End.",
		},
		{
			name:     "switch on",
			in:       Input{Label: "Wi-Fi", Value: "1", Traits: model.TraitButton | model.TraitSwitchButton},
			wantDesc: "Wi-Fi. Switch Button. On.",
			wantHint: "Double tap to toggle setting.",
		},
		{
			name:     "switch mixed with hint",
			in:       Input{Label: "Sync", Value: "2", Hint: "Syncs photos.", Traits: model.TraitButton | model.TraitSwitchButton},
			wantDesc: "Sync. Switch Button. Mixed.",
			wantHint: "Syncs photos. Double tap to toggle setting.",
		},
		{
			name:     "switch without button trait",
			in:       Input{Label: "Wi-Fi", Value: "0", Traits: model.TraitSwitchButton},
			wantDesc: "Wi-Fi. Off.",
			wantHint: "Double tap to toggle setting.",
		},
		{
			name:     "switch unknown value",
			in:       Input{Label: "Mode", Value: "auto", Traits: model.TraitButton | model.TraitSwitchButton},
			wantDesc: "Mode. Switch Button. auto",
			wantHint: "Double tap to toggle setting.",
		},
		{
			name:     "dimmed switch has no hint",
			in:       Input{Label: "Wi-Fi", Value: "1", Traits: model.TraitButton | model.TraitSwitchButton | model.TraitNotEnabled},
			wantDesc: "Wi-Fi. Dimmed. Switch Button. On.",
		},
		{
			name:     "back button with default label",
			in:       Input{Label: "back", Traits: model.TraitBackButton},
			wantDesc: "Back Button.",
		},
		{
			name:     "back button with custom label",
			in:       Input{Label: "Settings", Traits: model.TraitBackButton | model.TraitButton},
			wantDesc: "Settings. Back Button.",
		},
		{
			name:     "back button label kept in series",
			in:       Input{Label: "Back", Traits: model.TraitBackButton},
			ctx:      model.SeriesContext(1, 2),
			wantDesc: "Back. Back Button. 1 of 2.",
		},
		{
			name:     "text entry",
			in:       Input{Label: "Name", Traits: model.TraitTextEntry},
			wantDesc: "Name. Text Field.",
			wantHint: "Double tap to edit.",
		},
		{
			name:     "text entry editing",
			in:       Input{Label: "Name", Traits: model.TraitTextEntry | model.TraitIsEditing},
			wantDesc: "Name. Text Field. Is editing.",
			wantHint: "Use the rotor to access Misspelled Words",
		},
		{
			name:     "scrollable text entry",
			in:       Input{Label: "Notes", Traits: model.TraitTextEntry | model.TraitScrollable},
			wantDesc: "Notes. Text Field.",
			wantHint: "Double tap to edit., Use the rotor to access Misspelled Words",
		},
		{
			name:     "adjustable extends hint",
			in:       Input{Label: "Volume", Value: "50%", Hint: "Louder", Traits: model.TraitAdjustable},
			wantDesc: "Volume: 50%. Adjustable.",
			wantHint: "Louder. " + adjustHint,
		},
		{
			name:     "adjustable without hint",
			in:       Input{Label: "Volume", Traits: model.TraitAdjustable},
			wantDesc: "Volume. Adjustable.",
			wantHint: adjustHint,
		},
		{
			name:     "dimmed adjustable",
			in:       Input{Label: "Volume", Traits: model.TraitAdjustable | model.TraitNotEnabled},
			wantDesc: "Volume. Dimmed. Adjustable.",
		},
		{
			name:     "important custom content",
			in:       Input{Label: "Photo", CustomContent: []model.CustomContent{{Label: "Date", Value: "Today", IsImportant: true}, {Label: "Size", Value: "2 MB"}}},
			wantDesc: "Photo, Today",
		},
		{
			name:     "custom content label when value empty",
			in:       Input{CustomContent: []model.CustomContent{{Label: "Favorite", IsImportant: true}}},
			wantDesc: "Favorite",
		},
		{
			name:     "trait order",
			in:       Input{Label: "Logo", Traits: model.TraitImage | model.TraitLink | model.TraitHeader},
			wantDesc: "Logo. Heading. Link. Image.",
		},
		{
			name:     "label ending in period",
			in:       Input{Label: "Done.", Traits: model.TraitButton},
			wantDesc: "Done. Button.",
		},
		{
			name: "empty input",
		},
	}

	c := New(nil, DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, hint := c.Compile(tt.in, tt.ctx)
			assert.Equal(t, tt.wantDesc, desc)
			assert.Equal(t, tt.wantHint, hint)
		})
	}
}

func TestCompile_ReadsUnknownSwitchValuesDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ReadsUnknownSwitchValues = false
	c := New(nil, opts)

	desc, _ := c.Compile(Input{Label: "Mode", Value: "auto", Traits: model.TraitButton | model.TraitSwitchButton}, nil)
	assert.Equal(t, "Mode. Switch Button.", desc)
}

func TestCompile_MinimalVerbosity(t *testing.T) {
	opts := DefaultOptions()
	opts.Verbosity = Minimal()
	c := New(nil, opts)

	desc, hint := c.Compile(Input{Label: "Volume", Value: "50%", Hint: "Louder", Traits: model.TraitAdjustable}, model.SeriesContext(1, 2))
	assert.Equal(t, "Volume", desc)
	assert.Empty(t, hint)

	desc, hint = c.Compile(Input{Hint: "Only a hint"}, nil)
	assert.Empty(t, desc)
	assert.Empty(t, hint)
}

func TestCompile_VerbosityFlags(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Verbosity)
		in       Input
		ctx      *model.ContainerContext
		wantDesc string
	}{
		{
			name:     "no table context",
			modify:   func(v *Verbosity) { v.TableContext = false },
			in:       Input{Label: "A1"},
			ctx:      model.DataTableCellContext(0, 0, 1, 2, true, nil, nil),
			wantDesc: "A1",
		},
		{
			name:     "no container context",
			modify:   func(v *Verbosity) { v.ContainerContext = false },
			in:       Input{Label: "Page"},
			ctx:      model.SeriesContext(2, 5),
			wantDesc: "Page",
		},
		{
			name:     "container context off keeps table",
			modify:   func(v *Verbosity) { v.ContainerContext = false },
			in:       Input{Label: "A1"},
			ctx:      model.DataTableCellContext(0, 0, 1, 1, true, nil, nil),
			wantDesc: "A1. Row 1. Column 1.",
		},
		{
			name:     "no value",
			modify:   func(v *Verbosity) { v.Value = false },
			in:       Input{Label: "Label", Value: "Value"},
			wantDesc: "Label",
		},
		{
			name:     "no custom content",
			modify:   func(v *Verbosity) { v.CustomContent = false },
			in:       Input{Label: "Photo", CustomContent: []model.CustomContent{{Label: "Date", Value: "Today", IsImportant: true}}},
			wantDesc: "Photo",
		},
		{
			name:     "no traits",
			modify:   func(v *Verbosity) { v.Traits = false },
			in:       Input{Label: "Submit", Traits: model.TraitButton | model.TraitSelected},
			wantDesc: "Submit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts.Verbosity)
			desc, _ := New(nil, opts).Compile(tt.in, tt.ctx)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestCompile_Localized(t *testing.T) {
	table, err := localize.Builtin()
	require.NoError(t, err)
	c := New(table, DefaultOptions())

	desc, _ := c.Compile(Input{Label: "Sichern", Traits: model.TraitButton, Language: "de"}, nil)
	assert.Equal(t, "Sichern. Taste.", desc)

	desc, _ = c.Compile(Input{Label: "Seite", Language: "de-AT"}, model.SeriesContext(2, 5))
	assert.Equal(t, "Seite 2 von 5.", desc)

	desc, _ = c.Compile(Input{Label: "Zurück", Traits: model.TraitBackButton, Language: "de"}, nil)
	assert.Equal(t, "Zurück-Taste.", desc)

	// Elements without a language use the default locale.
	desc, _ = c.Compile(Input{Label: "Save", Traits: model.TraitButton}, nil)
	assert.Equal(t, "Save. Button.", desc)
}

func TestCompile_DefaultLocale(t *testing.T) {
	table, err := localize.Builtin()
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.DefaultLocale = language.German
	c := New(table, opts)

	desc, hint := c.Compile(Input{Label: "Lautstärke", Traits: model.TraitAdjustable}, nil)
	assert.Equal(t, "Lautstärke. Anpassbar.", desc)
	assert.Equal(t, "Zum Anpassen des Werts mit einem Finger nach oben oder unten streichen.", hint)
}

func TestCompile_FakeLocalizer(t *testing.T) {
	loc := localize.Func(func(key, fallback string, _ language.Tag) string {
		if key == "trait.button" {
			return "[button]"
		}
		return fallback
	})
	desc, _ := New(loc, DefaultOptions()).Compile(Input{Label: "OK", Traits: model.TraitButton}, nil)
	assert.Equal(t, "OK. [button]", desc)
}
