package describe

// phrase is a localizable string: a table key plus its English default.
type phrase struct {
	key      string
	fallback string
}

var (
	backButtonLabel = phrase{"back_button.label", "Back"}

	selectedFormat = phrase{"trait.selected.format", "Selected: %s"}
	selectedName   = phrase{"trait.selected", "Selected."}

	notEnabledName   = phrase{"trait.not_enabled", "Dimmed."}
	buttonName       = phrase{"trait.button", "Button."}
	backButtonName   = phrase{"trait.back_button", "Back Button."}
	switchButtonName = phrase{"trait.switch_button", "Switch Button."}
	switchOn         = phrase{"trait.switch_button.on", "On."}
	switchOff        = phrase{"trait.switch_button.off", "Off."}
	switchMixed      = phrase{"trait.switch_button.mixed", "Mixed."}
	tabName          = phrase{"trait.tab", "Tab."}
	textEntryName    = phrase{"trait.text_entry", "Text Field."}
	isEditingName    = phrase{"trait.is_editing", "Is editing."}
	headerName       = phrase{"trait.header", "Heading."}
	linkName         = phrase{"trait.link", "Link."}
	adjustableName   = phrase{"trait.adjustable", "Adjustable."}
	imageName        = phrase{"trait.image", "Image."}
	searchFieldName  = phrase{"trait.search_field", "Search Field."}

	seriesFormat = phrase{"context.series.format", "%s %s of %s."}

	rowSpanFormat    = phrase{"context.data_table.row_span.format", "Spans %s rows."}
	columnSpanFormat = phrase{"context.data_table.column_span.format", "Spans %s columns."}
	rowFormat        = phrase{"context.data_table.row.format", "Row %s."}
	columnFormat     = phrase{"context.data_table.column.format", "Column %s."}

	listStart     = phrase{"context.list_start", "List Start."}
	listEnd       = phrase{"context.list_end", "List End."}
	landmarkStart = phrase{"context.landmark_start", "Landmark."}
	landmarkEnd   = phrase{"context.landmark_end", "End."}

	switchHintFormat     = phrase{"hint.switch_button.format", "%s. Double tap to toggle setting."}
	switchHint           = phrase{"hint.switch_button", "Double tap to toggle setting."}
	adjustableHintFormat = phrase{"hint.adjustable.format", "%s. Swipe up or down with one finger to adjust the value."}
	adjustableHint       = phrase{"hint.adjustable", "Swipe up or down with one finger to adjust the value."}
	textEntryHint        = phrase{"hint.text_entry", "Double tap to edit."}
	textEntryEditingHint = phrase{"hint.text_entry.editing", "Use the rotor to access Misspelled Words"}
	textEntryScrollHint  = phrase{"hint.text_entry.scrollable", "Double tap to edit., Use the rotor to access Misspelled Words"}
)
