package style

// Merge returns a new Style where every field set in patch overrides prev.
// Neither argument is modified. Pointer fields are copied so the result never
// aliases patch.
func Merge(prev, patch Style) Style {
	out := prev

	mergeString(&out.TemplateID, patch.TemplateID)
	mergeString(&out.FontFamily, patch.FontFamily)
	mergeString(&out.AccentColor, patch.AccentColor)
	mergeString(&out.BackgroundColor, patch.BackgroundColor)
	mergeString(&out.TextPrimary, patch.TextPrimary)
	mergeString(&out.TextSecondary, patch.TextSecondary)
	mergeString(&out.CardColor, patch.CardColor)
	mergeString(&out.BackgroundImage, patch.BackgroundImage)
	mergeString(&out.BackgroundPosition, patch.BackgroundPosition)
	mergeString(&out.LogoURL, patch.LogoURL)
	mergeString(&out.Heading, patch.Heading)
	mergeString(&out.Subtitle, patch.Subtitle)
	mergeString(&out.FooterText, patch.FooterText)

	if patch.BackgroundFit != "" {
		out.BackgroundFit = patch.BackgroundFit
	}
	if patch.LogoPosition != "" {
		out.LogoPosition = patch.LogoPosition
	}
	if patch.Radius != "" {
		out.Radius = patch.Radius
	}
	if patch.Divider != "" {
		out.Divider = patch.Divider
	}
	if patch.Spacing != "" {
		out.Spacing = patch.Spacing
	}
	if patch.Layout != "" {
		out.Layout = patch.Layout
	}

	mergeInt(&out.LogoSize, patch.LogoSize)
	mergeInt(&out.LogoPadding, patch.LogoPadding)
	mergeInt(&out.BodySize, patch.BodySize)
	mergeInt(&out.HeadingWeight, patch.HeadingWeight)

	out.BackgroundBlur = mergeFloat(prev.BackgroundBlur, patch.BackgroundBlur)
	out.BackgroundOverlay = mergeFloat(prev.BackgroundOverlay, patch.BackgroundOverlay)

	out.ShowHeading = mergeBool(prev.ShowHeading, patch.ShowHeading)
	out.ShowSubtitle = mergeBool(prev.ShowSubtitle, patch.ShowSubtitle)
	out.ShowSchedule = mergeBool(prev.ShowSchedule, patch.ShowSchedule)
	out.ShowFooter = mergeBool(prev.ShowFooter, patch.ShowFooter)
	out.ShowDate = mergeBool(prev.ShowDate, patch.ShowDate)
	out.AccentLines = mergeBool(prev.AccentLines, patch.AccentLines)
	out.FooterBar = mergeBool(prev.FooterBar, patch.FooterBar)

	return out
}

// ClearImage returns a copy of s without a background image.
// Merge cannot express clearing a string field, so removals go through here.
func (s Style) ClearImage() Style {
	s.BackgroundImage = ""
	return s
}

// ClearLogo returns a copy of s without a logo.
func (s Style) ClearLogo() Style {
	s.LogoURL = ""
	return s
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func mergeBool(prev, patch *bool) *bool {
	if patch != nil {
		return Bool(*patch)
	}
	if prev != nil {
		return Bool(*prev)
	}
	return nil
}

func mergeFloat(prev, patch *float64) *float64 {
	if patch != nil {
		return Float(*patch)
	}
	if prev != nil {
		return Float(*prev)
	}
	return nil
}
