package render

import (
	"math"

	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/resolve"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

func (l *layouter) schedule(y float64) *Box {
	box := &Box{Kind: KindSchedule, X: SideMargin, Y: y, W: l.innerWidth()}
	items := l.in.Schedule.Items
	if len(items) == 0 {
		row := l.placeholder(box.X, y, box.W)
		box.Add(row)
		box.H = row.H
		return box
	}

	switch l.st.Layout {
	case style.LayoutGrid:
		l.grid(box, items)
	case style.LayoutCard:
		l.list(box, items, true)
	default:
		l.list(box, items, false)
	}
	return box
}

// list stacks one row per item. Carded rows get a card background.
func (l *layouter) list(box *Box, items []schedule.Item, carded bool) {
	timeCol := l.timeColumn(items, box.W)
	cy := box.Y
	for i, it := range items {
		if i > 0 {
			cy += l.sp.RowGap
		}
		row := l.listRow(it, box.X, cy, box.W, timeCol, carded)
		l.decorate(row, i, carded)
		box.Add(row)
		cy = row.Bottom()
	}
	box.H = cy - box.Y
}

// grid places items in two columns of cards.
func (l *layouter) grid(box *Box, items []schedule.Item) {
	cellW := (box.W - l.sp.RowGap) / 2
	cy := box.Y
	for r := 0; r*2 < len(items); r++ {
		if r > 0 {
			cy += l.sp.RowGap
		}
		var cells []*Box
		rowH := 0.0
		for c := 0; c < 2 && r*2+c < len(items); c++ {
			x := box.X + float64(c)*(cellW+l.sp.RowGap)
			cell := l.gridCell(items[r*2+c], x, cy, cellW)
			cells = append(cells, cell)
			rowH = math.Max(rowH, cell.H)
		}
		for _, cell := range cells {
			cell.H = rowH
			l.decorate(cell, r, true)
			box.Add(cell)
		}
		cy += rowH
	}
	box.H = cy - box.Y
}

func (l *layouter) listRow(it schedule.Item, x, y, w, timeCol float64, carded bool) *Box {
	pad := l.sp.CardPadding
	row := l.rowBox(it, x, y, w, carded)

	cx := x + pad
	contentW := w - 2*pad
	var timeH float64
	if l.sheet.Shown(elements.Time) {
		if tb := textBox(l.m, l.font(elements.Time), it.Time, cx, y+pad, timeCol, 1, AlignStart); tb != nil {
			row.Add(tb)
			timeH = tb.H
		}
		cx += timeCol + l.sp.TimePadding
		contentW -= timeCol + l.sp.TimePadding
	}

	boxes, stackH := l.details(it, cx, y+pad, contentW)
	row.Add(boxes...)
	row.H = math.Max(timeH, stackH) + 2*pad
	return row
}

func (l *layouter) gridCell(it schedule.Item, x, y, w float64) *Box {
	pad := l.sp.CardPadding
	cell := l.rowBox(it, x, y, w, true)
	cy := y + pad
	if l.sheet.Shown(elements.Time) {
		if tb := textBox(l.m, l.font(elements.Time), it.Time, x+pad, cy, w-2*pad, 1, AlignStart); tb != nil {
			cell.Add(tb)
			cy = tb.Bottom() + stackGap
		}
	}
	boxes, stackH := l.details(it, x+pad, cy, w-2*pad)
	cell.Add(boxes...)
	cell.H = cy - y + stackH + pad
	return cell
}

func (l *layouter) rowBox(it schedule.Item, x, y, w float64, carded bool) *Box {
	b := &Box{Kind: KindRow, ItemID: it.ID, X: x, Y: y, W: w}
	if carded {
		b.Kind = KindCard
		b.Fill = l.st.CardColor
	}
	return b
}

// details stacks class name, instructor, location/duration and description.
// It returns the boxes and the stack height.
func (l *layouter) details(it schedule.Item, x, y, w float64) ([]*Box, float64) {
	var out []*Box
	cy := y
	push := func(b *Box) {
		if b == nil {
			return
		}
		if len(out) > 0 {
			b.Y += stackGap
		}
		out = append(out, b)
		cy = b.Bottom()
	}

	if l.sheet.Shown(elements.ClassName) {
		push(textBox(l.m, l.font(elements.ClassName), it.ClassName, x, cy, w, 2, AlignStart))
	}
	if l.sheet.Shown(elements.Instructor) {
		push(textBox(l.m, l.font(elements.Instructor), it.Instructor, x, cy, w, 1, AlignStart))
	}
	if inline := l.inline(it, x, cy, w); len(inline) > 0 {
		lineY := cy
		if len(out) > 0 {
			lineY += stackGap
		}
		bottom := lineY
		for _, b := range inline {
			b.Y = lineY
			bottom = math.Max(bottom, b.Bottom())
		}
		out = append(out, inline...)
		cy = bottom
	}
	if l.sheet.Shown(elements.Description) {
		push(textBox(l.m, l.font(elements.Description), it.Description, x, cy, w, 2, AlignStart))
	}
	return out, cy - y
}

// inline lays location and duration out on one line.
func (l *layouter) inline(it schedule.Item, x, y, w float64) []*Box {
	var out []*Box
	cx := x
	for _, id := range []elements.ID{elements.Location, elements.Duration} {
		if !l.sheet.Shown(id) {
			continue
		}
		text := elements.Field(id, it)
		if text == "" {
			continue
		}
		r := l.font(id)
		remaining := x + w - cx
		if remaining <= 0 {
			break
		}
		b := textBox(l.m, r, text, cx, y, remaining, 1, AlignStart)
		if b == nil {
			continue
		}
		b.W = math.Min(remaining, textWidth(l.m, r, b.Lines[0]))
		out = append(out, b)
		cx += b.W + inlineGap
	}
	return out
}

// timeColumn is the widest time label, capped at 40% of the row.
func (l *layouter) timeColumn(items []schedule.Item, rowW float64) float64 {
	if !l.sheet.Shown(elements.Time) {
		return 0
	}
	r := l.font(elements.Time)
	widest := 0.0
	for _, it := range items {
		widest = math.Max(widest, textWidth(l.m, r, it.Time))
	}
	return math.Ceil(math.Min(widest, 0.4*rowW))
}

// decorate adds the absolutely positioned overlays of a row: stripe,
// hairline, divider and accent bar. None of them change b.H, and all paint
// beneath the row's text.
func (l *layouter) decorate(b *Box, index int, carded bool) {
	if carded {
		b.Radius = l.st.Radius.Pixels(b.H)
	}

	var under []*Box
	if l.sheet.Striped {
		if index%2 == 1 {
			under = append(under, &Box{
				Kind: KindStripe, X: b.X, Y: b.Y, W: b.W, H: b.H,
				Fill: l.sheet.StripeOverlay, Radius: b.Radius, Absolute: true,
			})
		}
		if index > 0 {
			under = append(under, &Box{
				Kind: KindHairline, X: b.X, Y: b.Y - l.sp.RowGap/2, W: b.W, H: HairlineSize,
				Fill: l.sheet.Hairline, Absolute: true,
			})
		}
	} else if !carded && index > 0 && l.st.Divider != style.DividerNone {
		under = append(under, l.divider(b))
	}
	if l.st.HasAccentLines() {
		under = append(under, &Box{
			Kind:     KindAccent,
			X:        b.X + accentInset(l.sp.CardPadding),
			Y:        b.Y + AccentInset,
			W:        AccentWidth,
			H:        math.Max(0, b.H-2*AccentInset),
			Fill:     l.st.AccentColor,
			Radius:   AccentWidth / 2,
			Absolute: true,
		})
	}
	b.Children = append(under, b.Children...)
}

// accentInset keeps the accent bar inside the left padding of a row. At
// full padding it sits AccentInset from the edge; when density shrinks the
// padding the bar is centered in what is left.
func accentInset(pad float64) float64 {
	return math.Min(AccentInset, math.Max(0, (pad-AccentWidth)/2))
}

func (l *layouter) divider(b *Box) *Box {
	d := &Box{
		Kind:     KindDivider,
		X:        b.X,
		Y:        b.Y - l.sp.RowGap/2,
		W:        b.W,
		H:        HairlineSize,
		Stroke:   l.st.TextSecondary,
		Opacity:  0.3,
		Absolute: true,
	}
	switch l.st.Divider {
	case style.DividerDashed:
		d.Dash = "12 8"
	case style.DividerDots:
		d.Dash = "2 10"
		d.H = 2
	}
	return d
}

func (l *layouter) placeholder(x, y, w float64) *Box {
	pad := l.sp.CardPadding
	r := l.sheet.Placeholder
	row := &Box{Kind: KindPlaceholder, X: x, Y: y, W: w}
	if l.st.Layout != style.LayoutList {
		row.Fill = l.st.CardColor
	}
	text := textBox(l.m, r, resolve.PlaceholderText, x+pad, y+pad, w-2*pad, 1, AlignMiddle)
	row.Add(text)
	row.H = text.H + 2*pad
	if row.Fill != "" {
		row.Radius = l.st.Radius.Pixels(row.H)
	}
	return row
}
