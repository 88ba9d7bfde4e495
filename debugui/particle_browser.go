package debugui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/scheduler"
)

// ParticleInfo is one row of the particle browser.
type ParticleInfo struct {
	Index   int
	Kind    field.Kind
	X, Y    float64
	Speed   float64
	Radius  float64
	Opacity float64
}

const (
	columnIndex = iota
	columnKind
	columnSpeed
	columnRadius
	columnOpacity
)

// ParticleBrowser lists the field's particles in a sortable, paged table.
// A selected particle can be removed or burst from; the action is queued as
// a command on the following tick.
type ParticleBrowser struct {
	rows          []ParticleInfo
	filtered      []ParticleInfo
	filterText    string
	sortColumn    int
	sortAscending bool
	perPage       int
	currentPage   int
	selected      int

	pendingRemove int
	pendingBurst  *field.Point
}

func NewParticleBrowser(perPage int) *ParticleBrowser {
	return &ParticleBrowser{
		sortAscending: true,
		perPage:       max(perPage, 1),
		selected:      -1,
		pendingRemove: -1,
	}
}

// Capture applies the queued action to cmds and snapshots ps into rows.
func (pb *ParticleBrowser) Capture(ps []field.Particle, cmds *scheduler.Commands) {
	if pb.pendingRemove >= 0 {
		cmds.Remove(pb.pendingRemove)
		pb.pendingRemove = -1
		pb.selected = -1
	}
	if pb.pendingBurst != nil {
		cmds.Burst(pb.pendingBurst.X, pb.pendingBurst.Y)
		pb.pendingBurst = nil
	}

	pb.rows = pb.rows[:0]
	for i := range ps {
		p := &ps[i]
		pb.rows = append(pb.rows, ParticleInfo{
			Index:   i,
			Kind:    p.Kind,
			X:       p.X,
			Y:       p.Y,
			Speed:   math.Hypot(p.VX, p.VY),
			Radius:  p.Radius,
			Opacity: p.Opacity,
		})
	}
	if pb.selected >= len(pb.rows) {
		pb.selected = -1
	}
	pb.sortRows()
	pb.filter()
}

// Rows returns the sorted, filtered rows from the last capture.
func (pb *ParticleBrowser) Rows() []ParticleInfo {
	return pb.filtered
}

// Sort orders the rows by column.
func (pb *ParticleBrowser) Sort(column int, ascending bool) {
	pb.sortColumn = column
	pb.sortAscending = ascending
	pb.sortRows()
	pb.filter()
}

// Filter keeps the rows whose kind or index contains text.
func (pb *ParticleBrowser) Filter(text string) {
	pb.filterText = text
	pb.filter()
}

// Select marks the particle at index i; -1 clears the selection.
func (pb *ParticleBrowser) Select(i int) {
	pb.selected = i
}

// RemoveSelected queues removal of the selected particle.
func (pb *ParticleBrowser) RemoveSelected() {
	if pb.selected >= 0 {
		pb.pendingRemove = pb.selected
	}
}

// BurstSelected queues a burst centred on the selected particle.
func (pb *ParticleBrowser) BurstSelected() {
	for _, row := range pb.rows {
		if row.Index == pb.selected {
			pb.pendingBurst = &field.Point{X: row.X, Y: row.Y}
			return
		}
	}
}

func (pb *ParticleBrowser) sortRows() {
	sort.SliceStable(pb.rows, func(i, j int) bool {
		a, b := pb.rows[i], pb.rows[j]
		var less bool

		switch pb.sortColumn {
		case columnKind:
			less = a.Kind < b.Kind
		case columnSpeed:
			less = a.Speed < b.Speed
		case columnRadius:
			less = a.Radius < b.Radius
		case columnOpacity:
			less = a.Opacity < b.Opacity
		default:
			less = a.Index < b.Index
		}

		if !pb.sortAscending {
			return !less
		}
		return less
	})
}

func (pb *ParticleBrowser) filter() {
	if pb.filterText == "" {
		pb.filtered = pb.rows
		return
	}

	pb.filtered = make([]ParticleInfo, 0, len(pb.rows))
	filterLower := strings.ToLower(pb.filterText)
	for _, row := range pb.rows {
		if !strings.Contains(fmt.Sprintf("%d", row.Index), filterLower) &&
			!strings.Contains(row.Kind.String(), filterLower) {
			continue
		}
		pb.filtered = append(pb.filtered, row)
	}
}

func (pb *ParticleBrowser) Render() {
	if !imgui.BeginV("Particle Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	text := pb.filterText
	if imgui.InputTextWithHint("##search", "Search...", &text, imgui.InputTextFlagsNone, nil) {
		pb.Filter(text)
	}
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		pb.Filter("")
	}

	if pb.selected >= 0 {
		imgui.Text(fmt.Sprintf("Selected: %d", pb.selected))
		imgui.SameLine()
		if imgui.Button("Burst") {
			pb.BurstSelected()
		}
		imgui.SameLine()
		if imgui.Button("Remove") {
			pb.RemoveSelected()
		}
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ParticleTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Index")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Speed")
		imgui.TableSetupColumn("Radius")
		imgui.TableSetupColumn("Opacity")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pb.Sort(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		start := min(pb.currentPage*pb.perPage, len(pb.filtered))
		end := min(start+pb.perPage, len(pb.filtered))
		for _, row := range pb.filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.Index), pb.selected == row.Index, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				pb.selected = row.Index
			}
			imgui.TableNextColumn()
			imgui.Text(row.Kind.String())
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", row.Speed))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.Radius))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.Opacity))
		}

		imgui.EndTable()
	}

	if len(pb.filtered) > pb.perPage {
		totalPages := (len(pb.filtered) + pb.perPage - 1) / pb.perPage
		pb.currentPage = min(pb.currentPage, totalPages-1)
		imgui.Text(fmt.Sprintf("Page %d / %d (%d particles)", pb.currentPage+1, totalPages, len(pb.filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && pb.currentPage > 0 {
			pb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && pb.currentPage < totalPages-1 {
			pb.currentPage++
		}
	} else {
		pb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d particles", len(pb.filtered)))
	}

	imgui.End()
}
