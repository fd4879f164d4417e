package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/densecs/ecs"
)

func NewFilterDebuggerWindow(maxListed int) *FilterDebuggerWindow {
	return &FilterDebuggerWindow{
		required:  make(map[ecs.Bit]bool),
		excluded:  make(map[ecs.Bit]bool),
		maxListed: maxListed,
	}
}

func (fd *FilterDebuggerWindow) Render(manager *ecs.EntityManager, registry *ecs.SignatureRegistry) {
	if !imgui.BeginV("Filter Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if imgui.Button("Clear All") {
		fd.required = make(map[ecs.Bit]bool)
		fd.excluded = make(map[ecs.Bit]bool)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("FilterBitsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Require")
		imgui.TableSetupColumn("Exclude")
		imgui.TableHeadersRow()

		for bit := ecs.Bit(0); uint(bit) < registry.Width(); bit++ {
			name, ok := registry.BitName(bit)
			if !ok {
				continue
			}
			imgui.TableNextRow()

			imgui.TableSetColumnIndex(0)
			imgui.Text(name)

			imgui.TableSetColumnIndex(1)
			required := fd.required[bit]
			if imgui.Checkbox(fmt.Sprintf("##req%d", bit), &required) {
				fd.toggle(bit, required, false)
			}

			imgui.TableSetColumnIndex(2)
			excluded := fd.excluded[bit]
			if imgui.Checkbox(fmt.Sprintf("##exc%d", bit), &excluded) {
				fd.toggle(bit, excluded, true)
			}
		}
		imgui.EndTable()
	}

	imgui.Separator()

	matched, err := manager.Match(fd.filter(registry))
	if err != nil {
		imgui.Text(fmt.Sprintf("Filter error: %v", err))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Matching Entities: %d / %d", matched.GetCardinality(), manager.Len()))

	if imgui.TreeNodeStr("Matched Ids") {
		listed := 0
		it := matched.Iterator()
		for it.HasNext() && listed < fd.maxListed {
			imgui.BulletText(fmt.Sprintf("%d", it.Next()))
			listed++
		}
		if matched.GetCardinality() > uint64(listed) {
			imgui.Text(fmt.Sprintf("... and %d more", matched.GetCardinality()-uint64(listed)))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// toggle keeps a bit out of both sets at once; the later choice wins.
func (fd *FilterDebuggerWindow) toggle(bit ecs.Bit, on bool, exclude bool) {
	delete(fd.required, bit)
	delete(fd.excluded, bit)
	if !on {
		return
	}
	if exclude {
		fd.excluded[bit] = true
	} else {
		fd.required[bit] = true
	}
}

func (fd *FilterDebuggerWindow) filter(resolver ecs.BitResolver) *ecs.Filter {
	f := ecs.NewFilter(resolver)
	for bit := range fd.required {
		f.WithBit(bit)
	}
	for bit := range fd.excluded {
		f.WithoutBit(bit)
	}
	return f
}
