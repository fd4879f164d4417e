package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/densecs/ecs"
)

func NewSignatureInspectorWindow() *SignatureInspectorWindow {
	return &SignatureInspectorWindow{}
}

// Render lists every registered bit for the selected entity. Toggling a
// checkbox sets or clears the bit directly; this runs after the frame's
// commands were flushed, outside any ForEach.
func (si *SignatureInspectorWindow) Render(manager *ecs.EntityManager, registry *ecs.SignatureRegistry, selected ecs.EntityId, ok bool) {
	if !imgui.BeginV("Signature Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !ok {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	si.selectedEntityId = selected

	sig, err := manager.Signature(si.selectedEntityId)
	if err != nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", si.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", si.selectedEntityId))
	imgui.Text(fmt.Sprintf("Signature: %s", sig.String()))
	imgui.Separator()

	for _, row := range signatureRows(registry, sig) {
		set := row.Set
		if !imgui.Checkbox(fmt.Sprintf("%s##bit%d", row.Name, row.Bit), &set) {
			continue
		}
		if set {
			err = manager.SetBit(si.selectedEntityId, row.Bit)
		} else {
			err = manager.ClearBit(si.selectedEntityId, row.Bit)
		}
		if err != nil {
			manager.Logger().Warn().Err(err).Uint32("entity", uint32(si.selectedEntityId)).Msg("debug ui bit toggle failed")
		}
	}

	imgui.End()
}

type signatureRow struct {
	Bit  ecs.Bit
	Name string
	Set  bool
}

// signatureRows returns one row per registered component and tag, in bit order.
func signatureRows(registry *ecs.SignatureRegistry, sig ecs.Signature) []signatureRow {
	rows := make([]signatureRow, 0, len(registry.Components())+len(registry.Tags()))
	for bit := ecs.Bit(0); uint(bit) < registry.Width(); bit++ {
		name, ok := registry.BitName(bit)
		if !ok {
			continue
		}
		rows = append(rows, signatureRow{Bit: bit, Name: name, Set: sig.Has(bit)})
	}
	return rows
}
