// SPDX-License-Identifier: EPL-2.0

package shader

import "fmt"

// Bind groups used by every program.
const (
	// GroupDevice holds the output buffer and the device-info uniform.
	GroupDevice uint32 = 0
	// GroupAssets holds one storage/uniform pair per bound asset.
	GroupAssets uint32 = 1
)

// Slots in GroupDevice.
const (
	SlotOutput     uint32 = 0
	SlotDeviceInfo uint32 = 1
)

// Kind is the resource type behind a binding.
type Kind uint8

const (
	Storage Kind = iota
	Uniform
)

func (k Kind) String() string {
	switch k {
	case Storage:
		return "storage"
	case Uniform:
		return "uniform"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Binding is one resource slot within a bind group. Asset is the index of the
// bound asset, or -1 for device resources.
type Binding struct {
	Slot  uint32
	Kind  Kind
	Asset int
}

type Group struct {
	Index    uint32
	Bindings []Binding
}

// Layout lists every bind group the program declares, in group order.
type Layout struct {
	Groups []Group
}

// AssetStorageSlot is the binding of the texel buffer of asset i.
func AssetStorageSlot(i int) uint32 { return uint32(2 * i) }

// AssetInfoSlot is the binding of the (sample_rate, channels) uniform of asset i.
func AssetInfoSlot(i int) uint32 { return uint32(2*i + 1) }

func newLayout(assets int) Layout {
	device := Group{
		Index: GroupDevice,
		Bindings: []Binding{
			{Slot: SlotOutput, Kind: Storage, Asset: -1},
			{Slot: SlotDeviceInfo, Kind: Uniform, Asset: -1},
		},
	}

	bound := Group{Index: GroupAssets, Bindings: make([]Binding, 0, 2*assets)}
	for i := range assets {
		bound.Bindings = append(bound.Bindings,
			Binding{Slot: AssetStorageSlot(i), Kind: Storage, Asset: i},
			Binding{Slot: AssetInfoSlot(i), Kind: Uniform, Asset: i},
		)
	}

	return Layout{Groups: []Group{device, bound}}
}
