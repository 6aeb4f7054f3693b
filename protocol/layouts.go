package protocol

// Layout describes the addressable memory of a model family: the total memory
// size and the address range of the dive profile ring buffer.
type Layout struct {
	MemSize        uint32
	RBProfileBegin uint32
	RBProfileEnd   uint32
}

var (
	iconHDLayout = Layout{
		MemSize:        0x100000,
		RBProfileBegin: 0x00A000,
		RBProfileEnd:   0x100000,
	}

	iconHDNetLayout = Layout{
		MemSize:        0x100000,
		RBProfileBegin: 0x00E000,
		RBProfileEnd:   0x100000,
	}

	matrixLayout = Layout{
		MemSize:        0x40000,
		RBProfileBegin: 0x0A000,
		RBProfileEnd:   0x3E000,
	}

	nemoWide2Layout = Layout{
		MemSize:        0x40000,
		RBProfileBegin: 0x0A000,
		RBProfileEnd:   0x40000,
	}
)

// LayoutForModel returns the memory layout and transfer packet size for a
// model code. Unknown models fall back to the Icon HD layout.
func LayoutForModel(model uint32) (Layout, int) {
	switch model {
	case Matrix:
		return matrixLayout, 256
	case PuckPro, Puck2, NemoWide2, Smart, SmartApnea, Quad:
		return nemoWide2Layout, 256
	case QuadAir, SmartAir:
		return iconHDNetLayout, 256
	case IconHDNet:
		return iconHDNetLayout, 4096
	default:
		return iconHDLayout, 4096
	}
}
