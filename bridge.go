package bridge

// Memory represents engine-owned linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of engine memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates cells in engine-owned memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
}
