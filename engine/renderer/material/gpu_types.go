package material

import (
	"encoding/binary"
	"errors"
	"math"
)

// MaxMaterials is the fixed capacity of the material table storage buffer.
const MaxMaterials = 64

// GPUMaterialSize is the byte size of one packed GPUMaterial record.
const GPUMaterialSize = 32

// ErrTooManyMaterials is returned when registering a material would exceed
// the table capacity.
var ErrTooManyMaterials = errors.New("material: table capacity exceeded")

// GPUMaterial is the GPU-aligned material table entry.
// Size: 32 bytes (std430 aligned).
type GPUMaterial struct {
	BaseColor [4]float32 // offset  0: albedo RGBA (16 bytes)
	Metallic  float32    // offset 16: metallic factor (4 bytes)
	Roughness float32    // offset 20: roughness factor (4 bytes)
	// offset 24: 8 bytes padding to a 16-byte multiple.
}

func newGPUMaterial(m Material) GPUMaterial {
	return GPUMaterial{
		BaseColor: m.BaseColor(),
		Metallic:  m.Metallic(),
		Roughness: m.Roughness(),
	}
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size in bytes
func (g *GPUMaterial) Size() int {
	return GPUMaterialSize
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, GPUMaterialSize)
	for i, c := range g.BaseColor {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(c))
	}
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Metallic))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(g.Roughness))
	return buf
}
