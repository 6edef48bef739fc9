package drawgen

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paavohuhtala/demogine/common"
)

func TestGPUFrustumMarshal(t *testing.T) {
	var f common.Frustum
	for i := range f.Planes {
		f.Planes[i] = common.Plane{
			Normal:   mgl32.Vec3{float32(i), 0, 1},
			Distance: float32(i) * 0.5,
		}
	}

	gf := NewGPUFrustum(f)
	buf := gf.Marshal()
	require.Len(t, buf, GPUFrustumSize)

	// Each plane packs as vec4: normal xyz then distance in w.
	for i := 0; i < 6; i++ {
		base := i * 16
		assert.Equal(t, float32(i), math.Float32frombits(binary.LittleEndian.Uint32(buf[base:])))
		assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[base+8:])))
		assert.Equal(t, float32(i)*0.5, math.Float32frombits(binary.LittleEndian.Uint32(buf[base+12:])))
	}
}

func TestGPUDrawCommandRoundTrip(t *testing.T) {
	cmd := GPUDrawCommand{
		IndexCount:    36,
		InstanceCount: 7,
		FirstIndex:    120,
		BaseVertex:    -16,
		FirstInstance: 42,
	}

	buf := cmd.Marshal()
	require.Len(t, buf, GPUDrawCommandSize)
	assert.Equal(t, cmd, UnmarshalGPUDrawCommand(buf))

	// Field order matches the indexed indirect layout the GPU consumes.
	assert.Equal(t, uint32(36), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[4:8]))
	assert.Equal(t, uint32(120), binary.LittleEndian.Uint32(buf[8:12]))
	assert.Equal(t, int32(-16), int32(binary.LittleEndian.Uint32(buf[12:16])))
	assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(buf[16:20]))
}

func TestMarshalCullParams(t *testing.T) {
	buf := marshalCullParams(31999)
	require.Len(t, buf, 16)
	assert.Equal(t, uint32(31999), binary.LittleEndian.Uint32(buf[0:4]))
}

func TestGenerateDrawsShaderSynchronizesStorage(t *testing.T) {
	// base_offsets is a storage buffer written by thread 0's prefix sum and
	// read by every thread when emitting commands, so the barrier between
	// the two phases must synchronize the storage address space;
	// workgroupBarrier alone orders only workgroup memory.
	barrier := strings.Index(generateDrawsSource, "storageBarrier()")
	require.NotEqual(t, -1, barrier, "prefix sum and command emission need a storage barrier between them")

	prefixSumWrite := strings.Index(generateDrawsSource, "base_offsets[i] = sum")
	emissionRead := strings.Index(generateDrawsSource, "base_offsets[mesh_index]")
	require.NotEqual(t, -1, prefixSumWrite)
	require.NotEqual(t, -1, emissionRead)
	assert.Greater(t, barrier, prefixSumWrite)
	assert.Less(t, barrier, emissionRead)
}
