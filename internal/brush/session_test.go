package brush

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Offsets []mgl64.Vec3
	Normal  mgl64.Vec3
}

func TestCacheCopiesByValue(t *testing.T) {
	s := NewToolSession()
	in := sample{Offsets: []mgl64.Vec3{{1, 0, 0}}, Normal: mgl64.Vec3{0, 0, 1}}
	require.NoError(t, SaveCache(s, "clone", in))

	in.Offsets[0] = mgl64.Vec3{9, 9, 9}
	out, ok, err := LoadCache[sample](s, "clone")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, out.Offsets[0])

	out.Offsets[0] = mgl64.Vec3{7, 7, 7}
	again, _, _ := LoadCache[sample](s, "clone")
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, again.Offsets[0])

	s.ClearCache("clone")
	_, ok, err = LoadCache[sample](s, "clone")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheTypeMismatch(t *testing.T) {
	s := NewToolSession()
	require.NoError(t, SaveCache(s, "clone", 3))
	_, ok, err := LoadCache[sample](s, "clone")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestScopeRunsOnce(t *testing.T) {
	n := 0
	sc := NewScope(func() { n++ })
	sc.Close()
	sc.Close()
	assert.Equal(t, 1, n)

	var nilScope *Scope
	assert.NotPanics(t, nilScope.Close)
}

func TestToolboxReset(t *testing.T) {
	a := &Operator{base: &Base{Spec: Info{ID: "a"}}}
	b := &Operator{base: &Base{Spec: Info{ID: "b"}}}
	var tb Toolbox
	tb.Set(a)
	assert.True(t, tb.Is(a))
	assert.Equal(t, "a", tb.ToolID)

	tb.Reset(b)
	assert.True(t, tb.Is(a), "resetting another operator keeps the active one")
	tb.Reset(a)
	assert.False(t, tb.Is(a))
	assert.False(t, tb.Is(nil))
}

type stubBrush struct{ Base }

func stub(id string, c Category) Factory {
	return func() Brush {
		b := &stubBrush{}
		b.Spec = Info{ID: id, Category: c}
		return b
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stub("eraser", CategoryErase))
	r.Register(stub("move", CategoryModify))
	r.Register(stub("spray", CategoryCreate))
	r.Register(stub("dot", CategoryCreate))

	assert.Equal(t, []string{"dot", "eraser", "move", "spray"}, r.IDs())
	var order []string
	for _, info := range r.Infos() {
		order = append(order, info.ID)
	}
	assert.Equal(t, []string{"dot", "spray", "move", "eraser"}, order)

	b1, err := r.New("dot")
	require.NoError(t, err)
	b2, _ := r.New("dot")
	assert.NotSame(t, b1, b2, "every activation gets a fresh tool")

	_, err = r.New("nope")
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.Panics(t, func() { r.Register(stub("dot", CategoryCreate)) })
}

func TestDispatchModes(t *testing.T) {
	assert.True(t, DispatchTimer.usesTimer())
	assert.False(t, DispatchTimer.usesMove())
	assert.True(t, DispatchBoth.usesTimer())
	assert.True(t, DispatchBoth.usesMove())
	assert.False(t, DispatchMouseMove.usesTimer())
	assert.Equal(t, "BOTH", DispatchBoth.String())
}
