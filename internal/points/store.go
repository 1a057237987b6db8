package points

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// ErrInvalidUUID is matched by InvalidUUIDError.
var ErrInvalidUUID = errors.New("points: invalid surface uuid")

// InvalidUUIDError reports a point whose owning surface is missing.
type InvalidUUIDError struct {
	UUID int64
}

func (e *InvalidUUIDError) Error() string {
	return fmt.Sprintf("points: surface %d is not in the current surface set", e.UUID)
}

// Is makes errors.Is(err, ErrInvalidUUID) true.
func (e *InvalidUUIDError) Is(target error) bool { return target == ErrInvalidUUID }

// Surfaces resolves surface uuids to world matrices.
type Surfaces interface {
	Has(uuid int64) bool
	Matrix(uuid int64) (mgl64.Mat4, bool)
}

// Store wraps a Target with the active mask and space conversions.
// Masked indices address only active rows, in row order.
type Store struct {
	T *Target

	surfaces Surfaces
	active   *bitset.BitSet
	masked   []int // masked index -> row
	inverse  map[int64]mgl64.Mat4
}

// NewStore derives the orphan and active masks of t against surfaces.
func NewStore(t *Target, surfaces Surfaces) *Store {
	s := &Store{T: t}
	s.Refresh(surfaces)
	return s
}

// Refresh recomputes the orphan mask after the surface set or table changed.
func (s *Store) Refresh(surfaces Surfaces) {
	s.surfaces = surfaces
	s.inverse = make(map[int64]mgl64.Mat4)
	s.Invalidate()
}

// Invalidate recomputes masks from the current table without changing surfaces.
func (s *Store) Invalidate() {
	n := s.T.Len()
	s.active = bitset.New(uint(n))
	s.masked = s.masked[:0]
	orphans := 0
	for i := 0; i < n; i++ {
		orphan := s.surfaces == nil || !s.surfaces.Has(s.T.SurfaceUUID[i])
		s.T.OrphanMask[i] = orphan
		if orphan {
			orphans++
			continue
		}
		s.active.Set(uint(i))
		s.masked = append(s.masked, i)
	}
	if orphans > 0 {
		logger.Named("points").Debug("orphan points masked", zap.Int("orphans", orphans), zap.Int("rows", n))
	}
}

// Len returns the number of rows including orphans.
func (s *Store) Len() int { return s.T.Len() }

// ActiveLen returns the number of non-orphan rows.
func (s *Store) ActiveLen() int { return len(s.masked) }

// Active returns a copy of the active mask over rows.
func (s *Store) Active() *bitset.BitSet { return s.active.Clone() }

// IsActive reports whether row i is visible.
func (s *Store) IsActive(row int) bool { return s.active.Test(uint(row)) }

// Rows returns the row of every active point, in masked order.
func (s *Store) Rows() []int { return append([]int(nil), s.masked...) }

// ToRow translates a masked index to a row.
func (s *Store) ToRow(masked int) int { return s.masked[masked] }

// ToRows translates masked indices to rows.
func (s *Store) ToRows(masked []int) []int {
	out := make([]int, len(masked))
	for i, m := range masked {
		out[i] = s.masked[m]
	}
	return out
}

// ToMasked translates a row to its masked index; false for orphans.
func (s *Store) ToMasked(row int) (int, bool) {
	if !s.IsActive(row) {
		return 0, false
	}
	i := sort.SearchInts(s.masked, row)
	return i, true
}

// Masked returns the active entries of a column.
func Masked[T any](s *Store, column []T) []T {
	out := make([]T, len(s.masked))
	for i, r := range s.masked {
		out[i] = column[r]
	}
	return out
}

// SetMasked writes values at masked indices of a column.
func SetMasked[T any](s *Store, column []T, masked []int, values []T) {
	for i, m := range masked {
		column[s.masked[m]] = values[i]
	}
}

// Matrix returns the world matrix of a surface.
func (s *Store) Matrix(uuid int64) (mgl64.Mat4, error) {
	if s.surfaces == nil {
		return mgl64.Ident4(), &InvalidUUIDError{UUID: uuid}
	}
	m, ok := s.surfaces.Matrix(uuid)
	if !ok {
		return mgl64.Ident4(), &InvalidUUIDError{UUID: uuid}
	}
	return m, nil
}

// InverseMatrix returns the inverse world matrix of a surface, cached per uuid.
func (s *Store) InverseMatrix(uuid int64) (mgl64.Mat4, error) {
	if m, ok := s.inverse[uuid]; ok {
		return m, nil
	}
	m, err := s.Matrix(uuid)
	if err != nil {
		return m, err
	}
	inv := m.Inv()
	s.inverse[uuid] = inv
	return inv, nil
}

// partition groups positions in rows by their surface uuid.
func partition(uuids []int64) map[int64][]int {
	groups := make(map[int64][]int)
	for i, u := range uuids {
		groups[u] = append(groups[u], i)
	}
	return groups
}

func (s *Store) convert(values []mgl64.Vec3, uuids []int64, inverse bool, fn func(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3) ([]mgl64.Vec3, error) {
	out := make([]mgl64.Vec3, len(values))
	for uuid, idx := range partition(uuids) {
		var m mgl64.Mat4
		var err error
		if inverse {
			m, err = s.InverseMatrix(uuid)
		} else {
			m, err = s.Matrix(uuid)
		}
		if err != nil {
			return nil, err
		}
		for _, i := range idx {
			out[i] = fn(m, values[i])
		}
	}
	return out, nil
}

// PointsToWorld converts local positions to world using each point's surface.
func (s *Store) PointsToWorld(local []mgl64.Vec3, uuids []int64) ([]mgl64.Vec3, error) {
	return s.convert(local, uuids, false, math.TransformPoint)
}

// PointsToLocal converts world positions to the local space of each surface.
func (s *Store) PointsToLocal(world []mgl64.Vec3, uuids []int64) ([]mgl64.Vec3, error) {
	return s.convert(world, uuids, true, math.TransformPoint)
}

// NormalsToWorld converts local normals to world.
func (s *Store) NormalsToWorld(local []mgl64.Vec3, uuids []int64) ([]mgl64.Vec3, error) {
	return s.convert(local, uuids, false, math.TransformNormal)
}

// NormalsToLocal converts world normals to local.
func (s *Store) NormalsToLocal(world []mgl64.Vec3, uuids []int64) ([]mgl64.Vec3, error) {
	return s.convert(world, uuids, true, math.TransformNormal)
}

// DirectionsToWorld converts local directions to world without normalizing.
func (s *Store) DirectionsToWorld(local []mgl64.Vec3, uuids []int64) ([]mgl64.Vec3, error) {
	return s.convert(local, uuids, false, math.TransformDirection)
}

// DirectionsToLocal converts world directions to local without normalizing.
func (s *Store) DirectionsToLocal(world []mgl64.Vec3, uuids []int64) ([]mgl64.Vec3, error) {
	return s.convert(world, uuids, true, math.TransformDirection)
}

// LengthToLocal converts a world length measured along axis to the local
// space of a surface.
func (s *Store) LengthToLocal(length float64, axis mgl64.Vec3, uuid int64) (float64, error) {
	m, err := s.Matrix(uuid)
	if err != nil {
		return 0, err
	}
	sc := math.AxisScale(m, axis)
	if sc < math.Epsilon {
		return length, nil
	}
	return length / sc, nil
}

// LengthToWorld converts a local length along axis to world.
func (s *Store) LengthToWorld(length float64, axis mgl64.Vec3, uuid int64) (float64, error) {
	m, err := s.Matrix(uuid)
	if err != nil {
		return 0, err
	}
	return length * math.AxisScale(m, axis), nil
}

// rowsVec reads a vec3 column at rows.
func rowsVec(column []mgl32.Vec3, rows []int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(rows))
	for i, r := range rows {
		out[i] = math.Vec3To64(column[r])
	}
	return out
}

// UUIDs returns the surface uuids at rows.
func (s *Store) UUIDs(rows []int) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = s.T.SurfaceUUID[r]
	}
	return out
}

// Vec returns a vec3 column at rows widened to float64.
func (s *Store) Vec(column []mgl32.Vec3, rows []int) []mgl64.Vec3 {
	return rowsVec(column, rows)
}

// SetVec narrows and writes values to a vec3 column at rows.
func (s *Store) SetVec(column []mgl32.Vec3, rows []int, values []mgl64.Vec3) {
	for i, r := range rows {
		column[r] = math.Vec3To32(values[i])
	}
}

// WorldCo returns the world positions of rows.
func (s *Store) WorldCo(rows []int) ([]mgl64.Vec3, error) {
	return s.PointsToWorld(rowsVec(s.T.Co, rows), s.UUIDs(rows))
}

// WorldNormal returns the world normals of rows.
func (s *Store) WorldNormal(rows []int) ([]mgl64.Vec3, error) {
	return s.NormalsToWorld(rowsVec(s.T.Normal, rows), s.UUIDs(rows))
}

// SetWorldCo converts world positions to local and stores them at rows.
func (s *Store) SetWorldCo(rows []int, world []mgl64.Vec3) error {
	local, err := s.PointsToLocal(world, s.UUIDs(rows))
	if err != nil {
		return err
	}
	s.SetVec(s.T.Co, rows, local)
	return nil
}

// SetWorldNormal converts world normals to local and stores them at rows.
func (s *Store) SetWorldNormal(rows []int, world []mgl64.Vec3) error {
	local, err := s.NormalsToLocal(world, s.UUIDs(rows))
	if err != nil {
		return err
	}
	s.SetVec(s.T.Normal, rows, local)
	return nil
}

// MoveToSurface reassigns rows to a new surface, keeping their world
// position and normal.
func (s *Store) MoveToSurface(rows []int, uuid int64) error {
	world, err := s.WorldCo(rows)
	if err != nil {
		return err
	}
	normals, err := s.WorldNormal(rows)
	if err != nil {
		return err
	}
	if _, err := s.Matrix(uuid); err != nil {
		return err
	}
	for _, r := range rows {
		s.T.SurfaceUUID[r] = uuid
	}
	if err := s.SetWorldCo(rows, world); err != nil {
		return err
	}
	return s.SetWorldNormal(rows, normals)
}

// Append adds rows with the given ids and returns their row indices.
// len(ids) must equal len(rows).
func (s *Store) Append(rows []Row, ids []int32) []int {
	if len(rows) == 0 {
		return nil
	}
	if len(ids) != len(rows) {
		panic(fmt.Sprintf("points: %d rows with %d ids", len(rows), len(ids)))
	}
	first := s.T.Grow(len(rows))
	out := make([]int, len(rows))
	for i, r := range rows {
		row := first + i
		s.T.SetRow(row, r)
		s.T.ID[row] = ids[i]
		s.T.Scale[row] = mgl32.Vec3{1, 1, 1}
		out[i] = row
	}
	s.Invalidate()
	return out
}

// Remove dissolves every row whose bit is set and returns how many went away.
func (s *Store) Remove(del *bitset.BitSet) int {
	n := int(del.Count())
	if n == 0 {
		return 0
	}
	s.T.Delete(del)
	s.Invalidate()
	return n
}

// RemoveRows dissolves the given rows.
func (s *Store) RemoveRows(rows []int) int {
	del := bitset.New(uint(s.Len()))
	for _, r := range rows {
		del.Set(uint(r))
	}
	return s.Remove(del)
}
