package board

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "goban_rules/internal/errors"
)

func newBoard(t *testing.T, size int) *Board {
	t.Helper()
	b, err := New(size, nil)
	require.NoError(t, err)
	return b
}

func vtx(t *testing.T, b *Board, s string) Vertex {
	t.Helper()
	v, err := ParseVertex(s, b.Size())
	require.NoError(t, err)
	return v
}

func place(t *testing.T, b *Board, c Color, s string) []string {
	t.Helper()
	captured, err := b.PlaceStone(vtx(t, b, s), c)
	require.NoError(t, err)
	require.NoError(t, b.Validate())
	return FormatVertices(captured)
}

// partition describes the regions without their ids.
func partition(b *Board) []string {
	var out []string
	for _, r := range b.Regions() {
		out = append(out, r.Color().String()+":"+strings.Join(FormatVertices(r.Members()), ","))
	}
	sort.Strings(out)
	return out
}

// layout describes the regions with their ids.
func layout(b *Board) map[int]string {
	out := make(map[int]string)
	for _, r := range b.Regions() {
		out[r.ID()] = r.Color().String() + ":" + strings.Join(FormatVertices(r.Members()), ",")
	}
	return out
}

func TestNewBoardIsOneEmptyRegion(t *testing.T) {
	b := newBoard(t, 9)
	require.NoError(t, b.Validate())

	regions := b.Regions()
	require.Len(t, regions, 1)
	assert.Equal(t, Empty, regions[0].Color())
	assert.Equal(t, 81, b.RegionSize(regions[0]))
	assert.Equal(t, uint64(0), b.Fingerprint())
}

func TestNewRejectsBadSizes(t *testing.T) {
	for _, size := range []int{-1, 0, 1, MaxSize + 1} {
		_, err := New(size, nil)
		assert.ErrorIs(t, err, errs.ErrInvalidArgument, "size %d", size)
	}
	_, err := New(9, NewZobrist(13, 1))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestNeighborsAtEdges(t *testing.T) {
	b := newBoard(t, 9)
	tests := []struct {
		vertex string
		want   int
	}{
		{"A1", 2},
		{"J9", 2},
		{"A5", 3},
		{"E1", 3},
		{"E5", 4},
	}
	for _, tt := range tests {
		ns, err := b.Neighbors(vtx(t, b, tt.vertex))
		require.NoError(t, err)
		assert.Len(t, ns, tt.want, tt.vertex)
	}

	_, err := b.Neighbors(Vertex{X: 9, Y: 0})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestPlaceStoneOnOccupiedPointFails(t *testing.T) {
	b := newBoard(t, 9)
	place(t, b, Black, "A1")
	before := layout(b)
	hash := b.Fingerprint()

	_, err := b.PlaceStone(vtx(t, b, "A1"), White)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, before, layout(b))
	assert.Equal(t, hash, b.Fingerprint())
	assert.Equal(t, 1, b.Moves())
}

func TestPlaceStoneRejectsEmptyColor(t *testing.T) {
	b := newBoard(t, 9)
	_, err := b.PlaceStone(vtx(t, b, "E5"), Empty)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestRemoveStoneFromEmptyPointFails(t *testing.T) {
	b := newBoard(t, 9)
	err := b.RemoveStone(vtx(t, b, "E5"), nil)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestWallSplitsEmptyRegion(t *testing.T) {
	b := newBoard(t, 5)
	for _, s := range []string{"C1", "C2", "C3", "C4"} {
		place(t, b, Black, s)
		assert.Len(t, b.Regions(), 2)
	}
	place(t, b, Black, "C5")

	assert.Equal(t, []string{
		"black:C1,C2,C3,C4,C5",
		"empty:A1,B1,A2,B2,A3,B3,A4,B4,A5,B5",
		"empty:D1,E1,D2,E2,D3,E3,D4,E4,D5,E5",
	}, partition(b))
}

func TestEnclosedPointBecomesOwnRegion(t *testing.T) {
	b := newBoard(t, 5)
	place(t, b, Black, "A2")
	place(t, b, Black, "B1")

	r, err := b.RegionOf(vtx(t, b, "A1"))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Size())
	assert.Equal(t, Empty, r.Color())
	assert.Len(t, b.Regions(), 4)
}

func TestSingleStoneCapture(t *testing.T) {
	b := newBoard(t, 9)
	place(t, b, White, "A1")
	place(t, b, Black, "A2")

	captured := place(t, b, Black, "B1")
	assert.Equal(t, []string{"A1"}, captured)
	assert.Equal(t, Empty, b.ColorAt(vtx(t, b, "A1")))

	r, err := b.RegionOf(vtx(t, b, "A1"))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Size(), "A1 is enclosed by A2 and B1")
}

func TestGroupCaptureRemovesWholeRegion(t *testing.T) {
	b := newBoard(t, 9)
	for _, s := range []string{"A1", "B1", "C1"} {
		place(t, b, White, s)
	}
	for _, s := range []string{"A2", "B2", "C2"} {
		place(t, b, Black, s)
	}

	group, err := b.RegionOf(vtx(t, b, "B1"))
	require.NoError(t, err)
	assert.Equal(t, 3, group.Size())
	assert.Equal(t, 1, b.LibertyCount(group))

	captured := place(t, b, Black, "D1")
	assert.Equal(t, []string{"A1", "B1", "C1"}, captured)

	empty, err := b.RegionOf(vtx(t, b, "A1"))
	require.NoError(t, err)
	assert.Equal(t, []Vertex{{0, 0}, {1, 0}, {2, 0}}, empty.Members())
}

func TestLibertyCount(t *testing.T) {
	b := newBoard(t, 9)
	place(t, b, Black, "E5")
	r, _ := b.RegionOf(vtx(t, b, "E5"))
	assert.Equal(t, 4, b.LibertyCount(r))

	place(t, b, Black, "E6")
	r, _ = b.RegionOf(vtx(t, b, "E5"))
	assert.Equal(t, 6, b.LibertyCount(r))

	place(t, b, White, "E4")
	place(t, b, White, "D5")
	r, _ = b.RegionOf(vtx(t, b, "E6"))
	assert.Equal(t, 4, b.LibertyCount(r))

	corner := newBoard(t, 9)
	place(t, corner, White, "A1")
	r, _ = corner.RegionOf(vtx(t, corner, "A1"))
	assert.Equal(t, 2, corner.LibertyCount(r))
	whole, _ := corner.RegionOf(vtx(t, corner, "E5"))
	assert.Equal(t, 0, corner.LibertyCount(whole))
}

func TestConnectingStoneMergesAndUndoSplits(t *testing.T) {
	b := newBoard(t, 9)
	for _, s := range []string{"E4", "D5", "F5", "E6"} {
		place(t, b, Black, s)
	}
	before := partition(b)
	require.Len(t, b.Regions(), 6)

	place(t, b, Black, "E5")
	r, err := b.RegionOf(vtx(t, b, "E5"))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Size())
	assert.Len(t, b.Regions(), 2)

	require.NoError(t, b.RemoveStone(vtx(t, b, "E5"), nil))
	require.NoError(t, b.Validate())
	assert.Equal(t, before, partition(b))
	for _, s := range []string{"E4", "D5", "F5", "E6"} {
		r, _ := b.RegionOf(vtx(t, b, s))
		assert.Equal(t, 1, r.Size(), s)
	}
}

func TestRemoveStoneRestoresCaptures(t *testing.T) {
	b := newBoard(t, 9)
	for _, s := range []string{"A1", "B1", "C1"} {
		place(t, b, White, s)
	}
	for _, s := range []string{"A2", "B2", "C2", "E1"} {
		place(t, b, Black, s)
	}
	before := partition(b)
	hash := b.Fingerprint()

	v := vtx(t, b, "D1")
	captured, err := b.PlaceStone(v, Black)
	require.NoError(t, err)
	require.Len(t, captured, 3)

	require.NoError(t, b.RemoveStone(v, captured))
	require.NoError(t, b.Validate())
	assert.Equal(t, before, partition(b))
	assert.Equal(t, hash, b.Fingerprint())
	assert.Equal(t, White, b.ColorAt(vtx(t, b, "B1")))
}

func TestRemoveStoneRejectsOccupiedRestorePoint(t *testing.T) {
	b := newBoard(t, 9)
	place(t, b, Black, "E5")
	place(t, b, White, "A1")
	before := layout(b)

	err := b.RemoveStone(vtx(t, b, "E5"), []Vertex{vtx(t, b, "A1")})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, before, layout(b))
}

func TestRecolorForSetup(t *testing.T) {
	b := newBoard(t, 9)
	black := []Vertex{vtx(t, b, "C3"), vtx(t, b, "C4"), vtx(t, b, "G7")}
	require.NoError(t, b.Recolor(black, Black))
	require.NoError(t, b.Validate())

	r, _ := b.RegionOf(vtx(t, b, "C3"))
	assert.Equal(t, 2, r.Size())
	assert.Equal(t, 0, b.Moves(), "setup is not a move")

	require.NoError(t, b.Recolor(black, Empty))
	require.NoError(t, b.Validate())
	assert.Len(t, b.Regions(), 1)
	assert.Equal(t, uint64(0), b.Fingerprint())
}

func TestRecolorWithoutCapture(t *testing.T) {
	b := newBoard(t, 9)
	place(t, b, White, "A1")
	require.NoError(t, b.Recolor([]Vertex{vtx(t, b, "A2"), vtx(t, b, "B1")}, Black))
	require.NoError(t, b.Validate())
	assert.Equal(t, White, b.ColorAt(vtx(t, b, "A1")), "setup never captures")
}

func TestSpeculateRollsBackExactly(t *testing.T) {
	b := newBoard(t, 9)
	for _, s := range []string{"A1", "B1", "C1"} {
		place(t, b, White, s)
	}
	for _, s := range []string{"A2", "B2", "C2"} {
		place(t, b, Black, s)
	}
	before := layout(b)
	hash, moves := b.Fingerprint(), b.Moves()

	err := b.Speculate(func() error {
		captured, err := b.PlaceStone(vtx(t, b, "D1"), Black)
		require.Len(t, captured, 3)
		require.NoError(t, b.Validate())
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, before, layout(b))
	assert.Equal(t, hash, b.Fingerprint())
	assert.Equal(t, moves, b.Moves())
	assert.False(t, b.Speculating())
	require.NoError(t, b.Validate())

	captured := place(t, b, Black, "D1")
	assert.Len(t, captured, 3, "ids handed out during the speculation are reusable")
}

func TestSpeculateNestsAndSurvivesPanics(t *testing.T) {
	b := newBoard(t, 9)
	place(t, b, Black, "E5")
	before := layout(b)

	assert.Panics(t, func() {
		_ = b.Speculate(func() error {
			place(t, b, White, "E6")
			inner := layout(b)
			_ = b.Speculate(func() error {
				place(t, b, White, "E4")
				return nil
			})
			assert.Equal(t, inner, layout(b))
			panic("boom")
		})
	})
	assert.Equal(t, before, layout(b))
	assert.False(t, b.Speculating())
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := newBoard(t, 9)
	place(t, a, Black, "C3")
	place(t, a, White, "D4")
	place(t, a, Black, "E5")

	b := newBoard(t, 9)
	place(t, b, Black, "E5")
	place(t, b, Black, "C3")
	place(t, b, White, "D4")

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, uint64(0), a.Fingerprint())
}

func TestRowsDrawTopRowFirst(t *testing.T) {
	b := newBoard(t, 3)
	place(t, b, Black, "A1")
	place(t, b, White, "C3")
	assert.Equal(t, []string{"..O", "...", "X.."}, b.Rows())
	assert.Equal(t, "..O\n...\nX..\n", b.String())
}

func TestRandomPlayUndoRoundTrip(t *testing.T) {
	type step struct {
		v        Vertex
		captured []Vertex
		before   []string
		hash     uint64
	}

	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 20; game++ {
		b := newBoard(t, 7)
		var steps []step
		color := Black
		for n := 0; n < 60; n++ {
			v := Vertex{X: rng.Intn(7), Y: rng.Intn(7)}
			if b.ColorAt(v) != Empty {
				continue
			}
			s := step{v: v, before: partition(b), hash: b.Fingerprint()}
			captured, err := b.PlaceStone(v, color)
			require.NoError(t, err)
			require.NoError(t, b.Validate())
			s.captured = captured
			steps = append(steps, s)
			color = color.Opponent()
		}
		for i := len(steps) - 1; i >= 0; i-- {
			s := steps[i]
			require.NoError(t, b.RemoveStone(s.v, s.captured))
			require.NoError(t, b.Validate())
			require.Equal(t, s.before, partition(b))
			require.Equal(t, s.hash, b.Fingerprint())
		}
		assert.Len(t, b.Regions(), 1)
		assert.Equal(t, 0, b.Moves())
	}
}
