package sparse

import "github.com/2win9s/Simple-Regex/internal/bitset"

// HybridSet pairs a SparseSet with a dense bitvector shadow of the same
// membership. The sparse side gives O(1) insert/contains/iteration; the
// bitvector gives O(capacity/64) equality and a total order, which is
// what the lazy DFA cache needs to use a set of NFA op indices as a map
// key. Both views are kept in lockstep by every mutating method here;
// callers must not reach into the embedded SparseSet directly once a
// HybridSet is in use, or the invariant that the two views agree breaks.
type HybridSet struct {
	Sparse *SparseSet
	dense  *bitset.Set
}

// NewHybridSet allocates a HybridSet capable of holding values in
// [0, capacity).
func NewHybridSet(capacity uint32) *HybridSet {
	return &HybridSet{
		Sparse: NewSparseSet(capacity),
		dense:  bitset.New(capacity),
	}
}

// Insert adds value to the set. No-op if already present.
func (h *HybridSet) Insert(value uint32) {
	if h.Sparse.Contains(value) {
		return
	}
	h.Sparse.Insert(value)
	h.dense.Set(value)
}

// Contains reports set membership in O(1) via the sparse side.
func (h *HybridSet) Contains(value uint32) bool {
	return h.Sparse.Contains(value)
}

// Remove drops value from the set. No-op if absent.
func (h *HybridSet) Remove(value uint32) {
	if !h.Sparse.Contains(value) {
		return
	}
	h.Sparse.Remove(value)
	h.dense.Reset(value)
}

// Clear empties the set.
func (h *HybridSet) Clear() {
	h.Sparse.Clear()
	h.dense.Clear()
}

// Size returns the number of elements.
func (h *HybridSet) Size() int { return h.Sparse.Size() }

// Values returns the dense-order slice of members; valid until the next
// mutation, exactly like SparseSet.Values.
func (h *HybridSet) Values() []uint32 { return h.Sparse.Values() }

// Equal reports whether two hybrid sets hold identical membership, via
// the bitvector shadow rather than a sort-and-compare of the sparse
// side.
func (h *HybridSet) Equal(other *HybridSet) bool {
	return h.dense.Equal(other.dense)
}

// Compare gives a total order over hybrid sets by comparing their dense
// bitvector shadows, suitable for use as an ordered map key (spec.md
// §3's "Hybrid set" invariant: "the bitvector gives... a total order,
// enabling use as a map key").
func (h *HybridSet) Compare(other *HybridSet) int {
	return h.dense.Compare(other.dense)
}

// Key returns an opaque, comparable value derived from the dense
// bitvector shadow, usable directly as a Go map key. Two HybridSets with
// identical membership always produce equal keys.
func (h *HybridSet) Key() string {
	return string(h.dense.Bytes())
}
