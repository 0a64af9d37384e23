package slab

// FreeList is an index-linked LIFO stack of free slot indices,
// threaded through the ControlPool's node records.
type FreeList struct {
	ctl    *ControlPool
	head   int32
	length int
}

// NewFreeList creates an empty free list over ctl.
func NewFreeList(ctl *ControlPool) *FreeList {
	return &FreeList{ctl: ctl, head: -1}
}

// Push makes slot i free. It returns the number of control bytes newly
// committed for the node record.
func (f *FreeList) Push(i int) (int, error) {
	committed, err := f.ctl.PutNode(i, f.head)
	if err != nil {
		return 0, err
	}
	f.head = int32(i)
	f.length++
	return committed, nil
}

// Pop removes and returns the most recently freed slot index. ok is
// false when the list is empty. decommitted reports control bytes
// released by the hysteresis sweep that runs as the node dies.
func (f *FreeList) Pop() (i int, decommitted int, ok bool, err error) {
	if f.head < 0 {
		return 0, 0, false, nil
	}
	i = int(f.head)
	next, freed, err := f.ctl.TakeNode(i)
	if err != nil {
		return 0, 0, false, err
	}
	f.head = next
	f.length--
	return i, freed, true, nil
}

// Len returns the number of free slots on the list.
func (f *FreeList) Len() int { return f.length }
