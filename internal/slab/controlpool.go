package slab

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/slabarena/internal/backing"
)

// ControlPool is the node region. One NodeSize record per slot index,
// committed while the node is live (its slot is on the free list) and
// swept back out with one page of slack as nodes die.
type ControlPool struct {
	region       backing.Region
	pageSize     int
	count        int
	nodesPerPage int

	live      []uint32        // live node count per page
	committed *roaring.Bitmap // committed page indices

	acquirer MemoryAcquirer
}

// NewControlPool reserves a region sized for count node records, with
// no pages committed.
func NewControlPool(store backing.Store, count int, acq MemoryAcquirer) (*ControlPool, error) {
	region, err := store.Reserve(count * NodeSize)
	if err != nil {
		return nil, err
	}
	pageSize := store.PageSize()
	pages := region.Size() / pageSize
	return &ControlPool{
		region:       region,
		pageSize:     pageSize,
		count:        count,
		nodesPerPage: pageSize / NodeSize,
		live:         make([]uint32, pages),
		committed:    roaring.New(),
		acquirer:     acq,
	}, nil
}

// PutNode makes node i live: commits its page if needed and writes the
// record. It returns the number of bytes newly committed.
func (p *ControlPool) PutNode(i int, next int32) (int, error) {
	page := i / p.nodesPerPage
	committed := 0
	if !p.committed.Contains(uint32(page)) {
		if err := acquire(p.acquirer, p.pageSize); err != nil {
			return 0, err
		}
		if err := p.region.Commit(page*p.pageSize, p.pageSize); err != nil {
			release(p.acquirer, p.pageSize)
			return 0, err
		}
		p.committed.Add(uint32(page))
		committed = p.pageSize
	}
	putNode(p.nodeBytes(i), next)
	p.live[page]++
	return committed, nil
}

// TakeNode reads node i's link and retires it from the live set, then
// sweeps trailing dead pages. It returns the link and the number of
// bytes decommitted by the sweep.
func (p *ControlPool) TakeNode(i int) (int32, int, error) {
	page := i / p.nodesPerPage
	next, ok := readNode(p.nodeBytes(i))
	if !ok {
		return 0, 0, fmt.Errorf("slab: node %d record is corrupt", i)
	}
	p.live[page]--
	freed, err := p.sweep()
	return next, freed, err
}

// sweep decommits trailing pages whose nodes are all dead, keeping one
// slack page above the highest live page: page p goes only if pages p
// and p-1 both hold no live nodes. That slack is what prevents
// commit/decommit flicker when a single Free/Alloc pair crosses a page
// boundary.
func (p *ControlPool) sweep() (int, error) {
	if p.committed.IsEmpty() {
		return 0, nil
	}
	keep := p.highestLivePage() + 1
	freed := 0
	for page := int(p.committed.Maximum()); page > keep; page-- {
		if !p.committed.Contains(uint32(page)) {
			continue
		}
		if p.live[page] != 0 {
			break
		}
		if err := p.region.Decommit(page*p.pageSize, p.pageSize); err != nil {
			return freed, err
		}
		p.committed.Remove(uint32(page))
		release(p.acquirer, p.pageSize)
		freed += p.pageSize
	}
	return freed, nil
}

func (p *ControlPool) highestLivePage() int {
	for page := len(p.live) - 1; page >= 0; page-- {
		if p.live[page] != 0 {
			return page
		}
	}
	return -1
}

func (p *ControlPool) nodeBytes(i int) []byte {
	off := i * NodeSize
	return p.region.Bytes()[off : off+NodeSize : off+NodeSize]
}

// LiveNodes returns the number of live nodes across all pages.
func (p *ControlPool) LiveNodes() int {
	total := 0
	for _, n := range p.live {
		total += int(n)
	}
	return total
}

// CommittedBytes reports the committed footprint of the whole region.
func (p *ControlPool) CommittedBytes() int {
	return p.region.AllocatedBytes(0, p.region.Size())
}

// Size returns the reserved region size in bytes.
func (p *ControlPool) Size() int { return p.region.Size() }

// Release unmaps the region.
func (p *ControlPool) Release() error {
	release(p.acquirer, int(p.committed.GetCardinality())*p.pageSize)
	p.committed.Clear()
	return p.region.Release()
}
