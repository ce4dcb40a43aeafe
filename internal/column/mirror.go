package column

// PartMirrorTable is the P-way partitioned mirror of PartTable, keyed by
// partkey mod P. Row order within a partition carries no meaning.
type PartMirrorTable struct {
	Partitions [P]PartTable
}

// BuildPartMirror scans flat once and places each row into partition
// PartKey[i] mod P, preserving every column's per-row values. Runs
// serially at startup, before any query; partition-internal row order
// carries no meaning.
func BuildPartMirror(flat *PartTable) PartMirrorTable {
	var counts [P]int
	for _, k := range flat.PartKey {
		counts[k%P]++
	}

	var mirror PartMirrorTable
	for p := 0; p < P; p++ {
		n := counts[p]
		mirror.Partitions[p] = PartTable{
			PartKey:  make([]uint32, 0, n),
			Mfgr:     make([]uint8, 0, n),
			Category: make([]uint8, 0, n),
			Brand1:   make([]uint16, 0, n),
		}
	}

	for i, k := range flat.PartKey {
		p := &mirror.Partitions[k%P]
		p.PartKey = append(p.PartKey, k)
		p.Mfgr = append(p.Mfgr, flat.Mfgr[i])
		p.Category = append(p.Category, flat.Category[i])
		p.Brand1 = append(p.Brand1, flat.Brand1[i])
	}
	return mirror
}

// CustMirrorTable is the P-way partitioned mirror of CustomerTable, keyed
// by custkey mod P.
type CustMirrorTable struct {
	Partitions [P]CustomerTable
}

// BuildCustMirror is BuildPartMirror's counterpart for the customer
// dimension.
func BuildCustMirror(flat *CustomerTable) CustMirrorTable {
	var counts [P]int
	for _, k := range flat.CustKey {
		counts[k%P]++
	}

	var mirror CustMirrorTable
	for p := 0; p < P; p++ {
		n := counts[p]
		mirror.Partitions[p] = CustomerTable{
			CustKey: make([]uint32, 0, n),
			City:    make([]uint8, 0, n),
			Nation:  make([]uint8, 0, n),
			Region:  make([]uint8, 0, n),
		}
	}

	for i, k := range flat.CustKey {
		p := &mirror.Partitions[k%P]
		p.CustKey = append(p.CustKey, k)
		p.City = append(p.City, flat.City[i])
		p.Nation = append(p.Nation, flat.Nation[i])
		p.Region = append(p.Region, flat.Region[i])
	}
	return mirror
}
