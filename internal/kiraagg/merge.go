package kiraagg

// Merge folds other into a. The result is independent of call order and of
// how chunks were partitioned (spec.md §4.9): every field is either a sum,
// a pairwise min/max, or delegates to a sketch's own commutative Merge.
// The reducer, not Merge, owns the ascending-chunk-index application order.
func (a *Agg) Merge(other *Agg) {
	a.TotalReads += other.TotalReads
	a.TotalBases += other.TotalBases
	if other.MinLen < a.MinLen {
		a.MinLen = other.MinLen
	}
	if other.MaxLen > a.MaxLen {
		a.MaxLen = other.MaxLen
	}
	a.GCBases += other.GCBases
	a.NBases += other.NBases

	for i := range a.PerSeqMeanQHist {
		a.PerSeqMeanQHist[i] += other.PerSeqMeanQHist[i]
	}
	a.ReadsMeanQLt20 += other.ReadsMeanQLt20
	for i := range a.PerSeqGCHist {
		a.PerSeqGCHist[i] += other.PerSeqGCHist[i]
	}

	if a.Mode != ModeShort {
		a.mergeLong(other)
		return
	}

	a.PerPosQual = ensurePosQual(a.PerPosQual, len(other.PerPosQual))
	for i := range other.PerPosQual {
		for q := range other.PerPosQual[i] {
			a.PerPosQual[i][q] += other.PerPosQual[i][q]
		}
	}

	a.PerPosBase = ensurePosBase(a.PerPosBase, len(other.PerPosBase))
	for i := range other.PerPosBase {
		for b := range other.PerPosBase[i] {
			a.PerPosBase[i][b] += other.PerPosBase[i][b]
		}
	}

	a.PerPosAdapter = ensurePosAdapter(a.PerPosAdapter, len(other.PerPosAdapter))
	for i := range other.PerPosAdapter {
		for p := range other.PerPosAdapter[i] {
			a.PerPosAdapter[i][p] += other.PerPosAdapter[i][p]
		}
	}

	for length, count := range other.LengthHist {
		a.LengthHist[length] += count
	}

	a.DupSS.Merge(other.DupSS)
	a.OverrepSS.Merge(other.OverrepSS)
	a.Kmer.Merge(other.Kmer)
}

func (a *Agg) mergeLong(other *Agg) {
	for i := range a.LongLenBins {
		a.LongLenBins[i] += other.LongLenBins[i]
	}
	for i := range a.PerSeqNHist {
		a.PerSeqNHist[i] += other.PerSeqNHist[i]
	}
	a.ReadsNGt20 += other.ReadsNGt20
	a.ReadsNGt10 += other.ReadsNGt10
	for i := range a.AdapterReadsAny {
		a.AdapterReadsAny[i] += other.AdapterReadsAny[i]
	}
}
