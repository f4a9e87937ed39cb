package types

// RankedDataset is the collapsed overview handed to the renderer: peptides in
// display order, each with the sparse highlight set of strong epitopes.
type RankedDataset struct {
	Threshold  Threshold       `json:"threshold"`
	MinAlleles int             `json:"minAlleles"`
	Peptides   []RankedPeptide `json:"peptides"`
}

// RankedPeptide is one row of the overview.
type RankedPeptide struct {
	// Index is the peptide's position in the input sequence; renderers key on it.
	Index      int       `json:"index"`
	Score      int       `json:"score"`
	Peptide    Peptide   `json:"peptide"`
	Highlights []Epitope `json:"highlights"`
}

// EpitopeView is one row of the expanded peptide view.
type EpitopeView struct {
	Epitope          Epitope  `json:"epitope"`
	AllelesPassing   int      `json:"allelesPassing"`
	PassingAlleles   []string `json:"passingAlleles"`
	OverlapsMutation bool     `json:"overlapsMutation"`
}
