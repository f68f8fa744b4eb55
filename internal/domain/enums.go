package domain

// Backend selects the analysis engine behind a phonemizer.
type Backend string

const (
	BackendKagomeIPA Backend = "kagome-ipa"
	BackendKagomeUni Backend = "kagome-uni"
	BackendGoruut    Backend = "goruut"
)

func (b Backend) Valid() bool {
	switch b {
	case BackendKagomeIPA, BackendKagomeUni, BackendGoruut:
		return true
	}
	return false
}

// Backends lists every recognized backend in a stable order.
func Backends() []Backend {
	return []Backend{BackendKagomeIPA, BackendKagomeUni, BackendGoruut}
}

// Inventory selects the symbol set phonemes are written in.
type Inventory string

const (
	InventoryIPA    Inventory = "ipa"
	InventoryRomaji Inventory = "romaji"
)

func (i Inventory) Valid() bool {
	switch i {
	case InventoryIPA, InventoryRomaji:
		return true
	}
	return false
}

// Inventories lists every recognized inventory in a stable order.
func Inventories() []Inventory {
	return []Inventory{InventoryIPA, InventoryRomaji}
}

// OutcomeStatus classifies a single line comparison.
type OutcomeStatus string

const (
	StatusMatch       OutcomeStatus = "match"
	StatusPhonemeDiff OutcomeStatus = "phoneme_diff"
	StatusTokenDiff   OutcomeStatus = "token_diff"
	StatusError       OutcomeStatus = "error"
)

func (s OutcomeStatus) Valid() bool {
	switch s {
	case StatusMatch, StatusPhonemeDiff, StatusTokenDiff, StatusError:
		return true
	}
	return false
}
