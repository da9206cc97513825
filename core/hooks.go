package core

// AfterFinder is called on each record after its row has been scanned.
type AfterFinder interface{ AfterFind() error }
