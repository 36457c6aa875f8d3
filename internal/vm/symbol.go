package vm

import "sync"

// Symbol is an interned identifier. Equality is hash equality: two symbols
// are the same value iff their FNV-1a hashes match, and the text of the
// first interning wins. Symbol text lives for the whole process.
type Symbol uint64

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

var symbolTable = struct {
	sync.RWMutex
	texts map[Symbol]string
}{texts: make(map[Symbol]string)}

// Intern hashes text and registers it, returning its symbol.
func Intern(text string) Symbol {
	var h uint64 = fnvOffset
	for i := 0; i < len(text); i++ {
		h ^= uint64(text[i])
		h *= fnvPrime
	}
	s := Symbol(h)

	symbolTable.RLock()
	_, known := symbolTable.texts[s]
	symbolTable.RUnlock()
	if known {
		return s
	}

	symbolTable.Lock()
	if _, known := symbolTable.texts[s]; !known {
		symbolTable.texts[s] = text
	}
	symbolTable.Unlock()
	return s
}

// Text returns the interned spelling of the symbol.
func (s Symbol) Text() string {
	symbolTable.RLock()
	defer symbolTable.RUnlock()
	return symbolTable.texts[s]
}
